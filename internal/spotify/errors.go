package spotify

import (
	"errors"
	"net/http"

	"github.com/zmb3/spotify/v2"

	"github.com/panuhen/spotify-mcp/internal/result"
)

var statusMessages = map[int]string{
	http.StatusUnauthorized:    "Authentication failed. Please re-authenticate.",
	http.StatusForbidden:       "Permission denied. Check app scopes.",
	http.StatusNotFound:        "Resource not found.",
	http.StatusTooManyRequests: "Rate limited. Please wait and try again.",
}

// normalizeError converts any error from an upstream call into a Failure.
// Errors carrying an HTTP status get the fixed message for that status, or
// the upstream message for statuses without one.
func normalizeError(err error) result.Failure {
	if status, message, ok := upstreamError(err); ok {
		msg, known := statusMessages[status]
		if !known {
			msg = message
		}
		return result.Failure{Error: msg, Status: status, Details: message}
	}
	return result.Failure{Error: err.Error()}
}

func upstreamError(err error) (status int, message string, ok bool) {
	var value spotify.Error
	if errors.As(err, &value) {
		return value.Status, value.Message, value.Status != 0
	}
	var ptr *spotify.Error
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Status, ptr.Message, ptr.Status != 0
	}
	return 0, "", false
}
