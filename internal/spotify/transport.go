package spotify

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// throttledTransport waits for a limiter token before each upstream request.
// It never retries; a 429 still reaches the caller.
type throttledTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func (t *throttledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}

// NewHTTPClient returns the HTTP client for upstream API and token traffic.
// A non-positive requestsPerSecond disables throttling; a zero timeout
// disables the per-request deadline.
func NewHTTPClient(requestsPerSecond float64, timeout time.Duration) *http.Client {
	var transport http.RoundTripper = http.DefaultTransport
	if requestsPerSecond > 0 {
		burst := max(int(requestsPerSecond), 1)
		transport = &throttledTransport{
			next:    transport,
			limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		}
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}
