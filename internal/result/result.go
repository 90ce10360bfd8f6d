// Package result defines the normalized payloads every tool call returns.
//
// A call produces exactly one Result: a Message for mutations, a Failure for
// any error, or an operation-specific data value that embeds Data. The
// interface is sealed, so handlers cannot return anything else.
package result

import "fmt"

// Result is a normalized tool response.
type Result interface {
	result()
}

// Data marks a read payload. Embed it in the payload struct; it adds no JSON fields.
type Data struct{}

func (Data) result() {}

// Message is the outcome of a mutation.
type Message struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (Message) result() {}

// Failure is the normalized error payload. Status and Details are set only
// for errors reported by the upstream service.
type Failure struct {
	Error   string `json:"error"`
	Status  int    `json:"status,omitempty"`
	Details string `json:"details,omitempty"`
}

func (Failure) result() {}

// OK returns a successful Message.
func OK(format string, args ...any) Message {
	return Message{Success: true, Message: fmt.Sprintf(format, args...)}
}

// Refused returns an unsuccessful Message, used for local-state rejections
// that are not errors.
func Refused(message string) Message {
	return Message{Success: false, Message: message}
}

// Errorf returns a Failure without upstream status.
func Errorf(format string, args ...any) Failure {
	return Failure{Error: fmt.Sprintf(format, args...)}
}

// IsFailure reports whether r is a Failure.
func IsFailure(r Result) bool {
	_, ok := r.(Failure)
	return ok
}
