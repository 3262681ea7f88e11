// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure that can happen around a stage call falls into one of four kinds;
// the orchestrator converts all of them into the session status message at the
// stage boundary, so callers inspect the kind rather than parse error strings.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Transport indicates the request could not complete (dial, I/O, body read).
	Transport Kind = "transport"
	// Rejected indicates a non-success status returned by the analysis service.
	Rejected Kind = "rejected"
	// DataShape indicates a response that decoded but lacks the expected keys or shape.
	DataShape Kind = "data_shape"
	// Precondition indicates a stage invoked before its upstream stage completed.
	Precondition Kind = "precondition"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Stage   string
	Status  int
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Rejectedf builds a service rejection carrying the HTTP status and response body.
func Rejectedf(stage string, status int, body string) *E {
	return &E{Kind: Rejected, Stage: stage, Status: status, Message: strings.TrimSpace(body)}
}

// KindOf returns the kind of err, or "" when err is not an *E.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Describe renders the status message shown to the user for a failed stage.
func Describe(stage string, err error) string {
	var e *E
	if !stderrors.As(err, &e) {
		return fmt.Sprintf("An error occurred: %v", err)
	}
	switch e.Kind {
	case Rejected:
		msg := fmt.Sprintf("Failed to run %s stage. Status code: %d", stage, e.Status)
		if e.Message != "" {
			msg += "\nError details: " + e.Message
		}
		return msg
	case DataShape:
		return fmt.Sprintf("Unexpected %s response from the analysis service: %s", stage, e.Message)
	case Precondition:
		return fmt.Sprintf("Cannot run %s stage: %s", stage, e.Message)
	default:
		if e.Err != nil {
			return fmt.Sprintf("An error occurred: %v", e.Err)
		}
		return fmt.Sprintf("An error occurred: %s", e.Message)
	}
}
