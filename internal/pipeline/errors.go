package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure for the presentation layer.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindAcquisition      Kind = "acquisition"
	KindForbidden        Kind = "forbidden"
	KindDurationExceeded Kind = "duration_exceeded"
	KindAnalysis         Kind = "analysis"
)

// Error is the single error type that crosses the orchestrator boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the failure kind from an error chain, defaulting to
// acquisition for unclassified errors.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return KindAcquisition
}
