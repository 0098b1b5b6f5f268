package ical

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds for matching with errors.Is. Only ErrMalformedLine aborts an
// event build; the two value kinds are recovered from by leaving the field
// unset.
var (
	ErrMalformedLine = errors.New("malformed content line")
	ErrDateFormat    = errors.New("invalid date-time value")
	ErrGeoFormat     = errors.New("invalid geo value")
)

type CustomError struct {
	msg  string
	kind error
	args map[string]any
}

// Create a new custom error
func NewCustomError(msg string, args map[string]any) *CustomError {
	if args == nil {
		args = make(map[string]any)
	}
	return &CustomError{
		msg:  msg,
		args: args,
	}
}

// Tag the error with one of the package error kinds
func (e *CustomError) Kind(kind error) *CustomError {
	e.kind = kind
	return e
}

// Get the error message
func (e *CustomError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.msg)
	sb.WriteString(" |")
	for key, value := range e.args {
		sb.WriteString(fmt.Sprintf(" %s: %v", key, value))
	}
	return sb.String()
}

func (e *CustomError) Unwrap() error {
	return e.kind
}
