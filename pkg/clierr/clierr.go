package clierr

import "errors"

// Type categorizes a CLI-facing error for consistent messaging and exit codes.
type Type string

const (
	Validation Type = "validation"
	NotFound   Type = "not_found"
	Auth       Type = "auth"
	API        Type = "api"
	Internal   Type = "internal"
)

// Exit codes returned by the binary, one per error type.
const (
	ExitOK         = 0
	ExitInternal   = 1
	ExitValidation = 2
	ExitNotFound   = 3
	ExitAuth       = 4
	ExitAPI        = 5
)

// Error is a structured user-facing error.
type Error struct {
	Type    Type
	Message string
	Err     error // optional underlying error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// New constructs a new CLI Error.
func New(t Type, msg string, err error) *Error { return &Error{Type: t, Message: msg, Err: err} }

// ExitCode maps the error type to the process exit code.
func (e *Error) ExitCode() int {
	switch e.Type {
	case Validation:
		return ExitValidation
	case NotFound:
		return ExitNotFound
	case Auth:
		return ExitAuth
	case API:
		return ExitAPI
	default:
		return ExitInternal
	}
}

// Code returns the exit code for err: 0 for nil, the *Error's code when one
// is in the chain, ExitInternal otherwise.
func Code(err error) int {
	if err == nil {
		return ExitOK
	}
	var cliErr *Error
	if errors.As(err, &cliErr) {
		return cliErr.ExitCode()
	}
	return ExitInternal
}
