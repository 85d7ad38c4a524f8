package core

import "github.com/pkg/errors"

// FieldError reports a semantic problem with one request field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a request rejection the API must answer with a
// 400: either a single message or a set of field errors. Unlike
// validator tag failures, these carry rules the tags cannot express.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown signals a broken storage layer. The error handler reacts by
// asking the server to stop taking traffic.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown checks if err (or its cause) warrants a graceful shutdown.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
