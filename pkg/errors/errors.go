// Package errors provides structured error handling for csvtable.
package errors

import (
	"errors"
	"runtime"

	stringpool "github.com/ajitpratap0/csvtable/pkg/strings"
)

// ErrorType represents the category of error.
type ErrorType string

const (
	// ErrorTypeInternal represents internal engine errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeNotFound represents missing or non-regular input files
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeConfig represents invalid or conflicting parse options
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeSchema represents schema resolution failures, such as
	// attempting type inference on an input with no data rows
	ErrorTypeSchema ErrorType = "schema"
	// ErrorTypeConversion represents a field that cannot be converted
	// to its column's dtype
	ErrorTypeConversion ErrorType = "conversion"
	// ErrorTypeQuoting represents malformed quoting, such as an
	// unterminated quoted field at end of input
	ErrorTypeQuoting ErrorType = "quoting"
	// ErrorTypeIO represents failures reading the underlying source
	ErrorTypeIO ErrorType = "io"
)

// Error represents a structured error with context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack.
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return stringpool.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return stringpool.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error. Parse errors use this
// to attach the row index, column name and raw field text so a caller can
// diagnose the failure without re-running with tracing enabled.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: stringpool.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// Detail returns a detail value attached to the error, or nil.
func Detail(err error, key string) interface{} {
	var e *Error
	if !errors.As(err, &e) {
		return nil
	}
	return e.Details[key]
}

// captureStack captures the current call stack.
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
