// Package errors defines the error taxonomy of a conversion run.
//
// Every failure that aborts a run is a *ConvertError carrying its Type, a
// stable Code and the path of the offending file.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	// ErrorTypeInput covers missing or unreadable input files.
	ErrorTypeInput ErrorType = "input"
	// ErrorTypeDecode covers input that is not valid text in the source encoding.
	ErrorTypeDecode ErrorType = "decode"
	// ErrorTypeMarkup covers XML input that is not well-formed.
	ErrorTypeMarkup ErrorType = "markup"
	// ErrorTypeOutput covers failures creating or writing the artifact.
	ErrorTypeOutput ErrorType = "output"
	ErrorTypeUsage  ErrorType = "usage"
	ErrorTypeConfig ErrorType = "config"
)

// Common error codes.
const (
	ErrCodeFileNotFound     = "ERR_FILE_NOT_FOUND"
	ErrCodePermissionDenied = "ERR_PERMISSION_DENIED"
	ErrCodeReadFailed       = "ERR_READ_FAILED"
	ErrCodeInvalidText      = "ERR_INVALID_TEXT"
	ErrCodeUnknownEncoding  = "ERR_UNKNOWN_ENCODING"
	ErrCodeMalformedXML     = "ERR_MALFORMED_XML"
	ErrCodeWriteFailed      = "ERR_WRITE_FAILED"
	ErrCodeMissingArgument  = "ERR_MISSING_ARGUMENT"
	ErrCodeInvalidArgument  = "ERR_INVALID_ARGUMENT"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
)

// ConvertError is a structured error type with context.
type ConvertError struct {
	Type    ErrorType
	Code    string
	Message string
	Path    string
	Line    int
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *ConvertError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Path != "" {
		location := e.Path
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
		}
		parts = append(parts, location+":")
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *ConvertError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *ConvertError) Is(target error) bool {
	var t *ConvertError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *ConvertError) WithContext(key string, value interface{}) *ConvertError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithLine records the line an error was detected on.
func (e *ConvertError) WithLine(line int) *ConvertError {
	e.Line = line

	return e
}

// NewInputError classifies a failure to open or read path. Missing files
// and permission problems get their own codes.
func NewInputError(path string, cause error) *ConvertError {
	code := ErrCodeReadFailed
	message := "cannot read input file"
	switch {
	case errors.Is(cause, fs.ErrNotExist):
		code = ErrCodeFileNotFound
		message = "input file not found"
	case errors.Is(cause, fs.ErrPermission):
		code = ErrCodePermissionDenied
		message = "permission denied reading input file"
	}

	return &ConvertError{
		Type:    ErrorTypeInput,
		Code:    code,
		Message: message,
		Path:    path,
		Cause:   cause,
	}
}

// NewDecodeError creates a decode error.
func NewDecodeError(path, encoding string, cause error) *ConvertError {
	return (&ConvertError{
		Type:    ErrorTypeDecode,
		Code:    ErrCodeInvalidText,
		Message: fmt.Sprintf("input is not valid %s text", encoding),
		Path:    path,
		Cause:   cause,
	}).WithContext("encoding", encoding)
}

// NewMarkupError creates a markup parse error.
func NewMarkupError(path string, cause error) *ConvertError {
	return &ConvertError{
		Type:    ErrorTypeMarkup,
		Code:    ErrCodeMalformedXML,
		Message: "malformed XML document",
		Path:    path,
		Cause:   cause,
	}
}

// NewOutputError creates an output write error.
func NewOutputError(path string, cause error) *ConvertError {
	return &ConvertError{
		Type:    ErrorTypeOutput,
		Code:    ErrCodeWriteFailed,
		Message: "cannot write output file",
		Path:    path,
		Cause:   cause,
	}
}

// NewUsageError creates a command line usage error.
func NewUsageError(code, message string) *ConvertError {
	return &ConvertError{
		Type:    ErrorTypeUsage,
		Code:    code,
		Message: message,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string, cause error) *ConvertError {
	return &ConvertError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsType reports whether err is a *ConvertError of type t.
func IsType(err error, t ErrorType) bool {
	var ce *ConvertError
	if errors.As(err, &ce) {
		return ce.Type == t
	}

	return false
}

// PathOf returns the path recorded in err, if any.
func PathOf(err error) string {
	var ce *ConvertError
	if errors.As(err, &ce) {
		return ce.Path
	}

	return ""
}
