package errors

import (
	"context"
	"errors"
	"sort"
)

// Exit codes reported by the command line.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// ErrorHandler provides centralized error reporting for conversion runs.
type ErrorHandler struct {
	logger Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs err with the fields relevant to its type and returns the
// process exit code it maps to.
func (h *ErrorHandler) Handle(ctx context.Context, err error) int {
	if err == nil {
		return ExitOK
	}

	var ce *ConvertError
	if !errors.As(err, &ce) {
		if h.logger != nil {
			h.logger.Error(ctx, err, "Conversion failed")
		}
		return ExitFailure
	}

	if h.logger != nil {
		switch ce.Type {
		case ErrorTypeUsage:
			h.logger.Error(ctx, ce, "Invalid usage", append([]interface{}{"code", ce.Code}, contextFields(ce)...)...)
		case ErrorTypeConfig:
			h.logger.Error(ctx, ce, "Invalid configuration", append([]interface{}{"code", ce.Code}, contextFields(ce)...)...)
		default:
			fields := []interface{}{
				"type", ce.Type,
				"code", ce.Code,
				"path", ce.Path,
			}
			h.logger.Error(ctx, ce, "Conversion failed", append(fields, contextFields(ce)...)...)
		}
	}

	return ExitCode(err)
}

// contextFields flattens the error context into key/value pairs, ordered
// by key.
func contextFields(ce *ConvertError) []interface{} {
	keys := make([]string, 0, len(ce.Context))
	for k := range ce.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		fields = append(fields, k, ce.Context[k])
	}
	return fields
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsType(err, ErrorTypeUsage):
		return ExitUsage
	default:
		return ExitFailure
	}
}
