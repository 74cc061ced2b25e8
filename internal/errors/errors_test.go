package errors

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertErrorString(t *testing.T) {
	err := NewMarkupError("data/list.xml", errors.New("unexpected EOF")).WithLine(3)

	assert.Equal(t, "[ERR_MALFORMED_XML] data/list.xml:3: malformed XML document: unexpected EOF", err.Error())
}

func TestNewInputErrorCodes(t *testing.T) {
	testCases := []struct {
		name  string
		cause error
		code  string
	}{
		{"missing", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}, ErrCodeFileNotFound},
		{"permission", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrPermission}, ErrCodePermissionDenied},
		{"other", errors.New("is a directory"), ErrCodeReadFailed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewInputError("x", tc.cause)
			assert.Equal(t, ErrorTypeInput, err.Type)
			assert.Equal(t, tc.code, err.Code)
			assert.Equal(t, "x", err.Path)
			assert.ErrorIs(t, err, tc.cause)
		})
	}
}

func TestNewInputErrorFromOpen(t *testing.T) {
	_, cause := os.Open("definitely/not/here.js")
	require.Error(t, cause)

	err := NewInputError("definitely/not/here.js", cause)
	assert.Equal(t, ErrCodeFileNotFound, err.Code)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestConvertErrorIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewOutputError("out.cpp", errors.New("disk full")))

	assert.True(t, errors.Is(err, &ConvertError{Type: ErrorTypeOutput, Code: ErrCodeWriteFailed}))
	assert.False(t, errors.Is(err, &ConvertError{Type: ErrorTypeInput, Code: ErrCodeWriteFailed}))
	assert.True(t, IsType(err, ErrorTypeOutput))
	assert.Equal(t, "out.cpp", PathOf(err))
	assert.Empty(t, PathOf(errors.New("plain")))
}

func TestDecodeErrorContext(t *testing.T) {
	err := NewDecodeError("a.js", "utf-8", errors.New("invalid byte"))

	assert.Equal(t, "utf-8", err.Context["encoding"])
	assert.Contains(t, err.Error(), "not valid utf-8 text")
}

type recordingLogger struct {
	messages []string
	fields   [][]interface{}
}

func (r *recordingLogger) Error(_ context.Context, _ error, msg string, fields ...interface{}) {
	r.messages = append(r.messages, msg)
	r.fields = append(r.fields, fields)
}

func (r *recordingLogger) Warn(_ context.Context, _ error, msg string, fields ...interface{}) {
	r.messages = append(r.messages, msg)
	r.fields = append(r.fields, fields)
}

func TestErrorHandler(t *testing.T) {
	logger := &recordingLogger{}
	handler := NewErrorHandler(logger)
	ctx := context.Background()

	assert.Equal(t, ExitOK, handler.Handle(ctx, nil))
	assert.Empty(t, logger.messages)

	code := handler.Handle(ctx, NewInputError("a.js", fs.ErrNotExist))
	assert.Equal(t, ExitFailure, code)
	require.Len(t, logger.messages, 1)
	assert.Equal(t, "Conversion failed", logger.messages[0])
	assert.Contains(t, logger.fields[0], "a.js")

	code = handler.Handle(ctx, NewUsageError(ErrCodeMissingArgument, "missing output file"))
	assert.Equal(t, ExitUsage, code)
	assert.Equal(t, "Invalid usage", logger.messages[1])

	code = handler.Handle(ctx, errors.New("boom"))
	assert.Equal(t, ExitFailure, code)
}

func TestErrorHandlerLogsContext(t *testing.T) {
	logger := &recordingLogger{}
	handler := NewErrorHandler(logger)

	err := NewDecodeError("a.js", "shift_jis", errors.New("invalid byte")).
		WithContext("offset", 12)
	wrapped := fmt.Errorf("converting: %w", err)

	assert.Equal(t, ExitFailure, handler.Handle(context.Background(), wrapped))
	require.Len(t, logger.fields, 1)
	assert.Equal(t, []interface{}{
		"type", ErrorTypeDecode,
		"code", ErrCodeInvalidText,
		"path", "a.js",
		"encoding", "shift_jis",
		"offset", 12,
	}, logger.fields[0])

	usage := NewUsageError(ErrCodeInvalidArgument, "bad flag").WithContext("flag", "--target")
	handler.Handle(context.Background(), usage)
	require.Len(t, logger.fields, 2)
	assert.Equal(t, []interface{}{"code", ErrCodeInvalidArgument, "flag", "--target"}, logger.fields[1])
}
