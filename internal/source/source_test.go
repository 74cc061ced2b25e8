package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/conneroisu/jsconvert/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestNewReader(t *testing.T) {
	testCases := []struct {
		label    string
		expected string
	}{
		{"", "utf-8"},
		{"UTF-8", "utf-8"},
		{"utf8", "utf-8"},
		{"latin1", "windows-1252"},
	}

	for _, tc := range testCases {
		t.Run(tc.label, func(t *testing.T) {
			r, err := NewReader(tc.label)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, r.Encoding())
		})
	}
}

func TestNewReaderUnknownEncoding(t *testing.T) {
	_, err := NewReader("klingon")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestReadTextUTF8(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.js", []byte("// ≥ ok\r\nlet a;\n"))

	r, err := NewReader("utf-8")
	require.NoError(t, err)

	text, err := r.ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "// ≥ ok\r\nlet a;\n", text)
}

func TestReadTextInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.js", []byte("ok\xff\xfe"))

	r, err := NewReader("")
	require.NoError(t, err)

	_, err = r.ReadText(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDecode))
	assert.Equal(t, path, errors.PathOf(err))
	assert.Contains(t, err.Error(), "byte 2")
}

func TestReadTextLatin1(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "l.js", []byte("caf\xe9"))

	r, err := NewReader("latin1")
	require.NoError(t, err)

	text, err := r.ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "café", text)
}

func TestReadMissingFile(t *testing.T) {
	r, err := NewReader("")
	require.NoError(t, err)

	_, err = r.ReadText(filepath.Join(t.TempDir(), "missing.js"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInput))
	assert.ErrorIs(t, err, &errors.ConvertError{Type: errors.ErrorTypeInput, Code: errors.ErrCodeFileNotFound})
}

func TestReadDirectory(t *testing.T) {
	r, err := NewReader("")
	require.NoError(t, err)

	_, err = r.ReadBytes(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInput))
}
