// Package source reads input files and decodes them as text.
package source

import (
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/conneroisu/jsconvert/internal/errors"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// DefaultEncoding is the encoding input text is expected in.
const DefaultEncoding = "utf-8"

// Reader reads input files under one source encoding.
type Reader struct {
	encoding encoding.Encoding
	name     string
}

// NewReader returns a reader for the encoding with the given label, as
// understood by WHATWG encoding labels ("utf-8", "latin1", "shift_jis", ...).
// An empty label selects DefaultEncoding.
func NewReader(label string) (*Reader, error) {
	if strings.TrimSpace(label) == "" {
		label = DefaultEncoding
	}

	enc, name := charset.Lookup(label)
	if enc == nil {
		return nil, errors.NewConfigError(
			errors.ErrCodeUnknownEncoding,
			"unknown source encoding "+label,
			nil,
		)
	}

	return &Reader{encoding: enc, name: name}, nil
}

// Encoding returns the canonical name of the reader's encoding.
func (r *Reader) Encoding() string {
	return r.name
}

// ReadBytes returns the raw contents of path.
func (r *Reader) ReadBytes(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewInputError(path, err)
	}
	return data, nil
}

// ReadText returns the contents of path decoded to a string. Input that is
// not valid in the reader's encoding is a decode error.
func (r *Reader) ReadText(path string) (string, error) {
	data, err := r.ReadBytes(path)
	if err != nil {
		return "", err
	}
	return r.Decode(path, data)
}

// Decode converts data read from path to a string.
func (r *Reader) Decode(path string, data []byte) (string, error) {
	// The UTF-8 decoder substitutes U+FFFD instead of failing, so invalid
	// sequences are rejected up front.
	if r.name == "utf-8" {
		if !utf8.Valid(data) {
			return "", errors.NewDecodeError(path, r.name, errInvalidUTF8(data))
		}
		return string(data), nil
	}

	decoded, err := r.encoding.NewDecoder().Bytes(data)
	if err != nil {
		return "", errors.NewDecodeError(path, r.name, err)
	}
	return string(decoded), nil
}

type invalidUTF8Error struct {
	offset int
}

func (e *invalidUTF8Error) Error() string {
	return "invalid UTF-8 sequence at byte " + strconv.Itoa(e.offset)
}

func errInvalidUTF8(data []byte) error {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return &invalidUTF8Error{offset: i}
		}
		i += size
	}
	return &invalidUTF8Error{offset: len(data)}
}
