// Package strtable packs text into a single byte buffer and records named
// views into it, ready for emission as a generated source table.
//
// Every string added to a table is normalized to line-feed line endings and
// narrowed to 7-bit characters: each code point at or above 128 becomes a
// space (32). The narrowing is lossy on purpose. Consumers index the buffer
// assuming one byte per character, so wider encodings are not an option for
// the generated artifact.
package strtable

import "strings"

// Replacement is the byte substituted for code points outside 0-127.
const Replacement byte = ' '

// Normalize removes every carriage return from text.
func Normalize(text string) string {
	return strings.ReplaceAll(text, "\r", "")
}

// Encode normalizes text and maps each remaining code point to one byte.
func Encode(text string) []byte {
	return appendEncoded(make([]byte, 0, len(text)), text)
}

// appendEncoded appends the encoded form of text to buf and returns the
// extended buffer.
func appendEncoded(buf []byte, text string) []byte {
	for _, r := range text {
		switch {
		case r == '\r':
			continue
		case r < 0x80:
			buf = append(buf, byte(r))
		default:
			buf = append(buf, Replacement)
		}
	}
	return buf
}
