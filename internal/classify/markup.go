package classify

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/conneroisu/jsconvert/internal/errors"
	"golang.org/x/net/html/charset"
)

// Field is one key/value pair of a Record.
type Field struct {
	Key   string
	Value string
}

// Record is an ordered mapping built from one XML element: "type" holds the
// tag name, followed by one field per attribute in document order.
type Record []Field

// Set assigns value to key, keeping the position of an existing key.
func (r Record) Set(key, value string) Record {
	for i := range r {
		if r[i].Key == key {
			r[i].Value = value
			return r
		}
	}
	return append(r, Field{Key: key, Value: value})
}

// Get returns the value stored under key.
func (r Record) Get(key string) (string, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Records is the data extracted from one XML document.
type Records []Record

// JSON serializes the records as a JSON array of objects. Separators are
// ", " and ": ", and every character outside printable ASCII is escaped, so
// the output survives the 7-bit table encoding intact.
func (rs Records) JSON() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, r := range rs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('{')
		for j, f := range r {
			if j > 0 {
				b.WriteString(", ")
			}
			writeJSONString(&b, f.Key)
			b.WriteString(": ")
			writeJSONString(&b, f.Value)
		}
		b.WriteByte('}')
	}
	b.WriteByte(']')
	return b.String()
}

const hexDigits = "0123456789abcdef"

var utf8BOM = []byte("\xef\xbb\xbf")

func writeJSONString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r >= ' ' && r <= '~':
				b.WriteRune(r)
			case r > 0xFFFF:
				hi, lo := utf16.EncodeRune(r)
				writeUnicodeEscape(b, hi)
				writeUnicodeEscape(b, lo)
			default:
				writeUnicodeEscape(b, r)
			}
		}
	}
	b.WriteByte('"')
}

func writeUnicodeEscape(b *strings.Builder, r rune) {
	b.WriteString(`\u`)
	for shift := 12; shift >= 0; shift -= 4 {
		b.WriteByte(hexDigits[(r>>uint(shift))&0xF])
	}
}

// ParseMarkup extracts one Record per direct child element of the document
// root of data. Deeper elements and text are ignored. Documents that are
// not well-formed yield a markup error naming path.
//
// Attribute values are normalized as XML requires: literal tabs and line
// breaks become spaces, while character references keep the character
// they name. General entities declared in an internal DOCTYPE subset are
// expanded.
func ParseMarkup(path string, data []byte) (Records, error) {
	data, err := toUTF8(bytes.TrimPrefix(data, utf8BOM))
	if err != nil {
		return nil, errors.NewMarkupError(path, err)
	}

	dec := newMarkupDecoder(bytes.NewReader(data), map[string]string{})

	fail := func(cause error) (Records, error) {
		line, _ := dec.InputPos()
		return nil, errors.NewMarkupError(path, cause).WithLine(line)
	}

	records := make(Records, 0)
	var stack []string
	rootSeen := false

	for {
		start := dec.InputOffset()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fail(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := qualifiedName(t.Name)
			if dup := duplicateAttr(t.Attr); dup != "" {
				return fail(fmt.Errorf("duplicate attribute %s on <%s>", dup, name))
			}

			switch len(stack) {
			case 0:
				if rootSeen {
					return fail(fmt.Errorf("element <%s> after the document element", name))
				}
				rootSeen = true
			case 1:
				attrs, err := normalizedAttrs(data[start:dec.InputOffset()], dec.Entity)
				if err != nil {
					return fail(err)
				}
				record := Record{{Key: "type", Value: name}}
				for _, attr := range attrs {
					record = record.Set(qualifiedName(attr.Name), attr.Value)
				}
				records = append(records, record)
			}
			stack = append(stack, name)

		case xml.EndElement:
			name := qualifiedName(t.Name)
			if len(stack) == 0 {
				return fail(fmt.Errorf("unexpected end element </%s>", name))
			}
			if open := stack[len(stack)-1]; open != name {
				return fail(fmt.Errorf("element <%s> closed by </%s>", open, name))
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 && len(bytes.TrimSpace(t)) > 0 {
				return fail(fmt.Errorf("text outside the document element"))
			}

		case xml.Directive:
			if !rootSeen {
				declareEntities(dec.Entity, t)
			}
		}
	}

	if len(stack) > 0 {
		return fail(fmt.Errorf("unexpected end of document, <%s> not closed", stack[len(stack)-1]))
	}
	if !rootSeen {
		return fail(fmt.Errorf("no document element"))
	}

	return records, nil
}

// newMarkupDecoder returns a strict decoder over UTF-8 input. An encoding
// named by the XML declaration has already been applied by toUTF8.
func newMarkupDecoder(r io.Reader, entities map[string]string) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.Entity = entities
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	return dec
}

// toUTF8 transcodes data to UTF-8 when its XML declaration names another
// encoding.
func toUTF8(data []byte) ([]byte, error) {
	var label string
	probe := xml.NewDecoder(bytes.NewReader(data))
	probe.CharsetReader = func(name string, input io.Reader) (io.Reader, error) {
		label = name
		return input, nil
	}
	// Only the declaration matters; syntax errors surface in the real parse.
	_, _ = probe.RawToken()
	if label == "" {
		return data, nil
	}

	enc, _ := charset.Lookup(label)
	if enc == nil {
		return nil, fmt.Errorf("unsupported document encoding %q", label)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding document as %s: %w", label, err)
	}
	return decoded, nil
}

// attrWhitespace folds literal white space in a start tag to spaces. A CRLF
// pair is one line break and becomes a single space.
var attrWhitespace = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ", "\t", " ")

// normalizedAttrs re-reads the raw start tag with literal white space
// folded, so that character references such as &#10; still decode to the
// character they name.
func normalizedAttrs(tag []byte, entities map[string]string) ([]xml.Attr, error) {
	dec := newMarkupDecoder(strings.NewReader(attrWhitespace.Replace(string(tag))), entities)
	tok, err := dec.RawToken()
	if err != nil {
		return nil, err
	}
	start, ok := tok.(xml.StartElement)
	if !ok {
		return nil, fmt.Errorf("expected a start tag, got %T", tok)
	}
	return start.Attr, nil
}

func duplicateAttr(attrs []xml.Attr) string {
	if len(attrs) < 2 {
		return ""
	}
	seen := make(map[string]struct{}, len(attrs))
	for _, attr := range attrs {
		name := qualifiedName(attr.Name)
		if _, ok := seen[name]; ok {
			return name
		}
		seen[name] = struct{}{}
	}
	return ""
}

var entityDecl = regexp.MustCompile(`<!ENTITY\s+([^\s%"'>]+)\s+(?:"([^"]*)"|'([^']*)')\s*>`)

// declareEntities records the internal general entities of a DOCTYPE
// directive. Parameter and external entities are not supported; references
// to them fail as undefined.
func declareEntities(entities map[string]string, directive xml.Directive) {
	if !bytes.HasPrefix(directive, []byte("DOCTYPE")) {
		return
	}
	for _, m := range entityDecl.FindAllSubmatch(directive, -1) {
		name := string(m[1])
		if _, ok := entities[name]; ok {
			// the first declaration is binding
			continue
		}
		value := m[2]
		if value == nil {
			value = m[3]
		}
		entities[name] = string(value)
	}
}

// qualifiedName returns the name as written in the document, including its
// namespace prefix.
func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
