package classify

import (
	"testing"

	"github.com/conneroisu/jsconvert/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkup(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "flat records",
			input:    `<root><item id="1"/><item id="2" label="x"/></root>`,
			expected: `[{"type": "item", "id": "1"}, {"type": "item", "id": "2", "label": "x"}]`,
		},
		{
			name:     "empty root",
			input:    `<root/>`,
			expected: `[]`,
		},
		{
			name:     "text comments and grandchildren ignored",
			input:    "<root>hello<!-- c --><a><b x=\"1\"/></a>tail</root>",
			expected: `[{"type": "a"}]`,
		},
		{
			name:     "empty attribute kept",
			input:    `<r><e k=""/></r>`,
			expected: `[{"type": "e", "k": ""}]`,
		},
		{
			name:     "type attribute overrides tag in place",
			input:    `<r><e a="1" type="custom"/></r>`,
			expected: `[{"type": "custom", "a": "1"}]`,
		},
		{
			name:     "prefixed names",
			input:    `<r xmlns:f="urn:f"><f:filter f:url="/ads"/></r>`,
			expected: `[{"type": "f:filter", "f:url": "/ads"}]`,
		},
		{
			name:     "non-ascii escaped",
			input:    `<r><e title="caf&#233; &#128512;"/></r>`,
			expected: `[{"type": "e", "title": "caf\u00e9 \ud83d\ude00"}]`,
		},
		{
			name:     "quotes and control characters escaped",
			input:    `<r><e q="&quot;a\b&quot;&#9;&#127;"/></r>`,
			expected: `[{"type": "e", "q": "\"a\\b\"\t\u007f"}]`,
		},
		{
			name:     "entities decoded",
			input:    `<r><e v="&lt;&amp;&gt;"/></r>`,
			expected: `[{"type": "e", "v": "<&>"}]`,
		},
		{
			name:     "byte order mark",
			input:    "\xef\xbb\xbf<r><e/></r>",
			expected: `[{"type": "e"}]`,
		},
		{
			name:     "declared latin1 encoding",
			input:    "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><r><e n=\"\xe9\"/></r>",
			expected: `[{"type": "e", "n": "\u00e9"}]`,
		},
		{
			name:     "literal white space in attributes folded",
			input:    "<r><e a=\"x\ny\tz\"/></r>",
			expected: `[{"type": "e", "a": "x y z"}]`,
		},
		{
			name:     "crlf in attribute is one space",
			input:    "<r><e a=\"x\r\ny\" b=\"p\rq\"/></r>",
			expected: `[{"type": "e", "a": "x y", "b": "p q"}]`,
		},
		{
			name:     "character references keep white space",
			input:    `<r><e a="x&#10;y&#9;z&#13;"/></r>`,
			expected: `[{"type": "e", "a": "x\ny\tz\r"}]`,
		},
		{
			name:     "white space between attributes",
			input:    "<r><e\n\ta=\"1\"\r\n\tb=\"2\"\n/></r>",
			expected: `[{"type": "e", "a": "1", "b": "2"}]`,
		},
		{
			name:     "internal entities expanded",
			input:    `<!DOCTYPE r [<!ENTITY foo "bar"><!ENTITY q 'it"s'>]><r><e a="&foo;!" b="&q;"/></r>`,
			expected: `[{"type": "e", "a": "bar!", "b": "it\"s"}]`,
		},
		{
			name:     "first entity declaration wins",
			input:    `<!DOCTYPE r [<!ENTITY foo "one"><!ENTITY foo "two">]><r><e a="&foo;"/></r>`,
			expected: `[{"type": "e", "a": "one"}]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := ParseMarkup("test.xml", []byte(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, records.JSON())
		})
	}
}

func TestParseMarkupErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"empty document", ""},
		{"whitespace only", "  \n"},
		{"unclosed root", "<root><item/>"},
		{"mismatched tags", "<root><a></b></root>"},
		{"stray end tag", "</root>"},
		{"two roots", "<a/><b/>"},
		{"text after root", "<a/>junk"},
		{"bad attribute", "<a><b x=1/></a>"},
		{"undefined entity", "<a><b x=\"&nbsp;\"/></a>"},
		{"duplicate attribute", `<r><e a="1" a="2"/></r>`},
		{"duplicate attribute on root", `<r a="1" a="1"><e/></r>`},
		{"duplicate attribute on nested element", `<r><e><g b="1" b="2"/></e></r>`},
		{"duplicate type attribute", `<r><e type="a" type="b"/></r>`},
		{"external entity", `<!DOCTYPE r [<!ENTITY ext SYSTEM "ext.txt">]><r><e a="&ext;"/></r>`},
		{"unknown declared encoding", `<?xml version="1.0" encoding="x-no-such"?><r/>`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseMarkup("broken.xml", []byte(tc.input))
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeMarkup))
			assert.Equal(t, "broken.xml", errors.PathOf(err))
		})
	}
}

func TestRecordGetSet(t *testing.T) {
	r := Record{{Key: "type", Value: "a"}}
	r = r.Set("id", "1")
	r = r.Set("type", "b")

	v, ok := r.Get("type")
	require.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, "type", r[0].Key)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}
