package strtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []byte
	}{
		{"empty", "", []byte{}},
		{"ascii", "let x=1;", []byte("let x=1;")},
		{"crlf normalized", "a\r\nb\r\n", []byte("a\nb\n")},
		{"lone cr dropped", "a\rb", []byte("ab")},
		{"non-ascii becomes space", "x ≥ y", []byte("x   y")},
		{"astral rune is one space", "a\U0001F600b", []byte("a b")},
		{"del kept", "\x7f", []byte{127}},
		{"nul kept", "\x00", []byte{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Encode(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a\nb", Normalize("a\r\nb"))
	assert.Equal(t, "plain", Normalize("plain"))
}

func TestBuilderAdd(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("a.js", "one"))
	require.NoError(t, b.Add("b.js", "two\r\n"))
	assert.Equal(t, 2, b.Len())

	table, err := b.Finalize()
	require.NoError(t, err)

	assert.Equal(t, []byte("a.jsoneb.jstwo\n"), table.Buffer)
	assert.Equal(t, []Entry{
		{Name: "a.js", NameOffset: 0, NameLength: 4, Offset: 4, Length: 3},
		{Name: "b.js", NameOffset: 7, NameLength: 4, Offset: 11, Length: 4},
	}, table.Entries)

	assert.Equal(t, "one", table.Content(0))
	assert.Equal(t, "two\n", table.Content(1))
	assert.Equal(t, "b.js", table.StoredName(1))
}

func TestBuilderLengthCountsCharacters(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("n", "é\r\n"))

	table, err := b.Finalize()
	require.NoError(t, err)

	// two bytes of UTF-8 plus CRLF collapse to one space and one newline
	assert.Equal(t, 2, table.Entries[0].Length)
	assert.Equal(t, " \n", table.Content(0))
}

func TestBuilderSingleUse(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("a", "b"))

	_, err := b.Finalize()
	require.NoError(t, err)

	assert.ErrorIs(t, b.Add("c", "d"), ErrFinalized)

	_, err = b.Finalize()
	assert.ErrorIs(t, err, ErrFinalized)
}

func TestTableViews(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("x", "11"))
	require.NoError(t, b.Add("yy", ""))

	table, err := b.Finalize()
	require.NoError(t, err)

	views := table.Views()
	require.Len(t, views, 4)
	assert.Equal(t, []View{{0, 1}, {1, 2}, {3, 2}, {5, 0}}, views)

	got := make([]string, 0, len(views))
	for _, v := range views {
		got = append(got, table.Slice(v))
	}
	assert.Equal(t, []string{"x", "11", "yy", ""}, got)
}

func TestTableLookupShadowing(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("dup.js", "first"))
	require.NoError(t, b.Add("other.js", "other"))
	require.NoError(t, b.Add("dup.js", "second"))

	table, err := b.Finalize()
	require.NoError(t, err)

	content, ok := table.Lookup("dup.js")
	require.True(t, ok)
	assert.Equal(t, "second", content)

	_, ok = table.Lookup("missing.js")
	assert.False(t, ok)
}
