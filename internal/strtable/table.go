package strtable

import (
	"errors"
	"sync"
)

// ErrFinalized is returned when a builder is used after Finalize.
var ErrFinalized = errors.New("strtable: builder already finalized")

// Entry is one named string stored in the buffer. The name and the content
// are both stored in the buffer and referenced by offset and length.
type Entry struct {
	Name       string `json:"name" yaml:"name"`
	NameOffset int    `json:"name_offset" yaml:"name_offset"`
	NameLength int    `json:"name_length" yaml:"name_length"`
	Offset     int    `json:"offset" yaml:"offset"`
	Length     int    `json:"length" yaml:"length"`
}

// View is a raw (offset, length) slice of the buffer.
type View struct {
	Offset int
	Length int
}

// Builder accumulates entries for a single conversion run.
//
// A Builder is single-use: once Finalize has been called, further calls to
// Add or Finalize return ErrFinalized.
type Builder struct {
	buffer    []byte
	entries   []Entry
	finalized bool
	mutex     sync.Mutex
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		buffer:  make([]byte, 0, 4096),
		entries: make([]Entry, 0, 16),
	}
}

// Add encodes name and content into the buffer and records an entry for
// them. Names are not required to be unique.
func (b *Builder) Add(name, content string) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.finalized {
		return ErrFinalized
	}

	nameOffset := len(b.buffer)
	b.buffer = appendEncoded(b.buffer, name)
	offset := len(b.buffer)
	b.buffer = appendEncoded(b.buffer, content)

	b.entries = append(b.entries, Entry{
		Name:       name,
		NameOffset: nameOffset,
		NameLength: offset - nameOffset,
		Offset:     offset,
		Length:     len(b.buffer) - offset,
	})

	return nil
}

// Len returns the number of entries added so far.
func (b *Builder) Len() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.entries)
}

// Finalize hands the accumulated buffer and entries over to a Table.
func (b *Builder) Finalize() (*Table, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.finalized {
		return nil, ErrFinalized
	}
	b.finalized = true

	table := &Table{
		Buffer:  b.buffer,
		Entries: b.entries,
	}
	b.buffer = nil
	b.entries = nil

	return table, nil
}

// Table is the finalized state of a Builder.
type Table struct {
	Buffer  []byte
	Entries []Entry
}

// Views returns the interleaved name and content views of all entries, in
// insertion order. This is the layout of the generated string array, minus
// its empty sentinel.
func (t *Table) Views() []View {
	views := make([]View, 0, len(t.Entries)*2)
	for _, e := range t.Entries {
		views = append(views,
			View{Offset: e.NameOffset, Length: e.NameLength},
			View{Offset: e.Offset, Length: e.Length},
		)
	}
	return views
}

// Slice returns the text referenced by v.
func (t *Table) Slice(v View) string {
	return string(t.Buffer[v.Offset : v.Offset+v.Length])
}

// Content returns the stored content of entry i.
func (t *Table) Content(i int) string {
	e := t.Entries[i]
	return t.Slice(View{Offset: e.Offset, Length: e.Length})
}

// StoredName returns the name of entry i as stored in the buffer, which
// differs from Entry.Name when the name contains non-ASCII characters.
func (t *Table) StoredName(i int) string {
	e := t.Entries[i]
	return t.Slice(View{Offset: e.NameOffset, Length: e.NameLength})
}

// Lookup returns the content of the last entry named name. Later entries
// shadow earlier ones, the same way the host populates its lookup table.
func (t *Table) Lookup(name string) (string, bool) {
	for i := len(t.Entries) - 1; i >= 0; i-- {
		if t.Entries[i].Name == name {
			return t.Content(i), true
		}
	}
	return "", false
}
