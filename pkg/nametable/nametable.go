// Package nametable implements the street-name dedup table: a single
// DataAccess holding a sequence of records [lengthInInts, int0, ...], each
// int a UTF-32BE-encoded rune. Insertion does a linear scan for an existing
// match before appending a new record, acceptable only for an offline
// build (see Table.AddName doc comment).
package nametable

import (
	"fmt"
	"unicode/utf8"

	"github.com/azybler/roadgraph/pkg/store"
)

const hdrNameCount = 0

// Table is the street-name dedup table.
type Table struct {
	da        store.DataAccess
	nextWord  int
	nameCount int32
}

// New wraps da as a Table. da must still be configured with CreateNew or
// LoadExisting.
func New(da store.DataAccess) *Table {
	return &Table{da: da}
}

// CreateNew initializes an empty table.
func (t *Table) CreateNew() error {
	if err := t.da.CreateNew(4); err != nil {
		return fmt.Errorf("nametable: create: %w", err)
	}
	t.nextWord = 0
	t.nameCount = 0
	t.da.SetHeader(hdrNameCount, 0)
	return nil
}

// LoadExisting reopens a table previously flushed by this package, scanning
// to the end of the record sequence to recover nextWord.
func (t *Table) LoadExisting() (bool, error) {
	ok, err := t.da.LoadExisting()
	if err != nil || !ok {
		return ok, err
	}
	t.nameCount = t.da.GetHeader(hdrNameCount)
	w := 0
	for i := int32(0); i < t.nameCount; i++ {
		length := int(t.da.GetInt(w))
		w += 1 + length
	}
	t.nextWord = w
	return true, nil
}

// Flush persists nameCount and delegates to the backing DataAccess.
func (t *Table) Flush() error {
	t.da.SetHeader(hdrNameCount, t.nameCount)
	return t.da.Flush()
}

// Close releases the backing DataAccess.
func (t *Table) Close() error { return t.da.Close() }

// NameCount returns the number of distinct names stored so far.
func (t *Table) NameCount() int32 { return t.nameCount }

// AddName returns the offset of s within the table, inserting it if not
// already present. The dedup scan is O(n) per insert; a production rewrite
// should hash on insert instead.
func (t *Table) AddName(s string) int32 {
	encoded := encodeUTF32(s)
	w := 0
	for i := int32(0); i < t.nameCount; i++ {
		length := int(t.da.GetInt(w))
		if length == len(encoded) && t.recordEquals(w+1, encoded) {
			return int32(w)
		}
		w += 1 + length
	}

	offset := t.nextWord
	t.da.EnsureCapacity((offset + 1 + len(encoded)) * 4)
	t.da.SetInt(offset, int32(len(encoded)))
	for i, v := range encoded {
		t.da.SetInt(offset+1+i, v)
	}
	t.nextWord = offset + 1 + len(encoded)
	t.nameCount++
	return int32(offset)
}

func (t *Table) recordEquals(start int, encoded []int32) bool {
	for i, v := range encoded {
		if t.da.GetInt(start+i) != v {
			return false
		}
	}
	return true
}

// GetName decodes the record at offset back into a string. A zero-length
// record, such as offset 0 of an empty table, decodes to "". Offset 0 is
// not reserved: the first name added is stored there.
func (t *Table) GetName(offset int32) string {
	w := int(offset)
	length := int(t.da.GetInt(w))
	runes := make([]rune, length)
	for i := 0; i < length; i++ {
		runes[i] = rune(t.da.GetInt(w + 1 + i))
	}
	return string(runes)
}

func encodeUTF32(s string) []int32 {
	out := make([]int32, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, int32(r))
	}
	return out
}
