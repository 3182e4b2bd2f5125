package fmi

import (
	"sort"

	"github.com/TGenNorth/pigeon/alphabet"
)

// Text is a reference corpus concatenated into one string of symbols.
// Every record is followed by an alphabet.Sentinel, so the text always ends with one
// and a pattern free of sentinels can never match across two records.
type Text struct {
	data []byte
	// starts[r] is the position of the first symbol of record r.
	starts []int
}

// NewText concatenates records. It fails on an empty corpus, an empty record or a
// symbol outside the alphabet.
func NewText(records []alphabet.Sequence) (*Text, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCorpus
	}
	n := len(records)
	for _, r := range records {
		n += len(r)
	}
	t := &Text{
		data:   make([]byte, 0, n),
		starts: make([]int, len(records)),
	}
	for id, r := range records {
		if len(r) == 0 {
			return nil, recordError(ErrEmptyRecord, id)
		}
		for _, c := range r {
			if !alphabet.Valid(c) {
				return nil, recordError(ErrInvalidSymbol, id)
			}
		}
		t.starts[id] = len(t.data)
		t.data = append(t.data, r...)
		t.data = append(t.data, alphabet.Sentinel)
	}
	return t, nil
}

// Bytes returns the concatenated text. It MUST NOT be modified.
func (t *Text) Bytes() []byte {
	return t.data
}

func (t *Text) Len() int {
	return len(t.data)
}

func (t *Text) NumRecords() int {
	return len(t.starts)
}

// Record returns the symbols of record id without its trailing sentinel.
func (t *Text) Record(id int) []byte {
	start := t.starts[id]
	return t.data[start : start+t.RecordLen(id)]
}

func (t *Text) RecordLen(id int) int {
	end := len(t.data)
	if id+1 < len(t.starts) {
		end = t.starts[id+1]
	}
	// exclude the sentinel
	return end - t.starts[id] - 1
}

// Locate maps a text position to the record containing it and the offset within
// that record. A sentinel position maps to the record it terminates, at offset
// RecordLen(record).
func (t *Text) Locate(pos int) (record, offset int) {
	record = sort.Search(len(t.starts), func(i int) bool {
		return t.starts[i] > pos
	}) - 1
	return record, pos - t.starts[record]
}
