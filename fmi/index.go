// Package fmi builds and searches full-text indexes over a nucleotide corpus:
// a suffix array searched by binary search, and an FM-index over the
// Burrows-Wheeler transform searched backwards.
package fmi

import (
	"errors"
	"fmt"

	"github.com/TGenNorth/pigeon/alphabet"
)

var (
	// ErrEmptyCorpus is returned when indexing a corpus without records.
	ErrEmptyCorpus = errors.New("reference corpus is empty")

	// ErrEmptyRecord is returned when a reference record has no symbols.
	ErrEmptyRecord = errors.New("reference record is empty")

	// ErrInvalidSymbol is returned when a record holds a sentinel or an unknown symbol.
	ErrInvalidSymbol = errors.New("reference record contains an invalid symbol")

	// ErrIndexFormat is returned when a serialized index is corrupt or was written
	// for another format version or alphabet.
	ErrIndexFormat = errors.New("invalid index format")
)

// RecordError reports which reference record failed validation.
type RecordError struct {
	Record int
	Err    error
}

func recordError(err error, record int) error {
	return &RecordError{Record: record, Err: err}
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("reference %d: %s", e.Record, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Cause lets github.com/pkg/errors unwrap to the sentinel error.
func (e *RecordError) Cause() error {
	return e.Err
}

// Index holds a text together with both of its search structures.
// It is immutable once built and safe for concurrent readers.
type Index struct {
	text *Text
	sa   *SuffixArray
	fm   *FMIndex
}

// New builds the suffix array and FM-index of records.
func New(records []alphabet.Sequence) (*Index, error) {
	text, err := NewText(records)
	if err != nil {
		return nil, err
	}
	sa := NewSuffixArray(text)
	return &Index{
		text: text,
		sa:   sa,
		fm:   NewFMIndex(text, sa.sa),
	}, nil
}

func (x *Index) Text() *Text {
	return x.text
}

func (x *Index) SuffixArray() *SuffixArray {
	return x.sa
}

func (x *Index) FM() *FMIndex {
	return x.fm
}
