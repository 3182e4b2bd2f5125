package search

import (
	"bytes"

	"github.com/TGenNorth/pigeon/fmi"
)

// Matcher locates every exact occurrence of a pattern in an indexed text.
// Positions are offsets into the concatenated text in no particular order.
//
// *fmi.SuffixArray and *fmi.FMIndex are Matchers.
type Matcher interface {
	Lookup(pattern []byte) []int
}

var (
	_ Matcher = (*fmi.SuffixArray)(nil)
	_ Matcher = (*fmi.FMIndex)(nil)
	_ Matcher = NaiveMatcher{}
)

// NaiveMatcher scans the whole text for every pattern.
// It is the reference the indexed Matchers are checked against.
type NaiveMatcher struct {
	data []byte
}

func NewNaiveMatcher(text *fmi.Text) NaiveMatcher {
	return NaiveMatcher{data: text.Bytes()}
}

func (m NaiveMatcher) Lookup(pattern []byte) []int {
	if len(pattern) == 0 {
		return nil
	}
	var positions []int
	for i := 0; i+len(pattern) <= len(m.data); i++ {
		if bytes.Equal(m.data[i:i+len(pattern)], pattern) {
			positions = append(positions, i)
		}
	}
	return positions
}
