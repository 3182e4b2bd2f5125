package fmi

import (
	"github.com/TGenNorth/pigeon/alphabet"
	"github.com/TGenNorth/pigeon/fmi/rank"
)

// sigma counts the sentinel alongside the alphabet.
const sigma = alphabet.Size + 1

// FMIndex searches the Burrows-Wheeler transform of a text backwards.
type FMIndex struct {
	bwt []byte
	sa  []int
	// c[s] is the number of text symbols smaller than s.
	c   [sigma + 1]int
	occ *rank.Table
}

// NewFMIndex derives the transform of text from its suffix array.
// The suffix array is retained to locate matches.
func NewFMIndex(text *Text, sa []int) *FMIndex {
	data := text.Bytes()
	bwt := make([]byte, len(sa))
	for i, pos := range sa {
		if pos == 0 {
			bwt[i] = data[len(data)-1]
		} else {
			bwt[i] = data[pos-1]
		}
	}
	return newFMIndex(bwt, sa)
}

func newFMIndex(bwt []byte, sa []int) *FMIndex {
	x := &FMIndex{
		bwt: bwt,
		sa:  sa,
		occ: rank.New(bwt, sigma),
	}
	// The transform is a permutation of the text, so it has the same symbol counts.
	for s := 1; s <= sigma; s++ {
		x.c[s] = x.c[s-1] + x.occ.Count(byte(s-1))
	}
	return x
}

// BackwardSearch returns the suffix array interval [lo, hi) of suffixes starting
// with pattern, consuming pattern from its last symbol to its first.
// The interval is empty (0, 0) when pattern does not occur or is empty.
func (x *FMIndex) BackwardSearch(pattern []byte) (lo, hi int) {
	if len(pattern) == 0 {
		return 0, 0
	}
	lo, hi = 0, len(x.bwt)
	for i := len(pattern) - 1; i >= 0; i-- {
		s := pattern[i]
		if !alphabet.Valid(s) {
			return 0, 0
		}
		lo = x.c[s] + x.occ.Rank(s, lo)
		hi = x.c[s] + x.occ.Rank(s, hi)
		if lo >= hi {
			// short-circuit - no suffix is consistent with pattern[i:]
			return 0, 0
		}
	}
	return lo, hi
}

// Lookup returns the text positions where pattern occurs.
func (x *FMIndex) Lookup(pattern []byte) []int {
	lo, hi := x.BackwardSearch(pattern)
	return x.sa[lo:hi]
}

// Count returns the number of occurrences of pattern without locating them.
func (x *FMIndex) Count(pattern []byte) int {
	lo, hi := x.BackwardSearch(pattern)
	return hi - lo
}

// BWT returns the transform. It MUST NOT be modified.
func (x *FMIndex) BWT() []byte {
	return x.bwt
}
