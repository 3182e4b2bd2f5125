package search

import (
	"github.com/pkg/errors"
)

// ErrLengthMismatch is returned by Distance for sequences of unequal length.
var ErrLengthMismatch = errors.New("sequences differ in length")

// Verify reports whether query aligns to reference at offset with at most k
// substitutions. Alignments that run off either end of reference are rejected.
// Counting stops as soon as the budget is exceeded.
func Verify(reference, query []byte, offset, k int) bool {
	if offset < 0 || offset+len(query) > len(reference) {
		return false
	}
	window := reference[offset : offset+len(query)]
	mismatches := 0
	for i, c := range query {
		if window[i] != c {
			mismatches++
			if mismatches > k {
				return false
			}
		}
	}
	return true
}

// Distance is the Hamming distance between a and b.
func Distance(a, b []byte) (int, error) {
	if len(a) != len(b) {
		return 0, errors.Wrapf(ErrLengthMismatch, "%d and %d", len(a), len(b))
	}
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d, nil
}
