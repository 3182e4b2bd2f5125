package fmi

import (
	"bytes"
	"sort"
)

// SuffixArray locates exact occurrences by binary search over sorted suffixes.
type SuffixArray struct {
	data []byte
	sa   []int
}

// NewSuffixArray sorts every suffix of text.
func NewSuffixArray(text *Text) *SuffixArray {
	return &SuffixArray{
		data: text.Bytes(),
		sa:   qsufsort(text.Bytes()),
	}
}

// Range returns the suffix array interval [i, j) of suffixes starting with query.
// An empty query, or one longer than the text, has an empty range.
func (x *SuffixArray) Range(query []byte) (i, j int) {
	if len(query) == 0 || len(query) > len(x.data) {
		return 0, 0
	}
	// find the first index where query would be the prefix
	i = sort.Search(len(x.sa), func(i int) bool {
		return compare(x.data[x.sa[i]:], query) >= 0
	})
	// starting at i, find the first index at which query is not a prefix
	j = i + sort.Search(len(x.sa)-i, func(j int) bool {
		return compare(x.data[x.sa[j+i]:], query) > 0
	})
	return i, j
}

// Lookup returns the text positions where query occurs, in suffix order.
func (x *SuffixArray) Lookup(query []byte) []int {
	i, j := x.Range(query)
	return x.sa[i:j]
}

// Len is the number of suffixes, including the one starting at the final sentinel.
func (x *SuffixArray) Len() int {
	return len(x.sa)
}

// At returns the text position of the i-th smallest suffix.
func (x *SuffixArray) At(i int) int {
	return x.sa[i]
}

// compare orders suffix against query looking at no more than len(query) symbols,
// so every suffix that starts with query compares equal.
func compare(suffix, query []byte) int {
	if len(suffix) > len(query) {
		suffix = suffix[:len(query)]
	}
	return bytes.Compare(suffix, query)
}
