// Package rank answers occurrence counts over a small-alphabet byte string.
//
// A Table keeps one bitvector per symbol, packed into 64-bit words, together with
// the number of occurrences before every word. Rank is a table lookup plus one
// popcount.
package rank

import "math/bits"

const wordSize = 64

type Table struct {
	n      int
	sigma  int
	bits   [][]uint64 // bits[c][w] has bit j set when data[w*64+j] == c
	before [][]int    // before[c][w] is the count of c in data[0 : w*64]
}

// New builds a rank table for data whose values are all < sigma.
// It panics if a value is out of range.
func New(data []byte, sigma int) *Table {
	words := len(data)/wordSize + 1
	t := &Table{
		n:      len(data),
		sigma:  sigma,
		bits:   make([][]uint64, sigma),
		before: make([][]int, sigma),
	}
	for c := 0; c < sigma; c++ {
		t.bits[c] = make([]uint64, words)
		t.before[c] = make([]int, words+1)
	}
	for i, c := range data {
		if int(c) >= sigma {
			panic("rank: symbol out of range")
		}
		t.bits[c][i/wordSize] |= 1 << uint(i%wordSize)
	}
	for c := 0; c < sigma; c++ {
		for w := 0; w < words; w++ {
			t.before[c][w+1] = t.before[c][w] + bits.OnesCount64(t.bits[c][w])
		}
	}
	return t
}

// Rank returns the number of occurrences of c in data[0:i).
// i is clamped to [0, Len()]; symbols outside the table have rank 0.
func (t *Table) Rank(c byte, i int) int {
	if int(c) >= t.sigma || i <= 0 {
		return 0
	}
	if i > t.n {
		i = t.n
	}
	w, r := i/wordSize, uint(i%wordSize)
	mask := uint64(1)<<r - 1
	return t.before[c][w] + bits.OnesCount64(t.bits[c][w]&mask)
}

// Count returns the total occurrences of c.
func (t *Table) Count(c byte) int {
	return t.Rank(c, t.n)
}

func (t *Table) Len() int {
	return t.n
}

func (t *Table) Sigma() int {
	return t.sigma
}
