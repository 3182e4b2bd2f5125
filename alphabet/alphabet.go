// Package alphabet defines the nucleotide symbols indexed and searched by pigeon.
package alphabet

import (
	"bytes"
	"fmt"
	"strings"
)

/*
A Adenine
C Cytosine
G Guanine
T Thymine
U Uracil
W Weak A/T
S Strong C/G
M aMino A/C
K Keto G/T
R puRine A/G
Y pYrimidine C/T
B not A
D not C
H not G
V not T
N/- any Nucleotide (not a gap)
*/
const IupacNucleotideCode = "ACGTUMRWSYKVHDBN-"

// Letters are the decoded forms of A, C, G, T and N in symbol order.
const Letters = "ACGTN"

// Symbol is one element of the DNA5 alphabet. Symbols order numerically.
type Symbol = byte

const (
	// Sentinel separates and terminates records in an indexed text.
	// It sorts before every other symbol and never appears in encoded data.
	Sentinel Symbol = iota
	A
	C
	G
	T
	N
)

// Size is the number of symbols, excluding the Sentinel.
const Size = 5

// Name identifies the alphabet in serialized indexes.
const Name = "dna5"

var encodeTable = func() [256]Symbol {
	var t [256]Symbol
	for _, nt := range []byte(IupacNucleotideCode) {
		t[nt] = N
		t[bytes.ToLower([]byte{nt})[0]] = N
	}
	for i, nt := range []byte(Letters) {
		t[nt] = Symbol(i + 1)
		t[nt+'a'-'A'] = Symbol(i + 1)
	}
	t['U'], t['u'] = T, T
	return t
}()

// Sequence is an immutable run of symbols.
type Sequence []Symbol

// Encode converts a nucleotide string into symbols.
// Ambiguity codes and gaps collapse to N, U becomes T.
func Encode(s []byte) (Sequence, error) {
	seq := make(Sequence, len(s))
	for i, nt := range s {
		if seq[i] = encodeTable[nt]; seq[i] == Sentinel {
			return nil, ErrInvalidNucleotide{
				Position: i + 1,
				Sequence: string(s),
			}
		}
	}
	return seq, nil
}

// MustEncode is like Encode but panics on invalid input. Used for literals in tests.
func MustEncode(s string) Sequence {
	seq, err := Encode([]byte(s))
	if err != nil {
		panic(err)
	}
	return seq
}

// Valid reports whether c is a non-sentinel symbol.
func Valid(c Symbol) bool {
	return c > Sentinel && c <= N
}

// Decode converts symbols back into letters. The sentinel renders as '$'.
func Decode(seq []Symbol) []byte {
	b := make([]byte, len(seq))
	for i, c := range seq {
		switch {
		case c == Sentinel:
			b[i] = '$'
		case Valid(c):
			b[i] = Letters[c-1]
		default:
			b[i] = '?'
		}
	}
	return b
}

func (s Sequence) String() string {
	return string(Decode(s))
}

type ErrInvalidNucleotide struct {
	Position int
	Sequence string
}

func (e ErrInvalidNucleotide) Error() string {
	if e.Position == 0 || len(e.Sequence) == 0 {
		return "invalid nucleotide"
	}
	seq := e.Sequence
	if len(seq) > 50 {
		seq = seq[:50] + "..."
	}
	return fmt.Sprintf("invalid nucleotide %q at position %d in sequence %s", e.Sequence[e.Position-1], e.Position, strings.TrimSpace(seq))
}
