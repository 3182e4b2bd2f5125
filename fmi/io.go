package fmi

import (
	"bufio"
	"compress/gzip"
	"encoding/gob"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/TGenNorth/pigeon/alphabet"
)

const (
	indexMagic    = "pigeon-fmi"
	formatVersion = 1
)

// header is written ahead of the payload so a reader can reject an index it does
// not understand before decoding the bulk of the stream.
type header struct {
	Magic    string
	Version  int
	Alphabet string
	Sigma    int
}

type payload struct {
	Starts []int
	Text   []byte
	SA     []int
	BWT    []byte
}

func formatErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrIndexFormat, format, args...)
}

// Save writes x as a gzip compressed gob stream.
func (x *Index) Save(w io.Writer) error {
	gz := gzip.NewWriter(w)
	enc := gob.NewEncoder(gz)
	err := enc.Encode(header{
		Magic:    indexMagic,
		Version:  formatVersion,
		Alphabet: alphabet.Name,
		Sigma:    sigma,
	})
	if err != nil {
		return errors.Wrap(err, "encoding index header")
	}
	err = enc.Encode(payload{
		Starts: x.text.starts,
		Text:   x.text.data,
		SA:     x.sa.sa,
		BWT:    x.fm.bwt,
	})
	if err != nil {
		return errors.Wrap(err, "encoding index")
	}
	return errors.Wrap(gz.Close(), "compressing index")
}

// SaveFile writes x to filename, replacing any existing file.
func (x *Index) SaveFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := x.Save(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads an index written by Save. A stream that is corrupt, truncated, or was
// written for another version or alphabet fails with an error wrapping
// ErrIndexFormat; no partially loaded index is ever returned.
func Load(r io.Reader) (*Index, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, formatErrorf("reading compressed stream: %v", err)
	}
	defer gz.Close()
	dec := gob.NewDecoder(gz)

	var h header
	if err := dec.Decode(&h); err != nil {
		return nil, formatErrorf("decoding header: %v", err)
	}
	switch {
	case h.Magic != indexMagic:
		return nil, formatErrorf("not a pigeon index")
	case h.Version != formatVersion:
		return nil, formatErrorf("version %d, expected %d", h.Version, formatVersion)
	case h.Alphabet != alphabet.Name || h.Sigma != sigma:
		return nil, formatErrorf("alphabet %s/%d, expected %s/%d", h.Alphabet, h.Sigma, alphabet.Name, sigma)
	}

	var p payload
	if err := dec.Decode(&p); err != nil {
		return nil, formatErrorf("decoding index: %v", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	text := &Text{data: p.Text, starts: p.Starts}
	return &Index{
		text: text,
		sa:   &SuffixArray{data: text.data, sa: p.SA},
		fm:   newFMIndex(p.BWT, p.SA),
	}, nil
}

// LoadFile reads an index written by SaveFile.
func LoadFile(filename string) (*Index, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	x, err := Load(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", filename)
	}
	return x, nil
}

// validate checks the payload is a text with a consistent record table, a
// permutation for a suffix array, and the transform of that suffix array.
func (p *payload) validate() error {
	n := len(p.Text)
	if n == 0 || len(p.Starts) == 0 {
		return formatErrorf("empty index")
	}
	if len(p.SA) != n || len(p.BWT) != n {
		return formatErrorf("text, suffix array and transform lengths differ: %d, %d, %d", n, len(p.SA), len(p.BWT))
	}

	// Every record is non-empty and terminated by the only sentinel in its range.
	if p.Starts[0] != 0 {
		return formatErrorf("first record starts at %d", p.Starts[0])
	}
	for r, start := range p.Starts {
		end := n
		if r+1 < len(p.Starts) {
			end = p.Starts[r+1]
		}
		if end-start < 2 {
			return formatErrorf("record %d has bounds [%d, %d)", r, start, end)
		}
		for i := start; i < end-1; i++ {
			if !alphabet.Valid(p.Text[i]) {
				return formatErrorf("record %d has symbol %d at %d", r, p.Text[i], i)
			}
		}
		if p.Text[end-1] != alphabet.Sentinel {
			return formatErrorf("record %d is not terminated", r)
		}
	}

	// inverse[pos] is the rank of the suffix at pos, -1 until seen.
	inverse := make([]int, n)
	for i := range inverse {
		inverse[i] = -1
	}
	for i, pos := range p.SA {
		if pos < 0 || pos >= n || inverse[pos] >= 0 {
			return formatErrorf("suffix array is not a permutation at %d", i)
		}
		inverse[pos] = i
	}
	// Adjacent suffixes are ordered when their first symbols are, or when those are
	// equal and the suffixes one position later are ordered by rank. Checking every
	// adjacent pair this way proves the whole array sorted.
	for i := 1; i < n; i++ {
		a, b := p.SA[i-1], p.SA[i]
		switch {
		case p.Text[a] < p.Text[b]:
		case p.Text[a] > p.Text[b], b == n-1:
			return formatErrorf("suffix array is not sorted at %d", i)
		case a == n-1, inverse[a+1] < inverse[b+1]:
		default:
			return formatErrorf("suffix array is not sorted at %d", i)
		}
	}

	for i, pos := range p.SA {
		prev := n - 1
		if pos > 0 {
			prev = pos - 1
		}
		if p.BWT[i] != p.Text[prev] {
			return formatErrorf("transform does not match suffix array at %d", i)
		}
	}
	return nil
}
