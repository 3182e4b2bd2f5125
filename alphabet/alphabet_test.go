package alphabet

import (
	"reflect"
	"testing"
)

func TestEncode(t *testing.T) {
	var testtable = []struct {
		in  string
		out Sequence
		err bool
	}{
		{"", Sequence{}, false},
		{"ACGT", Sequence{A, C, G, T}, false},
		// It should be case insensitive
		{"acgtn", Sequence{A, C, G, T, N}, false},
		// It should read uracil as thymine
		{"AUu", Sequence{A, T, T}, false},
		// It should collapse ambiguity codes and gaps to N
		{"WSMKRYBDHVN-", Sequence{N, N, N, N, N, N, N, N, N, N, N, N}, false},
		{"ACXT", nil, true},
		{"AC T", nil, true},
		{"$", nil, true},
	}
	for i, tt := range testtable {
		seq, err := Encode([]byte(tt.in))
		if (err != nil) != tt.err {
			t.Errorf("Test #%d Encode(%q) => error %v, expected error %v", i, tt.in, err, tt.err)
			continue
		}
		if !reflect.DeepEqual(seq, tt.out) {
			t.Errorf("Test #%d Encode(%q) => %v, expected %v", i, tt.in, seq, tt.out)
		}
	}
}

func TestEncodeNeverProducesSentinel(t *testing.T) {
	for b := 0; b < 256; b++ {
		seq, err := Encode([]byte{byte(b)})
		if err != nil {
			continue
		}
		if !Valid(seq[0]) {
			t.Errorf("Encode(%q) => %d, expected a non-sentinel symbol", b, seq[0])
		}
	}
}

func TestErrInvalidNucleotide(t *testing.T) {
	_, err := Encode([]byte("ACGZ"))
	e, ok := err.(ErrInvalidNucleotide)
	if !ok {
		t.Fatalf("Encode(ACGZ) => %T, expected ErrInvalidNucleotide", err)
	}
	if e.Position != 4 {
		t.Errorf("ErrInvalidNucleotide.Position => %d, expected 4", e.Position)
	}
	if got, want := e.Error(), `invalid nucleotide 'Z' at position 4 in sequence ACGZ`; got != want {
		t.Errorf("ErrInvalidNucleotide.Error() => %q, expected %q", got, want)
	}
}

func TestDecode(t *testing.T) {
	seq := Sequence{A, C, G, T, N, Sentinel}
	if got := string(Decode(seq)); got != "ACGTN$" {
		t.Errorf("Decode(%v) => %s, expected ACGTN$", []byte(seq), got)
	}
	if got := MustEncode("ttgca").String(); got != "TTGCA" {
		t.Errorf("String() => %s, expected TTGCA", got)
	}
}
