package fasta

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	descriptor := "ContigA"
	// 5000 was chosen as a value larger than the default buffer size
	s := make([]byte, 5000)
	for i := range s {
		s[i] = 'a'
	}
	copy(s[:], ">"+descriptor+"\n")
	ch := make(chan *Record)
	go Read(bytes.NewReader(s), ch)

	rec, ok := <-ch

	if !ok {
		t.Fatalf("Read() channel was closed reading the first record")
	}
	if rec.Descriptor != descriptor {
		t.Errorf("Read() => descriptor %s, expected %s", rec.Descriptor, descriptor)
	}
	if len(rec.Sequence) != 5000-len(descriptor)-2 {
		t.Errorf("Read() => sequence length %d, expected %d", len(rec.Sequence), 5000-len(descriptor)-2)
	}
	if bytes.IndexByte(rec.Sequence, 'a') >= 0 {
		t.Errorf("Read() => sequence was not upper-cased")
	}

	rec, ok = <-ch
	if ok {
		t.Fatalf("Read() channel returned an unexpected record: %s", rec.Descriptor)
	}
}

func TestReadAll(t *testing.T) {
	in := "ignored\n>one first\nACGT\nacgt\r\n\n>two\n>three\nNNNN\n"
	records, err := ReadAll(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	var testtable = []struct {
		descriptor string
		sequence   string
	}{
		{"one first", "ACGTACGT"},
		{"two", ""},
		{"three", "NNNN"},
	}
	if len(records) != len(testtable) {
		t.Fatalf("ReadAll() => %d records, expected %d", len(records), len(testtable))
	}
	for i, tt := range testtable {
		if records[i].Descriptor != tt.descriptor || string(records[i].Sequence) != tt.sequence {
			t.Errorf("Test #%d ReadAll() => %q %q, expected %q %q", i, records[i].Descriptor, records[i].Sequence, tt.descriptor, tt.sequence)
		}
	}
}

func TestReadLongDescriptor(t *testing.T) {
	descriptor := strings.Repeat("d", 10000)
	records, err := ReadAll(strings.NewReader(">" + descriptor + "\nACGT\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Descriptor != descriptor || string(records[0].Sequence) != "ACGT" {
		t.Errorf("ReadAll() did not reassemble a descriptor longer than the buffer")
	}
}

func TestReadLongSequenceLine(t *testing.T) {
	// 4096 is the default buffer size, so the line is split right before the '>'
	line := strings.Repeat("A", 4096) + ">CC"
	records, err := ReadAll(strings.NewReader(">a\n" + line + "\nGG\n>b\nT\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("ReadAll() => %d records, expected 2", len(records))
	}
	if records[0].Descriptor != "a" || string(records[0].Sequence) != line+"GG" {
		t.Errorf("ReadAll() => %s with %d symbols, expected a with %d", records[0].Descriptor, len(records[0].Sequence), len(line)+2)
	}
	if records[1].Descriptor != "b" || string(records[1].Sequence) != "T" {
		t.Errorf("ReadAll() => %q %q, expected \"b\" \"T\"", records[1].Descriptor, records[1].Sequence)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "ref.fa")
	if err := os.WriteFile(plain, []byte(">a\nACGT\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	gz.Write([]byte(">b\nggcc\n"))
	gz.Close()
	compressed := filepath.Join(dir, "ref.fa.gz")
	if err := os.WriteFile(compressed, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	var testtable = []struct {
		filename   string
		descriptor string
		sequence   string
	}{
		{plain, "a", "ACGT"},
		{compressed, "b", "GGCC"},
	}
	for i, tt := range testtable {
		records, err := ReadFile(tt.filename)
		if err != nil {
			t.Errorf("Test #%d ReadFile() => %s", i, err)
			continue
		}
		if len(records) != 1 || records[0].Descriptor != tt.descriptor || string(records[0].Sequence) != tt.sequence {
			t.Errorf("Test #%d ReadFile() => %v, expected %s %s", i, records, tt.descriptor, tt.sequence)
		}
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.fa")); err == nil {
		t.Errorf("ReadFile(missing) expected an error")
	}
	if _, err := ReadFile(plain + ".gz"); err == nil {
		t.Errorf("ReadFile(missing.gz) expected an error")
	}
}
