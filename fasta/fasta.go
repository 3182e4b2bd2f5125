// Package fasta streams nucleotide records from FASTA files.
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Record is one FASTA entry. Sequence is upper-cased with line breaks removed.
type Record struct {
	Descriptor string
	// NOTE: Sequence MUST NOT be altered once the record is sent
	Sequence []byte
}

func newRecord(descriptor []byte) *Record {
	return &Record{
		Descriptor: string(descriptor),
		// The line buffer is reused by the reader.
		// Explicitly allocate a new buffer so we do not accidentally
		// keep the buffer that was passed in.
		Sequence: make([]byte, 0, 4096),
	}
}

func (rec *Record) write(b []byte) {
	rec.Sequence = append(rec.Sequence, bytes.ToUpper(b)...)
}

// Read sends every record in r to records and closes the channel when r is exhausted
// or unreadable. Lines before the first descriptor are ignored.
func Read(r io.Reader, records chan<- *Record) error {
	defer close(records)

	var rec *Record
	// header is true while reading a descriptor line, continued while the current
	// chunk belongs to a line longer than the buffer.
	header, continued := false, false

	br := bufio.NewReader(r)
	for {
		line, isPrefix, err := br.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "reading fasta")
		}
		if !continued {
			header = len(line) > 0 && line[0] == '>'
			if header {
				if rec != nil {
					// A descriptor marks the end of the prior record for all except the first record.
					records <- rec
				}
				rec = newRecord(line[1:])
				continued = isPrefix
				continue
			}
		}
		switch {
		case header:
			rec.Descriptor += string(line)
		case rec != nil:
			rec.write(bytes.TrimRight(line, "\r"))
		}
		continued = isPrefix
	}

	if rec != nil {
		records <- rec
	}
	return nil
}

// ReadAll reads every record in r.
func ReadAll(r io.Reader) ([]*Record, error) {
	ch := make(chan *Record, 16)
	errc := make(chan error, 1)
	go func() {
		errc <- Read(r, ch)
	}()
	var records []*Record
	for rec := range ch {
		records = append(records, rec)
	}
	return records, <-errc
}

// Open opens a FASTA file, decompressing it when the name ends in .gz.
func Open(filename string) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(filename, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, errors.Wrapf(err, "opening %s", filename)
		}
		return &gzipFile{Reader: gz, file: file}, nil
	}
	return file, nil
}

// gzipFile closes both the decompressor and the file beneath it.
type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (f *gzipFile) Close() error {
	err := f.Reader.Close()
	if cerr := f.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadFile reads every record in filename.
func ReadFile(filename string) ([]*Record, error) {
	f, err := Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	return records, nil
}
