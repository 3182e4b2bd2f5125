// Package search answers exact and Hamming-bounded queries against an indexed
// reference corpus.
//
// Approximate search uses the pigeonhole principle: a query with at most k
// substitutions split into k+1 segments has at least one segment that matches
// exactly. Each exact segment hit implies a candidate alignment of the whole query,
// which is then verified against its reference record.
package search

import (
	"sort"

	"github.com/TGenNorth/pigeon/alphabet"
	"github.com/TGenNorth/pigeon/fmi"
)

// Hit is a query alignment starting at Offset within reference record Reference.
type Hit struct {
	Reference int
	Offset    int
}

// Approximator finds every alignment of a query within k substitutions.
type Approximator interface {
	Approximate(query []byte, k int) []Hit
}

// Searcher runs queries through a Matcher over text. It holds no mutable state and
// may be shared by any number of goroutines.
type Searcher struct {
	text    *fmi.Text
	matcher Matcher
}

// NewSearcher returns a Searcher locating exact matches with m, which must index text.
func NewSearcher(text *fmi.Text, m Matcher) *Searcher {
	return &Searcher{text: text, matcher: m}
}

// Exact returns every occurrence of query sorted by reference then offset.
func (s *Searcher) Exact(query []byte) []Hit {
	if !searchable(query) {
		return nil
	}
	var hits []Hit
	for _, pos := range s.matcher.Lookup(query) {
		if h, ok := s.candidate(pos, 0, len(query)); ok {
			hits = append(hits, h)
		}
	}
	sortHits(hits)
	return hits
}

// Approximate returns every alignment of query with at most k substitutions, sorted
// by reference then offset. Each alignment is reported once however many of its
// segments matched. A negative k, or a query with no symbols, has no alignments.
//
// When k is at least the query length every in-bounds alignment is within budget
// and no segment is guaranteed to match, so all of them are returned.
func (s *Searcher) Approximate(query []byte, k int) []Hit {
	if k < 0 || !searchable(query) {
		return nil
	}
	if k >= len(query) {
		return s.everyAlignment(len(query))
	}
	seen := make(map[Hit]bool)
	var hits []Hit
	for _, seg := range Segments(len(query), k) {
		for _, pos := range s.matcher.Lookup(query[seg.Start:seg.End]) {
			h, ok := s.candidate(pos, seg.Start, len(query))
			if !ok || seen[h] {
				continue
			}
			// Verified or not, the alignment at h is settled.
			seen[h] = true
			if Verify(s.text.Record(h.Reference), query, h.Offset, k) {
				hits = append(hits, h)
			}
		}
	}
	sortHits(hits)
	return hits
}

func (s *Searcher) everyAlignment(queryLen int) []Hit {
	var hits []Hit
	for r := 0; r < s.text.NumRecords(); r++ {
		for off := 0; off+queryLen <= s.text.RecordLen(r); off++ {
			hits = append(hits, Hit{Reference: r, Offset: off})
		}
	}
	return hits
}

// candidate maps a segment occurrence at text position pos back to the start of the
// whole query. It rejects alignments that would begin before their record or run
// past its end, so an alignment never spans two records.
func (s *Searcher) candidate(pos, segStart, queryLen int) (Hit, bool) {
	record, offset := s.text.Locate(pos)
	start := offset - segStart
	if start < 0 || start+queryLen > s.text.RecordLen(record) {
		return Hit{}, false
	}
	return Hit{Reference: record, Offset: start}, true
}

// Naive compares query against every offset of every record. Its results are the
// ground truth for exact search.
func Naive(records []alphabet.Sequence, query []byte) []Hit {
	if len(query) == 0 {
		return nil
	}
	var hits []Hit
	for r, ref := range records {
	offsets:
		for off := 0; off+len(query) <= len(ref); off++ {
			for i, c := range query {
				if ref[off+i] != c {
					continue offsets
				}
			}
			hits = append(hits, Hit{Reference: r, Offset: off})
		}
	}
	return hits
}

// searchable reports whether query is non-empty and free of sentinels.
func searchable(query []byte) bool {
	if len(query) == 0 {
		return false
	}
	for _, c := range query {
		if !alphabet.Valid(c) {
			return false
		}
	}
	return true
}

func sortHits(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Reference != hits[j].Reference {
			return hits[i].Reference < hits[j].Reference
		}
		return hits[i].Offset < hits[j].Offset
	})
}
