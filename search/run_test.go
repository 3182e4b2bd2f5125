package search

import (
	"sort"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"

	"github.com/TGenNorth/pigeon/alphabet"
	"github.com/TGenNorth/pigeon/fmi"
)

func TestValidate(t *testing.T) {
	var testtable = []struct {
		queries []string
		k       int
		err     error
	}{
		{[]string{"ACGT"}, 0, nil},
		{[]string{"ACGT", "AC"}, 1, nil},
		// empty queries never match but are not an error
		{[]string{"ACGT", ""}, 3, nil},
		{[]string{"ACGT"}, -1, ErrNegativeErrors},
		{nil, 0, ErrNoQueries},
		{[]string{"ACGT", "AC"}, 2, ErrBudgetTooLarge},
		{[]string{"ACGT"}, 4, ErrBudgetTooLarge},
	}
	for i, tt := range testtable {
		err := Validate(encodeAll(tt.queries...), tt.k)
		if errors.Cause(err) != tt.err {
			t.Errorf("Test #%d Validate(%q, %d) => %v, expected %v", i, tt.queries, tt.k, err, tt.err)
		}
	}
}

func TestRun(t *testing.T) {
	records := encodeAll("ACGTACGTTTGACAGT", "GGACTTACGA", "ACTT")
	index, err := fmi.New(records)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSearcher(index.Text(), index.FM())
	queries := encodeAll("ACGT", "ACTT", "TTTT", "", "GACA", "CGA", "ACGTACGTTTGACAGTA")
	const k = 1

	var want []Result
	for id, q := range queries {
		for _, h := range s.Approximate(q, k) {
			want = append(want, Result{Query: id, Reference: h.Reference, Offset: h.Offset})
		}
	}

	for _, workers := range []int{0, 1, 3, 16} {
		var finished int64
		results := make(chan Result)
		errc := make(chan error, 1)
		go func() {
			errc <- Run(s, queries, k, workers, results, func() {
				atomic.AddInt64(&finished, 1)
			})
		}()
		var got []Result
		for r := range results {
			got = append(got, r)
		}
		if err := <-errc; err != nil {
			t.Fatalf("Run(workers=%d) => %s", workers, err)
		}
		sortResults(got)
		if !sameResults(got, want) {
			t.Errorf("Run(workers=%d) => %v, expected %v", workers, got, want)
		}
		if n := atomic.LoadInt64(&finished); n != int64(len(queries)) {
			t.Errorf("Run(workers=%d) reported %d finished queries, expected %d", workers, n, len(queries))
		}
	}
}

func TestRunWithoutProgress(t *testing.T) {
	index, err := fmi.New(encodeAll("ACGTACGT"))
	if err != nil {
		t.Fatal(err)
	}
	results := make(chan Result, 8)
	if err := Run(NewSearcher(index.Text(), index.SuffixArray()), []alphabet.Sequence{alphabet.MustEncode("ACGT")}, 0, 2, results, nil); err != nil {
		t.Fatal(err)
	}
	var got []Result
	for r := range results {
		got = append(got, r)
	}
	sortResults(got)
	if want := []Result{{0, 0, 0}, {0, 0, 4}}; !sameResults(got, want) {
		t.Errorf("Run() => %v, expected %v", got, want)
	}
}

func TestRunRejectsInvalidBatch(t *testing.T) {
	index, err := fmi.New(encodeAll("ACGT"))
	if err != nil {
		t.Fatal(err)
	}
	s := NewSearcher(index.Text(), index.FM())
	var testtable = []struct {
		queries []string
		k       int
		err     error
	}{
		{[]string{"TT"}, 5, ErrBudgetTooLarge},
		{[]string{"ACGT"}, -1, ErrNegativeErrors},
		{nil, 0, ErrNoQueries},
	}
	for i, tt := range testtable {
		results := make(chan Result, 8)
		err := Run(s, encodeAll(tt.queries...), tt.k, 2, results, nil)
		if errors.Cause(err) != tt.err {
			t.Errorf("Test #%d Run(%q, %d) => %v, expected %v", i, tt.queries, tt.k, err, tt.err)
		}
		if r, ok := <-results; ok {
			t.Errorf("Test #%d Run(%q, %d) sent %v, expected a closed channel", i, tt.queries, tt.k, r)
		}
	}
}

func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Query != b.Query {
			return a.Query < b.Query
		}
		if a.Reference != b.Reference {
			return a.Reference < b.Reference
		}
		return a.Offset < b.Offset
	})
}

func sameResults(a, b []Result) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
