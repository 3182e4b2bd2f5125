package search

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/TGenNorth/pigeon/alphabet"
)

var (
	// ErrNegativeErrors is returned for a negative substitution budget.
	ErrNegativeErrors = errors.New("number of errors must not be negative")

	// ErrNoQueries is returned for an empty query set.
	ErrNoQueries = errors.New("no queries")

	// ErrBudgetTooLarge is returned when a query has no more symbols than the number of
	// errors allowed, leaving no segment that must match exactly.
	ErrBudgetTooLarge = errors.New("number of errors must be smaller than the query length")
)

// Result is an alignment of query Query, its position in the query set.
type Result struct {
	Query     int
	Reference int
	Offset    int
}

// Validate checks a batch of queries can be searched with k errors.
// Empty queries are valid and simply have no alignments.
func Validate(queries []alphabet.Sequence, k int) error {
	if k < 0 {
		return errors.Wrapf(ErrNegativeErrors, "%d", k)
	}
	if len(queries) == 0 {
		return ErrNoQueries
	}
	for id, q := range queries {
		if len(q) > 0 && k >= len(q) {
			return errors.Wrapf(ErrBudgetTooLarge, "query %d has %d symbols and %d errors", id, len(q), k)
		}
	}
	return nil
}

// Run searches every query with k errors on workers goroutines and sends each
// alignment to results, which is closed once all queries are done. Results of one
// query arrive in order; results of different queries interleave.
// progress, if not nil, is called once per finished query from the worker goroutines.
//
// A batch that fails Validate is not searched; its error is returned and results
// is closed without sending anything.
func Run(s Approximator, queries []alphabet.Sequence, k, workers int, results chan<- Result, progress func()) error {
	defer close(results)
	if err := Validate(queries, k); err != nil {
		return err
	}
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(jobs <-chan int) {
			defer wg.Done()
			for id := range jobs {
				for _, h := range s.Approximate(queries[id], k) {
					results <- Result{Query: id, Reference: h.Reference, Offset: h.Offset}
				}
				if progress != nil {
					progress()
				}
			}
		}(jobs)
	}
	for id := range queries {
		jobs <- id
	}
	close(jobs)
	wg.Wait()
	return nil
}
