package main

import (
	"bufio"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/TGenNorth/pigeon/alphabet"
	"github.com/TGenNorth/pigeon/fmi"
	"github.com/TGenNorth/pigeon/search"
)

type compareOptions struct {
	reference string
	query     string
	method    string
	errors    int
}

func compareCommand() *cobra.Command {
	var opts compareOptions
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Check an index backend against the naive search",
		Long: `Search every query with the naive method and with an index backend and print
a unified diff of the two result listings. The exit status is non-zero when they differ.

With --errors 0 the reference is the naive scan of every offset. Otherwise it is
the pigeonhole search driven by a brute force text scan.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			bw := bufio.NewWriter(os.Stdout)
			defer bw.Flush()
			return runCompare(bw, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.reference, "reference", "r", "", "Reference FASTA file (.gz supported)")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Query FASTA file (.gz supported)")
	cmd.Flags().StringVarP(&opts.method, "method", "m", "fm", "Index backend: sa, fm or pigeon")
	cmd.Flags().IntVarP(&opts.errors, "errors", "e", 0, "Number of allowed Hamming distance errors")
	cmd.MarkFlagRequired("reference")
	cmd.MarkFlagRequired("query")
	return cmd
}

func runCompare(w io.Writer, opts compareOptions) error {
	method := strings.ToLower(opts.method)
	if method != "sa" && method != "fm" && method != "pigeon" {
		return errors.Errorf("invalid method: %s", opts.method)
	}
	queries, err := readQueries(opts.query)
	if err != nil {
		return err
	}
	if err := search.Validate(queries, opts.errors); err != nil {
		return err
	}
	index, err := buildIndex(opts.reference, false)
	if err != nil {
		return err
	}

	var matcher search.Matcher = index.FM()
	if method == "sa" {
		matcher = index.SuffixArray()
	}
	indexed := search.NewSearcher(index.Text(), matcher)
	naive := naiveReference(index.Text(), opts.errors)

	start := time.Now()
	want := listing(naive, queries, opts.errors)
	got := listing(indexed, queries, opts.errors)
	log.Printf("Compared %s queries %s naive matches %s %s matches %fs\n",
		humanize.Comma(int64(len(queries))), humanize.Comma(int64(len(want))), humanize.Comma(int64(len(got))), method, time.Since(start).Seconds())

	diff, err := diffListings(want, got, "naive", method)
	if err != nil {
		return err
	}
	if diff == "" {
		return nil
	}
	if _, err := io.WriteString(w, diff); err != nil {
		return err
	}
	return errMismatch
}

// naiveReference is the search every index backend must agree with.
func naiveReference(text *fmi.Text, k int) search.Approximator {
	if k == 0 {
		return naiveSearch(recordsOf(text))
	}
	return search.NewSearcher(text, search.NewNaiveMatcher(text))
}

// listing renders the results of every query, in query order, one line per match.
func listing(s search.Approximator, queries []alphabet.Sequence, k int) []string {
	var lines []string
	for id, q := range queries {
		for _, h := range s.Approximate(q, k) {
			lines = append(lines, formatResult(search.Result{Query: id, Reference: h.Reference, Offset: h.Offset}))
		}
	}
	return lines
}

// diffListings returns a unified diff of a and b, or "" when they are identical.
func diffListings(a, b []string, aName, bName string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: aName,
		ToFile:   bName,
		Context:  3,
	})
}
