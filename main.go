package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/TGenNorth/pigeon/alphabet"
	"github.com/TGenNorth/pigeon/fasta"
	"github.com/TGenNorth/pigeon/fmi"
	"github.com/TGenNorth/pigeon/search"
)

const version = "1.0.0"

var errMismatch = errors.New("index results differ from the naive search")

func buildCommand() *cobra.Command {
	var (
		reference string
		output    string
		progress  bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a suffix array and FM-index from reference sequences",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runBuild(reference, output, progress)
		},
	}
	cmd.Flags().StringVarP(&reference, "reference", "r", "", "Reference FASTA file (.gz supported)")
	cmd.Flags().StringVarP(&output, "output", "o", "reference.idx", "Output index file")
	cmd.Flags().BoolVarP(&progress, "progress", "p", false, "Show a progress bar")
	cmd.MarkFlagRequired("reference")
	return cmd
}

func runBuild(reference, output string, progress bool) error {
	index, err := buildIndex(reference, progress)
	if err != nil {
		return err
	}
	start := time.Now()
	if err := index.SaveFile(output); err != nil {
		return errors.Wrapf(err, "writing %s", output)
	}
	size := "?"
	if fi, err := os.Stat(output); err == nil {
		size = humanize.Bytes(uint64(fi.Size()))
	}
	log.Printf("Wrote %s %s %fs\n", output, size, time.Since(start).Seconds())
	return nil
}

type searchOptions struct {
	reference  string
	index      string
	query      string
	method     string
	errors     int
	queryCount int
	threads    int
	profile    string
	progress   bool
}

func searchCommand() *cobra.Command {
	var opts searchOptions
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Locate queries in the reference with at most --errors substitutions",
		Long: `Locate every query in the reference allowing up to --errors substitutions.

Methods:
  naive   compare each query at every reference offset (exact only)
  sa      pigeonhole search over the suffix array
  fm      pigeonhole search over the FM-index
  pigeon  same as fm

The index is built from --reference unless a prebuilt --index is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			bw := bufio.NewWriter(os.Stdout)
			defer bw.Flush()
			return runSearch(bw, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.reference, "reference", "r", "", "Reference FASTA file (.gz supported)")
	cmd.Flags().StringVarP(&opts.index, "index", "i", "", "Index file written by build")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Query FASTA file (.gz supported)")
	cmd.Flags().StringVarP(&opts.method, "method", "m", "pigeon", "Search method: naive, sa, fm or pigeon")
	cmd.Flags().IntVarP(&opts.errors, "errors", "e", 0, "Number of allowed Hamming distance errors")
	cmd.Flags().IntVarP(&opts.queryCount, "query_ct", "n", 100, "Number of queries, duplicated if there are fewer (0 searches each query once)")
	cmd.Flags().IntVarP(&opts.threads, "threads", "t", runtime.NumCPU(), "Number of threads")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "(dev) enable profiling one of `cpu|mem|block`")
	cmd.Flags().BoolVarP(&opts.progress, "progress", "p", false, "Show a progress bar")
	cmd.MarkFlagRequired("query")
	return cmd
}

func runSearch(w io.Writer, opts searchOptions) error {
	method := strings.ToLower(opts.method)
	switch method {
	case "naive":
		if opts.errors > 0 {
			return errors.Errorf("the naive method only supports exact search, got --errors %d", opts.errors)
		}
	case "sa", "fm", "pigeon":
	default:
		return errors.Errorf("invalid method: %s", opts.method)
	}
	if opts.reference == "" && opts.index == "" {
		return errors.New("expected a --reference or an --index")
	}

	p, err := startProfile(opts.profile)
	if err != nil {
		return err
	}
	defer p.Stop()

	if opts.threads < 1 {
		opts.threads = 1
	}
	runtime.GOMAXPROCS(opts.threads)

	queries, err := readQueries(opts.query)
	if err != nil {
		return err
	}
	queries = duplicateQueries(queries, opts.queryCount)
	if err := search.Validate(queries, opts.errors); err != nil {
		return err
	}

	s, err := openSearcher(method, opts.reference, opts.index)
	if err != nil {
		return err
	}

	var bar *pb.ProgressBar
	var progress func()
	if opts.progress {
		bar = pb.Full.Start(len(queries))
		progress = func() { bar.Increment() }
	}

	log.Printf("Start search %s queries %s errors %d threads\n", humanize.Comma(int64(len(queries))), humanize.Comma(int64(opts.errors)), opts.threads)
	start := time.Now()
	results := make(chan search.Result, 1024)
	errc := make(chan error, 1)
	go func() {
		errc <- search.Run(s, queries, opts.errors, opts.threads, results, progress)
	}()
	n, err := writeResults(w, results)
	if rerr := <-errc; err == nil {
		err = rerr
	}
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}
	log.Printf("End search %s matches %fs\n", humanize.Comma(int64(n)), time.Since(start).Seconds())
	return nil
}

// naiveSearch runs the exact naive baseline as an Approximator.
// Callers reject a non-zero error budget beforehand.
type naiveSearch []alphabet.Sequence

func (records naiveSearch) Approximate(query []byte, k int) []search.Hit {
	return search.Naive(records, query)
}

func openSearcher(method, reference, indexFile string) (search.Approximator, error) {
	if method == "naive" && indexFile == "" {
		records, err := readReference(reference, false)
		if err != nil {
			return nil, err
		}
		// The naive scan needs no index, but the corpus must be as valid as an indexed one.
		if _, err := fmi.NewText(records); err != nil {
			return nil, errors.Wrapf(err, "reading %s", reference)
		}
		return naiveSearch(records), nil
	}
	index, err := openIndex(reference, indexFile)
	if err != nil {
		return nil, err
	}
	switch method {
	case "naive":
		return naiveSearch(recordsOf(index.Text())), nil
	case "sa":
		return search.NewSearcher(index.Text(), index.SuffixArray()), nil
	default:
		return search.NewSearcher(index.Text(), index.FM()), nil
	}
}

// openIndex loads indexFile if set, otherwise it indexes reference.
func openIndex(reference, indexFile string) (*fmi.Index, error) {
	if indexFile == "" {
		return buildIndex(reference, false)
	}
	log.Printf("Loading index from %s\n", indexFile)
	start := time.Now()
	index, err := fmi.LoadFile(indexFile)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded index %s symbols %s sequences %fs\n", humanize.Comma(int64(index.Text().Len())), humanize.Comma(int64(index.Text().NumRecords())), time.Since(start).Seconds())
	return index, nil
}

func buildIndex(reference string, progress bool) (*fmi.Index, error) {
	records, err := readReference(reference, progress)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	index, err := fmi.New(records)
	if err != nil {
		return nil, errors.Wrapf(err, "indexing %s", reference)
	}
	log.Printf("End index %s symbols %s sequences %fs\n", humanize.Comma(int64(index.Text().Len())), humanize.Comma(int64(len(records))), time.Since(start).Seconds())
	return index, nil
}

func recordsOf(text *fmi.Text) []alphabet.Sequence {
	records := make([]alphabet.Sequence, text.NumRecords())
	for id := range records {
		records[id] = text.Record(id)
	}
	return records
}

func readReference(filename string, progress bool) ([]alphabet.Sequence, error) {
	log.Printf("Reading reference from %s\n", filename)
	records, err := fasta.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var bar *pb.ProgressBar
	if progress {
		bar = pb.Full.Start(len(records))
		defer bar.Finish()
	}
	sequences := make([]alphabet.Sequence, len(records))
	for i, rec := range records {
		if sequences[i], err = alphabet.Encode(rec.Sequence); err != nil {
			return nil, errors.Wrapf(err, "reference %s", rec.Descriptor)
		}
		if bar != nil {
			bar.Increment()
		}
	}
	return sequences, nil
}

func readQueries(filename string) ([]alphabet.Sequence, error) {
	log.Printf("Reading queries from %s\n", filename)
	records, err := fasta.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	queries := make([]alphabet.Sequence, len(records))
	for i, rec := range records {
		if queries[i], err = alphabet.Encode(rec.Sequence); err != nil {
			return nil, errors.Wrapf(err, "query %s", rec.Descriptor)
		}
	}
	return queries, nil
}

// duplicateQueries doubles queries until there are at least n, then keeps the first n.
// n < 1 leaves queries as they are.
func duplicateQueries(queries []alphabet.Sequence, n int) []alphabet.Sequence {
	if n < 1 || len(queries) == 0 {
		return queries
	}
	for len(queries) < n {
		queries = append(queries[:len(queries):len(queries)], queries...)
	}
	return queries[:n]
}

func formatResult(r search.Result) string {
	return fmt.Sprintf("found query %d in sequence %d at position %d\n", r.Query, r.Reference, r.Offset)
}

// writeResults drains results even after a write error so the producers can finish.
func writeResults(w io.Writer, results <-chan search.Result) (int, error) {
	var err error
	n := 0
	for r := range results {
		n++
		if err == nil {
			_, err = io.WriteString(w, formatResult(r))
		}
	}
	return n, err
}

func startProfile(mode string) (interface{ Stop() }, error) {
	switch strings.ToLower(mode) {
	case "":
		return noProfile{}, nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath(".")), nil
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath(".")), nil
	case "block":
		return profile.Start(profile.BlockProfile, profile.ProfilePath(".")), nil
	}
	return nil, errors.Errorf("invalid profile: %s", mode)
}

type noProfile struct{}

func (noProfile) Stop() {}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pigeon version %s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "pigeon",
		Short: "Exact and Hamming distance search of nucleotide queries",
		Long: `pigeon: indexed nucleotide search

Queries are located in a reference by exact search over a suffix array or an
FM-index. Up to k substitutions are allowed by splitting each query into k+1
segments: at least one segment must match exactly, and every alignment it implies
is verified against the reference.

Workflow:
  1. Build an index from a reference FASTA file
  2. Search query FASTA files against the saved index
  3. Compare an index backend with the naive search to check its results`,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(buildCommand())
	rootCmd.AddCommand(searchCommand())
	rootCmd.AddCommand(compareCommand())
	rootCmd.AddCommand(versionCommand())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
