package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/HartBrook/lexchunk/internal/batch"
	"github.com/HartBrook/lexchunk/internal/cache"
	"github.com/HartBrook/lexchunk/internal/chunk"
	"github.com/HartBrook/lexchunk/internal/config"
	"github.com/HartBrook/lexchunk/internal/errors"
	"github.com/HartBrook/lexchunk/internal/metrics"
	"github.com/HartBrook/lexchunk/internal/parser"
	"github.com/spf13/cobra"
)

type parseOptions struct {
	output          string
	force           bool
	workers         int
	metricsTextfile string
	lawCode         string
	lawName         string
}

// NewParseCmd creates the parse command.
func NewParseCmd(root *rootOptions) *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <file|glob>...",
		Short: "Split source documents into article chunks",
		Long: `Parses each source document into one chunk per article and stores the
chunks under the document's name (its file name without extension).

Documents whose source and law are unchanged since the last parse are
skipped unless --force is given. Several documents are parsed in parallel.

With --output, a single document is parsed and its chunks are written to
the given file instead of the store ("-" writes to stdout).`,
		Example: `  lexchunk parse data/TN_Code_du_Travail.txt
  lexchunk parse 'data/**/*.txt' --workers 8
  lexchunk parse code.txt -o chunks.json
  lexchunk parse code.txt --law-code CT_FR_ --law-name "Code du travail"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write chunks of a single document to this file")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Re-parse documents even if unchanged")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Documents parsed in parallel (default batch.workers)")
	cmd.Flags().StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file")
	cmd.Flags().StringVar(&opts.lawCode, "law-code", "", "Chunk ID prefix (default law.code)")
	cmd.Flags().StringVar(&opts.lawName, "law-name", "", "Law name used in citations (default law.name)")

	return cmd
}

func runParse(cmd *cobra.Command, root *rootOptions, opts *parseOptions, args []string) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	law := cfg.ChunkLaw()
	if opts.lawCode != "" {
		law.Code = opts.lawCode
	}
	if opts.lawName != "" {
		law.Name = opts.lawName
	}

	paths, err := batch.ResolveInputs(args)
	if err != nil {
		return err
	}

	p := parser.New(parser.WithLaw(law))
	recorder := metrics.NewRecorder()

	if opts.output != "" {
		err = parseToFile(cmd.OutOrStdout(), p, recorder, paths, opts.output)
	} else {
		err = parseToStore(cmd, root, cfg, opts, p, recorder, paths)
	}

	textfile := opts.metricsTextfile
	if textfile == "" {
		textfile = cfg.Metrics.Textfile
	}
	writeMetrics(cmd, recorder, textfile)

	return err
}

func parseToFile(out io.Writer, p *parser.Parser, recorder *metrics.Recorder, paths []string, output string) error {
	if len(paths) != 1 {
		return fmt.Errorf("--output takes exactly one document, %d matched", len(paths))
	}
	path := paths[0]

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.InputUnreadable(path, err)
	}

	start := time.Now()
	res := p.Parse(string(content))
	recorder.ObserveParse(res, time.Since(start))

	if output == "-" {
		return cache.Encode(out, res.Chunks)
	}

	if err := cache.SaveFile(output, res.Chunks); err != nil {
		return err
	}

	printSuccess(out, "Wrote %d chunks to %s", len(res.Chunks), output)
	reportResult(out, res)
	printStatistics(out, chunk.ComputeStatistics(res.Chunks))
	return nil
}

func parseToStore(cmd *cobra.Command, root *rootOptions, cfg *config.Config, opts *parseOptions, p *parser.Parser, recorder *metrics.Recorder, paths []string) error {
	out := cmd.OutOrStdout()

	workers := opts.workers
	if workers == 0 {
		workers = cfg.Batch.Workers
	}

	runner := batch.NewRunner(p, cache.New(cfg.Store.Dir), batch.Options{
		Workers:  workers,
		Force:    opts.force,
		Observer: recorder,
		Logger:   root.logger(cmd.ErrOrStderr()),
	})

	outcomes, err := runner.Run(cmd.Context(), paths)
	if outcomes == nil {
		return err
	}

	parsed := 0
	for _, o := range outcomes {
		printOutcome(out, o)
		if o.Result != nil {
			parsed++
		}
	}

	if parsed > 0 {
		fmt.Fprintln(out)
		printStatistics(out, batch.Statistics(outcomes))
	}
	return err
}

// printOutcome prints one line per document, plus any parse warnings.
func printOutcome(w io.Writer, o batch.Outcome) {
	switch {
	case o.Err != nil:
		fmt.Fprintf(w, "%s %s: %v\n", errorIcon, o.Name, o.Err)
	case o.Skipped:
		fmt.Fprintf(w, "%s %s\n", dim("-"), dim(fmt.Sprintf("%s: unchanged, %d chunks", o.Name, o.ChunkCount)))
	default:
		printSuccess(w, "%s: %s chunks", o.Name, success(o.ChunkCount))
		reportResult(w, o.Result)
	}
}

func reportResult(w io.Writer, res *parser.Result) {
	if res.EmptyArticles > 0 {
		printWarning(w, "%d article(s) had no text and were dropped", res.EmptyArticles)
	}
	if res.Discarded > 0 {
		printInfo(w, "Lines outside any article", fmt.Sprintf("%d", res.Discarded))
	}
}
