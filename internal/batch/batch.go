package batch

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/HartBrook/lexchunk/internal/cache"
	"github.com/HartBrook/lexchunk/internal/chunk"
	"github.com/HartBrook/lexchunk/internal/config"
	"github.com/HartBrook/lexchunk/internal/errors"
	"github.com/HartBrook/lexchunk/internal/parser"
	"golang.org/x/sync/errgroup"
)

// Observer is notified after every completed parse. Implementations must be
// safe for concurrent use.
type Observer interface {
	ObserveParse(res *parser.Result, elapsed time.Duration)
}

// Options configures a Runner.
type Options struct {
	// Workers bounds how many documents are parsed at once.
	Workers int
	// Force re-parses documents whose stored chunks are up to date.
	Force bool

	Observer Observer
	Logger   *slog.Logger
}

// Outcome reports what happened to one document.
type Outcome struct {
	Path string
	Name string

	// Skipped is set when stored chunks already matched the source.
	Skipped bool
	// Result is nil when Skipped or when Err is set.
	Result     *parser.Result
	ChunkCount int
	Elapsed    time.Duration
	Err        error
}

// Runner parses documents and stores their chunks.
type Runner struct {
	parser *parser.Parser
	cache  *cache.Cache
	opts   Options
	logger *slog.Logger
}

// NewRunner creates a Runner storing into c.
func NewRunner(p *parser.Parser, c *cache.Cache, opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{parser: p, cache: c, opts: opts, logger: logger}
}

// Run parses every path, at most Workers at a time. A failing document does
// not stop the others; all failures are joined into the returned error.
// Outcomes are returned in the order of paths.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Outcome, error) {
	if err := checkNames(paths); err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = Outcome{Path: path, Name: config.DocumentName(path), Err: err}
				return nil
			}
			outcomes[i] = r.ParseFile(path)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return outcomes, stderrors.Join(errs...)
}

// ParseFile reads, parses, and stores a single document.
func (r *Runner) ParseFile(path string) Outcome {
	out := Outcome{Path: path, Name: config.DocumentName(path)}
	law := r.parser.Law()

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			out.Err = errors.InputNotFound(path)
		} else {
			out.Err = errors.InputUnreadable(path, err)
		}
		return out
	}

	if !r.opts.Force && r.cache.Exists(out.Name) {
		meta, err := r.cache.GetMetadata(out.Name)
		if err == nil && !meta.IsStale(cache.HashSource(content), law) {
			out.Skipped = true
			out.ChunkCount = meta.ChunkCount
			r.logger.Debug("source unchanged, skipping", "path", path, "name", out.Name)
			return out
		}
	}

	start := time.Now()
	res := r.parser.Parse(string(content))
	out.Elapsed = time.Since(start)
	out.Result = res
	out.ChunkCount = len(res.Chunks)

	if r.opts.Observer != nil {
		r.opts.Observer.ObserveParse(res, out.Elapsed)
	}

	meta := cache.NewMetadata(path, content, law)
	if err := r.cache.Write(out.Name, res.Chunks, meta); err != nil {
		out.Err = err
		out.Result = nil
		return out
	}

	r.logger.Info("parsed document",
		"path", path,
		"name", out.Name,
		"chunks", out.ChunkCount,
		"discarded_lines", res.Discarded,
		"empty_articles", res.EmptyArticles,
		"elapsed", out.Elapsed,
		"run_id", meta.RunID,
	)
	return out
}

// Statistics summarizes the chunks of every parsed (not skipped) outcome.
func Statistics(outcomes []Outcome) chunk.Statistics {
	var all []chunk.Chunk
	for _, o := range outcomes {
		if o.Result != nil {
			all = append(all, o.Result.Chunks...)
		}
	}
	return chunk.ComputeStatistics(all)
}

// checkNames rejects inputs that would overwrite each other in the store.
func checkNames(paths []string) error {
	byName := make(map[string]string, len(paths))
	for _, path := range paths {
		name := config.DocumentName(path)
		if other, ok := byName[name]; ok {
			return errors.New(errors.ErrStoreWriteFailed,
				fmt.Sprintf("%s and %s would both be stored as %q", other, path, name),
				"Rename one of the files or parse them separately")
		}
		byName[name] = path
	}
	return nil
}
