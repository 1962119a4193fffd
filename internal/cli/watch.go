package cli

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/HartBrook/lexchunk/internal/batch"
	"github.com/HartBrook/lexchunk/internal/cache"
	"github.com/HartBrook/lexchunk/internal/errors"
	"github.com/HartBrook/lexchunk/internal/metrics"
	"github.com/HartBrook/lexchunk/internal/parser"
	"github.com/HartBrook/lexchunk/internal/watch"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	metricsTextfile string
}

// NewWatchCmd creates the watch command.
func NewWatchCmd(root *rootOptions) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <file|dir|glob>...",
		Short: "Re-parse documents when they change",
		Long: `Parses the given documents, then watches them and re-parses a document
in full whenever its file changes. Directories are watched recursively for
files with the extensions listed in watch.extensions.

Changes are debounced by watch.debounce. Stop with Ctrl-C.`,
		Example: `  lexchunk watch data/TN_Code_du_Travail.txt
  lexchunk watch data/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file after each parse")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, root *rootOptions, opts *watchOptions, args []string) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	logger := root.logger(cmd.ErrOrStderr())

	textfile := opts.metricsTextfile
	if textfile == "" {
		textfile = cfg.Metrics.Textfile
	}

	recorder := metrics.NewRecorder()
	runner := batch.NewRunner(parser.New(parser.WithLaw(cfg.ChunkLaw())), cache.New(cfg.Store.Dir), batch.Options{
		Workers:  cfg.Batch.Workers,
		Observer: recorder,
		Logger:   logger,
	})

	paths, err := batch.ResolveInputs(sourcePatterns(args, cfg.Watch.Extensions))
	var le *errors.LexchunkError
	if err != nil && !(stderrors.As(err, &le) && le.Code == errors.ErrNoInputMatched) {
		return err
	}

	if len(paths) > 0 {
		outcomes, err := runner.Run(ctx, paths)
		for _, o := range outcomes {
			printOutcome(out, o)
		}
		if err != nil && outcomes == nil {
			return err
		}
		writeMetrics(cmd, recorder, textfile)
	}

	w, err := watch.New(watchTargets(args, paths), watch.Options{
		Debounce:   cfg.Watch.DebounceDuration(),
		Extensions: cfg.Watch.Extensions,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer w.Close()

	printSuccess(out, "Watching %d target(s) for changes", len(args))

	err = w.Run(ctx, func(ctx context.Context, path string) {
		printOutcome(out, runner.ParseFile(path))
		writeMetrics(cmd, recorder, textfile)
	})
	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// sourcePatterns turns directory arguments into recursive globs over the
// watched extensions. Other arguments pass through unchanged.
func sourcePatterns(args, extensions []string) []string {
	var patterns []string
	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			for _, ext := range extensions {
				patterns = append(patterns, filepath.Join(arg, "**", "*"+ext))
			}
			continue
		}
		patterns = append(patterns, arg)
	}
	return patterns
}

// watchTargets returns the directories named in args plus every resolved
// file outside them.
func watchTargets(args, paths []string) []string {
	var targets []string
	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			targets = append(targets, arg)
		}
	}
	for _, path := range paths {
		if !underAny(path, targets) {
			targets = append(targets, path)
		}
	}
	return targets
}

func underAny(path string, dirs []string) bool {
	for _, dir := range dirs {
		rel, err := filepath.Rel(dir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func writeMetrics(cmd *cobra.Command, recorder *metrics.Recorder, textfile string) {
	if textfile == "" {
		return
	}
	if err := recorder.WriteTextfile(textfile); err != nil {
		printWarning(cmd.ErrOrStderr(), "Could not write metrics to %s: %v", textfile, err)
	}
}
