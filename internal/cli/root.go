// Package cli implements the lexchunk command-line interface.
package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/HartBrook/lexchunk/internal/config"
	"github.com/HartBrook/lexchunk/internal/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Output helpers.
	successIcon = color.New(color.FgGreen).Sprint("✓")
	warningIcon = color.New(color.FgYellow).Sprint("⚠")
	errorIcon   = color.New(color.FgRed).Sprint("✗")

	success = color.New(color.FgGreen).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	info    = color.New(color.FgCyan).SprintFunc()
	dim     = color.New(color.Faint).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configPath string
	storeDir   string
	verbose    bool
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "lexchunk",
		Short: "Split labor-code text into article chunks",
		Long: `Lexchunk turns the plain text of a French-language labor code into
one chunk per article, each carrying its Livre, Titre, Chapitre and Section.

Chunks are stored per document and can be inspected, summarized, and kept
up to date as the source text changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default ~/.config/lexchunk/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.storeDir, "store", "", "Chunk store directory (overrides store.dir)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log diagnostic details to stderr")

	// Add subcommands
	rootCmd.AddCommand(NewParseCmd(opts))
	rootCmd.AddCommand(NewStatsCmd(opts))
	rootCmd.AddCommand(NewShowCmd(opts))
	rootCmd.AddCommand(NewListCmd(opts))
	rootCmd.AddCommand(NewClearCmd(opts))
	rootCmd.AddCommand(NewWatchCmd(opts))
	rootCmd.AddCommand(NewInitCmd(opts))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lexchunk %s\n", Version)
		},
	}
}

// Execute runs the CLI.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		return err
	}
	return nil
}

// loadConfig reads the config selected by --config, then applies --store.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
		if err == nil && cfg.Store.Dir == "" {
			cfg.Store.Dir = config.NewPaths().CacheDir
		}
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if o.storeDir != "" {
		cfg.Store.Dir = o.storeDir
	}
	return cfg, nil
}

// logger returns a text logger on w, at debug level with --verbose.
func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", successIcon, fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", warningIcon, fmt.Sprintf(format, args...))
}

// printError prints err, followed by its hint when it carries one.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", errorIcon, err.Error())

	var le *errors.LexchunkError
	if stderrors.As(err, &le) && le.Hint != "" {
		fmt.Fprintf(w, "  %s\n", dim(le.Hint))
	}
}

// printInfo prints an info line.
func printInfo(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s: %s\n", dim(label), value)
}
