package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/HartBrook/lexchunk/internal/cache"
	"github.com/HartBrook/lexchunk/internal/chunk"
	"github.com/HartBrook/lexchunk/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type statsOptions struct {
	json bool
}

// NewStatsCmd creates the stats command.
func NewStatsCmd(root *rootOptions) *cobra.Command {
	opts := &statsOptions{}

	cmd := &cobra.Command{
		Use:   "stats <document|chunks.json>",
		Short: "Summarize a chunk set",
		Long: `Counts the chunks of a stored document (or of a chunk JSON file), split
into base articles and sub-articles, and the distinct books, titles,
chapters and sections they belong to.`,
		Example: `  lexchunk stats TN_Code_du_Travail
  lexchunk stats chunks.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			chunks, err := loadChunks(cfg, args[0])
			if err != nil {
				return err
			}

			stats := chunk.ComputeStatistics(chunks)
			if opts.json {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, bold(args[0]))
			printStatistics(out, stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Output statistics as JSON")

	return cmd
}

// loadChunks reads chunks from a JSON file when ref names one, otherwise
// from the store entry called ref.
func loadChunks(cfg *config.Config, ref string) ([]chunk.Chunk, error) {
	if strings.HasSuffix(ref, ".json") {
		if _, err := os.Stat(ref); err == nil {
			return cache.LoadFile(ref)
		}
	}
	chunks, _, err := cache.New(cfg.Store.Dir).Read(ref)
	return chunks, err
}

// printStatistics prints one labeled line per statistic, in JSON field order.
func printStatistics(w io.Writer, s chunk.Statistics) {
	rows := []struct {
		key   string
		value int
	}{
		{"total_chunks", s.TotalChunks},
		{"base_articles", s.BaseArticles},
		{"sub_articles", s.SubArticles},
		{"books", s.Books},
		{"titles", s.Titles},
		{"chapters", s.Chapters},
		{"sections", s.Sections},
		{"total_tokens", s.TotalTokens},
		{"max_tokens", s.MaxTokens},
	}

	caser := cases.Title(language.English)
	for _, row := range rows {
		printInfo(w, caser.String(strings.ReplaceAll(row.key, "_", " ")), strconv.Itoa(row.value))
	}
}
