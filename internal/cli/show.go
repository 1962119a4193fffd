package cli

import (
	"fmt"
	"io"

	"github.com/HartBrook/lexchunk/internal/cache"
	"github.com/HartBrook/lexchunk/internal/chunk"
	"github.com/spf13/cobra"
)

type showOptions struct {
	all  bool
	json bool
}

// NewShowCmd creates the show command.
func NewShowCmd(root *rootOptions) *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show <document|chunks.json> [id...]",
		Short: "Print chunks by ID",
		Long: `Prints the chunks with the given IDs, or every chunk with --all.

IDs are not guaranteed unique: when a source repeats an article number,
every chunk carrying the ID is printed.`,
		Example: `  lexchunk show TN_Code_du_Travail CT_TN_A1 CT_TN_A2_1
  lexchunk show TN_Code_du_Travail --all --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.all && len(args) == 1 {
				return fmt.Errorf("specify chunk IDs or --all")
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			chunks, err := loadChunks(cfg, args[0])
			if err != nil {
				return err
			}

			selected := chunks
			if !opts.all {
				selected = nil
				for _, id := range args[1:] {
					found := chunk.FindByID(chunks, id)
					if len(found) == 0 {
						return fmt.Errorf("no chunk with ID %q in %s", id, args[0])
					}
					selected = append(selected, found...)
				}
			}

			if opts.json {
				return cache.Encode(cmd.OutOrStdout(), selected)
			}
			for i, c := range selected {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				printChunk(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.all, "all", false, "Print every chunk")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output chunks as JSON")

	return cmd
}

func printChunk(w io.Writer, c chunk.Chunk) {
	fmt.Fprintf(w, "%s  %s\n", bold(c.ID), info(c.Metadata.Citation))
	if c.Metadata.HierarchyPath != "" {
		fmt.Fprintf(w, "%s\n", dim(c.Metadata.HierarchyPath))
	}
	fmt.Fprintf(w, "%s\n", c.Text)
}
