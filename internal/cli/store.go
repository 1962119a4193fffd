package cli

import (
	"fmt"

	"github.com/HartBrook/lexchunk/internal/cache"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			store := cache.New(cfg.Store.Dir)
			out := cmd.OutOrStdout()

			names, err := store.ListCached()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(out, dim("No documents stored. Run `lexchunk parse <file>` to add one."))
				return nil
			}

			for _, name := range names {
				meta, err := store.GetMetadata(name)
				if err != nil {
					fmt.Fprintf(out, "%s  %s\n", bold(name), warning("no metadata"))
					continue
				}
				fmt.Fprintf(out, "%s  %d chunks  %s\n", bold(name), meta.ChunkCount, dim(meta.Age()))
				if meta.Source != "" {
					printInfo(out, "Source", meta.Source)
				}
				printInfo(out, "Law", meta.Law.Name)
			}
			return nil
		},
	}
}

type clearOptions struct {
	all bool
}

// NewClearCmd creates the clear command.
func NewClearCmd(root *rootOptions) *cobra.Command {
	opts := &clearOptions{}

	cmd := &cobra.Command{
		Use:   "clear [document...]",
		Short: "Remove stored chunks",
		Example: `  lexchunk clear TN_Code_du_Travail
  lexchunk clear --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.all == (len(args) > 0) {
				return fmt.Errorf("specify documents or --all, not both")
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			store := cache.New(cfg.Store.Dir)

			names := args
			if opts.all {
				if names, err = store.ListCached(); err != nil {
					return err
				}
			}

			for _, name := range names {
				if err := store.Clear(name); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Cleared %s", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.all, "all", false, "Remove every stored document")

	return cmd
}
