package cli

import (
	"fmt"
	"os"

	"github.com/HartBrook/lexchunk/internal/config"
	"github.com/spf13/cobra"
)

type initOptions struct {
	force bool
}

// NewInitCmd creates the init command.
func NewInitCmd(root *rootOptions) *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Writes a configuration file with the default law, store, batch, watch
and metrics settings, ready to edit.

Every setting can also be overridden with a LEXCHUNK_* environment variable,
e.g. LEXCHUNK_LAW_CODE or LEXCHUNK_BATCH_WORKERS.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.configPath
			if path == "" {
				path = config.NewPaths().ConfigFile
			}
			out := cmd.OutOrStdout()

			if _, err := os.Stat(path); err == nil && !opts.force {
				fmt.Fprintf(out, "Config already exists: %s\n", path)
				fmt.Fprintln(out, dim("Use --force to overwrite it."))
				return nil
			}

			if err := config.SaveTo(config.Default(), path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			printSuccess(out, "Config saved to %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing config file")

	return cmd
}
