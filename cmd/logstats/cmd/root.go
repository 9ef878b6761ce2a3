package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "logstats <directory>",
	Short: "Aggregate POSIX I/O statistics across a directory of tracelog files",
	Long: `logstats walks a directory tree, opens every tracelog file it finds,
and aggregates per-log I/O ratios and module usage across the whole set.
A per-log open or decode failure is logged to stderr and the log is
skipped; aggregation continues.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acc := newAccumulator()

		root := args[0]
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				return nil
			}

			if walkErr := acc.addFile(path); walkErr != nil {
				log.Printf("logstats: skipping %s: %v", path, walkErr)
			}

			return nil
		})
		if err != nil {
			return fmt.Errorf("walk %s: %w", root, err)
		}

		acc.report(cmd.OutOrStdout())

		return nil
	},
}

// Execute runs the root command, exiting with a non-zero status if the
// walk itself failed (not if individual logs failed to open).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
