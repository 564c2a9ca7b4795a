package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jganschow/wikidump-auto/prune"
)

var filterExpr string

// pruneCmd runs only the cleanup stage
var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old dumps from the save directory",
	Long: `Delete dump files from the save directory without fetching a new torrent.

By default dumps older than the retention window are deleted. A filter
expression can replace the age rule, e.g.:

  wikidump-auto prune --filter 'daysSince(ModTime) > 45 && Size > 1024*1024*1024'
  wikidump-auto prune --filter 'contains(Name, "20240101")'

Files qBittorrent is still writing (.!qB) and names that are not enwiki dumps
are never deleted.`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression selecting dumps to delete")
}

func runPrune(cmd *cobra.Command, args []string) error {
	retention := time.Duration(cfg.Dump.RetentionDays) * 24 * time.Hour
	filter := prune.AgeFilter(retention)

	if filterExpr != "" {
		var err error
		filter, err = prune.CompileFilter(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		logger.Info().Str("filter", filterExpr).Msg("Pruning with filter expression")
	}

	pruner := prune.New(cfg.Dump.SaveDir, filter, logger)
	_, err := pruner.Prune()
	return err
}
