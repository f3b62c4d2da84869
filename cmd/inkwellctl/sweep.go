package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkwell-sh/inkwell/pkg/config"
	"github.com/inkwell-sh/inkwell/pkg/retention"
)

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one retention sweep",
	Long: `Run one retention sweep.

Permanently purges soft-deleted posts and blogs past the retention window
and trims old closed revisions beyond the configured keep count. The
server schedules this automatically; the command exists for one-off runs
and cron-driven setups.

Example:
  inkwellctl sweep
  inkwellctl sweep --retention-days 7 --revision-keep 10`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()
		retentionDays, _ := cmd.Flags().GetInt("retention-days")
		revisionKeep, _ := cmd.Flags().GetInt("revision-keep")
		if retentionDays < 0 {
			retentionDays = cfg.RetentionDays
		}
		if revisionKeep < 0 {
			revisionKeep = cfg.RevisionKeep
		}

		gdb, err := connectWithCipher()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
			os.Exit(1)
		}

		sweeper := retention.NewSweeper(gdb, retention.Config{
			RetentionDays: retentionDays,
			RevisionKeep:  revisionKeep,
		})
		result, err := sweeper.RunOnce(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Sweep failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Purged %d posts, %d blogs; trimmed %d revisions\n",
			result.PurgedPosts, result.PurgedBlogs, result.TrimmedRevisions)
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().Int("retention-days", -1, "Days soft-deleted rows stay recoverable (default: configured value)")
	sweepCmd.Flags().Int("revision-keep", -1, "Closed revisions kept per post (default: configured value)")
}
