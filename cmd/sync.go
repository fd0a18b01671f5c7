/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"github.com/fulmenhq/brandkit/pkg/pipeline"
	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile each collection's metadata catalog with its source directory",
		Long: `Add records for new files, disable records whose file disappeared, re-enable
records whose file came back, repair stale paths and migrate legacy color
configuration. The catalog is rewritten only when its content changed.

Use --no-op to see what would change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stages := pipeline.Stages{Sync: true}
			if normalize, _ := cmd.Flags().GetBool("normalize"); normalize {
				stages.Normalize = true
			}
			return runStages(cmd, stages)
		},
	}
	cmd.Flags().Bool("normalize", false, "Normalize markup before reconciling")
	addReportFlag(cmd)
	return cmd
}
