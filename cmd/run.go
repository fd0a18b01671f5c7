/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"github.com/fulmenhq/brandkit/pkg/pipeline"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: normalize, sync, variants, raster, manifest",
		Long: `Run every stage for the selected collection (or all of them) in order:
markup normalization, catalog reconciliation and migration, color variant
synthesis, bitmap rendering and finally the offline cache manifest.

With --collection all a failing collection is reported and the others still
run; the command then exits with a partial-failure status.`,
		Args: cobra.NoArgs,
		RunE: runPipeline,
	}
	cmd.Flags().Bool("skip-raster", false, "Do not render bitmaps")
	cmd.Flags().Bool("skip-manifest", false, "Do not rewrite the cache manifest")
	addReportFlag(cmd)
	return cmd
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	stages := pipeline.AllStages()
	if skip, _ := cmd.Flags().GetBool("skip-raster"); skip {
		stages.Raster = false
	}
	if skip, _ := cmd.Flags().GetBool("skip-manifest"); skip {
		stages.Manifest = false
	}
	return runStages(cmd, stages)
}
