/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"github.com/fulmenhq/brandkit/pkg/pipeline"
	"github.com/spf13/cobra"
)

func newVariantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "variants",
		Short: "Regenerate color variants (and their bitmaps) from the current catalog",
		Long: `Clear each collection's variant directory, keeping placeholder files, then
write one recolored SVG per record and color set, followed by opaque and
transparent bitmaps of every base asset and variant.

The catalog is read as-is; run 'brandkit sync' first if sources changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stages := pipeline.Stages{Variants: true, Raster: true}
			if skip, _ := cmd.Flags().GetBool("skip-raster"); skip {
				stages.Raster = false
			}
			return runStages(cmd, stages)
		},
	}
	cmd.Flags().Bool("skip-raster", false, "Do not render bitmaps")
	addReportFlag(cmd)
	return cmd
}
