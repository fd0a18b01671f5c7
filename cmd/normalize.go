/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"github.com/fulmenhq/brandkit/pkg/pipeline"
	"github.com/spf13/cobra"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Rewrite source SVGs into their canonical markup form",
		Long: `Strip prologs and comments, ensure a viewBox, make the root scale to its
container and prefix short element ids so assets can be inlined side by side.
Files already in canonical form are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStages(cmd, pipeline.Stages{Normalize: true})
		},
	}
}
