/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFaviconsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favicons",
		Short: "Render app icons from the configured favicon SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, _, err := newRunner(cmd)
			if err != nil {
				return err
			}
			written, err := r.Favicons()
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}
