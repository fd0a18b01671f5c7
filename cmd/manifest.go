/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newManifestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Write the offline cache manifest for the public tree",
		Long: `List every file under the public directory (and any configured extra roots)
as a JSON array of root-relative URLs. The service worker entry point, the
manifest itself and ignored paths are left out.`,
		Args: cobra.NoArgs,
		RunE: runManifest,
	}
}

func runManifest(cmd *cobra.Command, _ []string) error {
	r, _, err := newRunner(cmd)
	if err != nil {
		return err
	}
	res, err := r.Manifest()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	status := "unchanged"
	if res.Changed {
		status = "updated"
	}
	fmt.Fprintf(out, "%s: %d entries (%s)\n", res.File, len(res.Entries), status)
	return nil
}
