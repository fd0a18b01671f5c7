/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/fulmenhq/brandkit/pkg/buildinfo"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show brandkit version",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().Bool("extended", false, "Show Go version and platform")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()
	info := buildinfo.Current()

	if jsonOutput {
		jsonData, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %v", err)
		}
		fmt.Fprintln(out, string(jsonData))
		return nil
	}

	fmt.Fprintf(out, "brandkit %s\n", info.Version)
	if extended {
		if mv := buildinfo.ModuleVersion(); mv != "" {
			fmt.Fprintf(out, "Module version: %s\n", mv)
		}
		fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
		fmt.Fprintf(out, "Platform: %s/%s\n", info.Platform, info.Arch)
	}
	return nil
}
