/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fulmenhq/brandkit/pkg/logger"
	"github.com/fulmenhq/brandkit/pkg/pipeline"
	"github.com/fulmenhq/brandkit/pkg/report"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check catalogs against the schema, their color sets and the source files",
		Long: `Validate reads each selected catalog without changing anything and reports:
  - schema violations (missing fields, wrong types, paths with directories)
  - color sets that reference unknown targets or colors, and duplicate paths
  - enabled records whose source file no longer exists

A collection without a catalog yet is reported as absent, not as an error.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}
	cmd.Flags().Bool("strict", false, "Treat an absent catalog as a failure")
	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	r, cfg, err := newRunner(cmd)
	if err != nil {
		return err
	}
	reports, err := r.Validate(strings.TrimSpace(cfg.Collection))
	if err != nil {
		return err
	}
	strict, _ := cmd.Flags().GetBool("strict")

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	} else {
		printValidation(out, reports)
	}

	failed := 0
	for _, rep := range reports {
		if !rep.Valid() || (strict && rep.Absent) {
			failed++
		}
	}
	if failed > 0 {
		logger.Warn(fmt.Sprintf("%d of %d catalogs failed validation", failed, len(reports)))
		return fmt.Errorf("%w: %d catalog(s)", errValidationFailed, failed)
	}
	return nil
}

const maxProblemWidth = 96

func printValidation(w io.Writer, reports []*pipeline.ValidationReport) {
	for _, rep := range reports {
		switch {
		case rep.Absent:
			fmt.Fprintf(w, "%s: %s absent\n", rep.Collection, rep.File)
			continue
		case rep.Valid():
			fmt.Fprintf(w, "%s: %s ok\n", rep.Collection, rep.File)
			continue
		}
		fmt.Fprintf(w, "%s: %s invalid\n", rep.Collection, rep.File)
		for _, e := range rep.SchemaErrors {
			fmt.Fprintf(w, "  schema  %s\n", report.Truncate(e.String(), maxProblemWidth))
		}
		for _, p := range rep.SetProblems {
			fmt.Fprintf(w, "  sets    %s\n", report.Truncate(p.String(), maxProblemWidth))
		}
		for _, f := range rep.MissingFiles {
			fmt.Fprintf(w, "  missing %s\n", f)
		}
	}
}
