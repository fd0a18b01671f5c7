/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/brandkit/pkg/buildinfo"
	"github.com/fulmenhq/brandkit/pkg/config"
	"github.com/fulmenhq/brandkit/pkg/logger"
	"github.com/fulmenhq/brandkit/pkg/pipeline"
	"github.com/fulmenhq/brandkit/pkg/report"
	"github.com/fulmenhq/brandkit/pkg/safeio"
	"github.com/spf13/cobra"
)

// loadConfig reads configuration for cmd, layering its flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(config.LoadOptions{
		File:  file,
		Flags: cmd.Flags(),
	})
	if err != nil {
		return nil, err
	}
	if cfg.ConfigFile != "" {
		logger.Debug("Loaded configuration", logger.String("file", cfg.ConfigFile))
	}
	return cfg, nil
}

// newRunner loads configuration and builds a pipeline runner for cmd.
func newRunner(cmd *cobra.Command) (*pipeline.Runner, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	noOp, _ := cmd.Flags().GetBool("no-op")
	r, err := pipeline.New(cfg, pipeline.Options{NoOp: noOp})
	if err != nil {
		return nil, nil, err
	}
	return r, cfg, nil
}

// runStages executes stages for the configured selector and prints the run
// report. A multi-collection run with some failures returns errPartialFailure.
func runStages(cmd *cobra.Command, stages pipeline.Stages) error {
	r, cfg, err := newRunner(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	selector := strings.TrimSpace(cfg.Collection)
	rep, runErr := r.Run(ctx, selector, stages)
	if rep == nil {
		return runErr
	}
	if err := printRunReport(cmd, rep); err != nil {
		return err
	}
	if err := writeMarkdownReport(cmd, rep); err != nil {
		return err
	}

	if runErr != nil && selector == config.AllCollections && len(rep.Collections) > 0 && len(rep.Failed()) < len(rep.Collections) {
		return fmt.Errorf("%w: %v", errPartialFailure, runErr)
	}
	return runErr
}

func printRunReport(cmd *cobra.Command, rep *pipeline.RunReport) error {
	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	_, err := fmt.Fprint(out, report.Summary(rep))
	return err
}

// writeMarkdownReport honors --report on commands that declare it.
func writeMarkdownReport(cmd *cobra.Command, rep *pipeline.RunReport) error {
	path, _ := cmd.Flags().GetString("report")
	if path == "" {
		return nil
	}
	md, err := report.Markdown(rep, buildinfo.Version())
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	path, err = safeio.CleanUserPath(path)
	if err != nil {
		return fmt.Errorf("invalid report path: %w", err)
	}
	path = filepath.FromSlash(path)
	if err := safeio.WriteFilePreservePerms(path, []byte(md)); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	logger.Info("Wrote run report", logger.String("file", path))
	return nil
}

func addReportFlag(cmd *cobra.Command) {
	cmd.Flags().String("report", "", "Also write a markdown run report to this file")
}
