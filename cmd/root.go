/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fulmenhq/brandkit/pkg/buildinfo"
	"github.com/fulmenhq/brandkit/pkg/config"
	"github.com/fulmenhq/brandkit/pkg/exitcode"
	"github.com/fulmenhq/brandkit/pkg/logger"
	"github.com/fulmenhq/brandkit/pkg/pipeline"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brandkit",
		Short: "Keep brand asset catalogs, color variants and the offline cache in sync",
		Long: `Brandkit maintains a public asset gallery: it normalizes SVG markup, reconciles
each collection's metadata catalog with the files on disk, synthesizes color
variants, renders bitmaps and writes the offline cache manifest.

Examples:
   brandkit run                    # Full pipeline for the selected collection
   brandkit run --collection all   # Every registered collection, then the manifest
   brandkit sync --no-op           # Show catalog changes without writing
   brandkit validate               # Check catalogs against schema and files
   brandkit collections            # List registered collections`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("config", "", "Configuration file (default: brandkit.yaml in the working directory)")
	cmd.PersistentFlags().String("public-dir", "", "Public tree holding images/ and data/ (overrides config)")
	cmd.PersistentFlags().StringP("collection", "c", "", "Collection to process, or 'all' (overrides config and $COLLECTION)")
	cmd.PersistentFlags().Int("workers", 0, "Concurrent workers for per-file stages (0 = number of CPUs)")
	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs and reports in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().Bool("no-op", false, "Compute every change without writing anything")

	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("brandkit {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// Each subcommand is built fresh so tests never share flag state.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newNormalizeCmd())
	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newVariantsCmd())
	cmd.AddCommand(newManifestCmd())
	cmd.AddCommand(newFaviconsCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newCollectionsCmd())
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command and maps failures onto process exit codes.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	// Register all subcommands with the production rootCmd
	registerSubcommands(rootCmd)
}

// errPartialFailure marks a multi-collection run in which some collections failed.
var errPartialFailure = errors.New("one or more collections failed")

// errValidationFailed marks a validate run that found problems.
var errValidationFailed = errors.New("validation failed")

// exitCodeFor classifies a command error.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, errPartialFailure):
		return exitcode.PartialFailure
	case errors.Is(err, errValidationFailed):
		return exitcode.ValidationError
	case errors.Is(err, config.ErrUnknownCollection):
		return exitcode.UsageError
	case errors.Is(err, config.ErrInvalidConfig):
		return exitcode.ConfigError
	case errors.Is(err, pipeline.ErrSourceDirMissing):
		return exitcode.FileSystemError
	default:
		return exitcode.GeneralError
	}
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	noOp, _ := cmd.Flags().GetBool("no-op")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "brandkit",
		NoOp:      noOp,
	}

	if err := logger.Initialize(config); err != nil {
		// Fallback to stderr
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(exitcode.ConfigError)
	}
}
