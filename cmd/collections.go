/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/fulmenhq/brandkit/pkg/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCollectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"ls"},
		Short:   "List registered collections and their directories",
		Args:    cobra.NoArgs,
		RunE:    runCollections,
	}
	cmd.Flags().String("format", "text", "Output format (text|json|yaml|toml)")
	return cmd
}

// collectionsDoc is the document shape for structured output.
type collectionsDoc struct {
	PublicDir   string                    `json:"publicDir" yaml:"public_dir" toml:"public_dir"`
	Collections []config.CollectionConfig `json:"collections" yaml:"collections" toml:"collections"`
}

func runCollections(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	doc := collectionsDoc{PublicDir: cfg.PublicDir, Collections: reg.All()}

	format, _ := cmd.Flags().GetString("format")
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		format = "json"
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to format YAML: %w", err)
		}
		return enc.Close()
	case "toml":
		data, err := toml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to format TOML: %w", err)
		}
		_, err = out.Write(data)
		return err
	case "text", "":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tLABEL\tSOURCE\tVARIANTS\tCATALOG")
		for _, c := range doc.Collections {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.Name, c.DisplayLabel(), c.SourceDir, c.VariantDir, c.MetadataFile)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("%w: unsupported format %q (text|json|yaml|toml)", config.ErrInvalidConfig, format)
	}
	return nil
}
