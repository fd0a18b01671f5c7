package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for brandkit
type Config struct {
	PublicDir   string             `mapstructure:"public_dir"`
	Collection  string             `mapstructure:"collection"`
	Workers     int                `mapstructure:"workers"`
	Collections []CollectionConfig `mapstructure:"collections"`
	Scan        ScanConfig         `mapstructure:"scan"`
	Variants    VariantsConfig     `mapstructure:"variants"`
	Raster      RasterConfig       `mapstructure:"raster"`
	Manifest    ManifestConfig     `mapstructure:"manifest"`
	Favicon     FaviconConfig      `mapstructure:"favicon"`

	// ConfigFile is the file the configuration was read from, empty for defaults only.
	ConfigFile string `mapstructure:"-"`
}

// ScanConfig controls which source files count as assets
type ScanConfig struct {
	Extensions []string `mapstructure:"extensions"`
}

// VariantsConfig controls variant directory housekeeping
type VariantsConfig struct {
	Placeholders []string `mapstructure:"placeholders"`
}

// RasterConfig holds bitmap rendering options
type RasterConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Width       int    `mapstructure:"width"`
	Background  string `mapstructure:"background"`
	JPEGQuality int    `mapstructure:"jpeg_quality"`
}

// ManifestConfig holds cache manifest options
type ManifestConfig struct {
	File       string   `mapstructure:"file"`
	EntryPoint string   `mapstructure:"entry_point"`
	IgnoreFile string   `mapstructure:"ignore_file"`
	Exclude    []string `mapstructure:"exclude"`
	// ExtraRoots are trees outside public_dir listed under their URL prefix.
	ExtraRoots []ManifestRoot `mapstructure:"extra_roots"`
}

// ManifestRoot is an additional tree published under URLPrefix.
type ManifestRoot struct {
	Dir       string `mapstructure:"dir"`
	URLPrefix string `mapstructure:"url_prefix"`
}

// FaviconConfig holds app icon generation options
type FaviconConfig struct {
	Source string `mapstructure:"source"`
}

// DefaultCollections mirrors the gallery's supported collections.
var DefaultCollections = []CollectionConfig{
	{Name: "logos", Label: "Logos", SourceDir: "images/logos", VariantDir: "images/logos_variants", MetadataFile: "data/logos.json"},
	{Name: "flags", Label: "Flags", SourceDir: "images/flags", VariantDir: "images/flags_variants", MetadataFile: "data/flags.json"},
	{Name: "emblems", Label: "Emblems", SourceDir: "images/emblems", VariantDir: "images/emblems_variants", MetadataFile: "data/emblems.json"},
}

var defaultConfig = Config{
	PublicDir:   "public",
	Collection:  "logos",
	Workers:     runtime.NumCPU(),
	Collections: DefaultCollections,
	Scan: ScanConfig{
		Extensions: []string{"svg", "png", "jpg", "jpeg"},
	},
	Variants: VariantsConfig{
		Placeholders: []string{".gitignore"},
	},
	Raster: RasterConfig{
		Enabled:     true,
		Width:       256,
		Background:  "#ffffff",
		JPEGQuality: 90,
	},
	Manifest: ManifestConfig{
		File:       "pwa-files-to-cache.json",
		EntryPoint: "sw.js",
		IgnoreFile: ".brandkitignore",
		Exclude:    []string{"**/.DS_Store", "**/CNAME", "**/.gitignore"},
	},
	Favicon: FaviconConfig{
		Source: "favicon.svg",
	},
}

// configCandidates are searched in the working directory when no file is given.
var configCandidates = []string{
	"brandkit.yaml",
	"brandkit.yml",
	".brandkit.yaml",
	".brandkit.yml",
	"brandkit.toml",
	"brandkit.json",
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// File is an explicit configuration file; reading it must succeed.
	File string
	// Dir is searched for configCandidates when File is empty. Defaults to ".".
	Dir string
	// Flags are bound over file and environment values when changed.
	Flags *pflag.FlagSet
}

// flagBindings maps config keys to CLI flag names.
var flagBindings = map[string]string{
	"public_dir": "public-dir",
	"collection": "collection",
	"workers":    "workers",
}

// LoadConfig loads configuration from defaults, an optional file, the environment and flags.
func LoadConfig(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("public_dir", defaultConfig.PublicDir)
	v.SetDefault("collection", defaultConfig.Collection)
	v.SetDefault("workers", defaultConfig.Workers)
	v.SetDefault("collections", defaultConfig.Collections)
	v.SetDefault("scan.extensions", defaultConfig.Scan.Extensions)
	v.SetDefault("variants.placeholders", defaultConfig.Variants.Placeholders)
	v.SetDefault("raster.enabled", defaultConfig.Raster.Enabled)
	v.SetDefault("raster.width", defaultConfig.Raster.Width)
	v.SetDefault("raster.background", defaultConfig.Raster.Background)
	v.SetDefault("raster.jpeg_quality", defaultConfig.Raster.JPEGQuality)
	v.SetDefault("manifest.file", defaultConfig.Manifest.File)
	v.SetDefault("manifest.entry_point", defaultConfig.Manifest.EntryPoint)
	v.SetDefault("manifest.ignore_file", defaultConfig.Manifest.IgnoreFile)
	v.SetDefault("manifest.exclude", defaultConfig.Manifest.Exclude)
	v.SetDefault("favicon.source", defaultConfig.Favicon.Source)

	v.SetEnvPrefix("BRANDKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// COLLECTION is the selector variable the build scripts have always exported.
	if err := v.BindEnv("collection", "BRANDKIT_COLLECTION", "COLLECTION"); err != nil {
		return nil, fmt.Errorf("bind collection env: %w", err)
	}

	file, err := locateConfigFile(opts)
	if err != nil {
		return nil, err
	}
	if file != "" {
		if err := ValidateFile(file); err != nil {
			return nil, err
		}
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	if opts.Flags != nil {
		for key, name := range flagBindings {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	config.ConfigFile = file

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func locateConfigFile(opts LoadOptions) (string, error) {
	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return "", fmt.Errorf("config file %s: %w", opts.File, err)
		}
		return opts.File, nil
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	for _, name := range configCandidates {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks structural constraints that every component relies on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.PublicDir) == "" {
		return fmt.Errorf("%w: public_dir must not be empty", ErrInvalidConfig)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0", ErrInvalidConfig)
	}
	if len(c.Scan.Extensions) == 0 {
		return fmt.Errorf("%w: scan.extensions must list at least one extension", ErrInvalidConfig)
	}
	if c.Raster.Width <= 0 {
		return fmt.Errorf("%w: raster.width must be positive", ErrInvalidConfig)
	}
	if c.Raster.JPEGQuality < 1 || c.Raster.JPEGQuality > 100 {
		return fmt.Errorf("%w: raster.jpeg_quality must be within 1..100", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Manifest.File) == "" {
		return fmt.Errorf("%w: manifest.file must not be empty", ErrInvalidConfig)
	}
	if _, err := NewRegistry(c.Collections); err != nil {
		return err
	}
	return nil
}

// Registry returns the validated collection registry.
func (c *Config) Registry() (*Registry, error) {
	return NewRegistry(c.Collections)
}

// WorkerCount returns the configured worker count, defaulting to NumCPU.
func (c *Config) WorkerCount() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// Path resolves p against the public directory unless it is absolute.
func (c *Config) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.PublicDir, filepath.FromSlash(p))
}
