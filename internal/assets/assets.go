// Package assets holds the schemas and templates compiled into the binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed embedded_templates
var Templates embed.FS

//go:embed embedded_schemas
var Schemas embed.FS

const (
	// CatalogSchema is the schema every metadata file is checked against.
	CatalogSchema = "catalog-v1.schema.json"
	// ConfigSchema describes brandkit.yaml.
	ConfigSchema = "config-v1.schema.json"
	// ReportTemplate renders the markdown run report.
	ReportTemplate = "report.md.hbs"
)

func GetTemplatesFS() fs.FS {
	if sub, err := fs.Sub(Templates, "embedded_templates"); err == nil {
		return sub
	}
	return Templates
}

func GetSchemasFS() fs.FS {
	if sub, err := fs.Sub(Schemas, "embedded_schemas"); err == nil {
		return sub
	}
	return Schemas
}

// GetSchema returns an embedded schema by file name.
func GetSchema(name string) ([]byte, bool) {
	data, err := fs.ReadFile(GetSchemasFS(), name)
	return data, err == nil
}

// GetTemplate returns an embedded template by file name.
func GetTemplate(name string) ([]byte, bool) {
	data, err := fs.ReadFile(GetTemplatesFS(), name)
	return data, err == nil
}

// GetEmbeddedAsset looks a path up in templates first, then schemas.
func GetEmbeddedAsset(path string) ([]byte, error) {
	if data, ok := GetTemplate(path); ok {
		return data, nil
	}
	if data, ok := GetSchema(path); ok {
		return data, nil
	}
	return nil, fs.ErrNotExist
}
