// Package schema validates documents against the JSON Schemas embedded in
// the binary.
package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/fulmenhq/brandkit/internal/assets"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Result holds the validation result.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error.
type ValidationError struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validator wraps a compiled schema for repeated validation.
type Validator struct {
	schema *gojsonschema.Schema
}

var (
	compiled   = map[string]*Validator{}
	compiledMu sync.Mutex
)

// NewValidatorFromBytes compiles a JSON or YAML schema document.
func NewValidatorFromBytes(schemaBytes []byte) (*Validator, error) {
	var tmp interface{}
	if err := yaml.Unmarshal(schemaBytes, &tmp); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	jb, err := json.Marshal(tmp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema to JSON: %w", err)
	}
	sch, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jb))
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	return &Validator{schema: sch}, nil
}

// Embedded returns the validator for an embedded schema, compiling it once.
func Embedded(name string) (*Validator, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()
	if v, ok := compiled[name]; ok {
		return v, nil
	}
	data, ok := assets.GetSchema(name)
	if !ok {
		return nil, fmt.Errorf("embedded schema %q not found", name)
	}
	v, err := NewValidatorFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}
	compiled[name] = v
	return v, nil
}

// Validate checks an already decoded value.
func (v *Validator) Validate(data interface{}) (*Result, error) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode data to JSON: %w", err)
	}
	return v.validateJSON(dataJSON)
}

// ValidateBytes checks a JSON document.
func (v *Validator) ValidateBytes(dataBytes []byte) (*Result, error) {
	if !json.Valid(dataBytes) {
		var data interface{}
		if err := yaml.Unmarshal(dataBytes, &data); err != nil {
			return nil, fmt.Errorf("failed to parse data bytes (YAML/JSON): %w", err)
		}
		return v.Validate(data)
	}
	return v.validateJSON(dataBytes)
}

func (v *Validator) validateJSON(dataJSON []byte) (*Result, error) {
	if v == nil || v.schema == nil {
		return nil, fmt.Errorf("validator not initialised")
	}
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(dataJSON))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	res := &Result{Valid: result.Valid()}
	for _, verr := range result.Errors() {
		field := verr.Field()
		if field == "" || field == "(root)" {
			field = "root"
		}
		res.Errors = append(res.Errors, ValidationError{Path: field, Message: verr.Description()})
	}
	return res, nil
}

// ValidateCatalog checks a metadata document against the catalog schema.
func ValidateCatalog(data []byte) (*Result, error) {
	v, err := Embedded(assets.CatalogSchema)
	if err != nil {
		return nil, err
	}
	return v.ValidateBytes(data)
}

// ValidateConfig checks a decoded configuration map against the config schema.
func ValidateConfig(settings map[string]interface{}) (*Result, error) {
	v, err := Embedded(assets.ConfigSchema)
	if err != nil {
		return nil, err
	}
	return v.Validate(settings)
}
