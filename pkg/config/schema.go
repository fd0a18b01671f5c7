package config

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/brandkit/pkg/schema"
	"github.com/spf13/viper"
)

// ValidateFile checks a configuration file against the embedded config
// schema before it is merged with defaults, so typos in nested keys
// surface with the offending path.
func ValidateFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	res, err := schema.ValidateConfig(v.AllSettings())
	if err != nil {
		return fmt.Errorf("validate config %s: %w", path, err)
	}
	if res.Valid {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, path, strings.Join(msgs, "; "))
}
