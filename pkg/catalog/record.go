// Package catalog models a collection's persisted metadata and keeps it in
// step with the source directory.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Colors maps a semantic colour key to its value, in encounter order.
type Colors = orderedmap.OrderedMap[string, ColorValue]

// Targets maps a symbolic target key to a selector, in encounter order.
type Targets = orderedmap.OrderedMap[string, string]

// ColorSet assigns a colour key to each target key.
type ColorSet = orderedmap.OrderedMap[string, string]

// Sets maps a variant name to its colour set.
type Sets = orderedmap.OrderedMap[string, *ColorSet]

// NewColors returns an empty colour map.
func NewColors() *Colors { return orderedmap.New[string, ColorValue]() }

// NewTargets returns an empty target map.
func NewTargets() *Targets { return orderedmap.New[string, string]() }

// NewColorSet returns an empty colour set.
func NewColorSet() *ColorSet { return orderedmap.New[string, string]() }

// NewSets returns an empty set map.
func NewSets() *Sets { return orderedmap.New[string, *ColorSet]() }

// ColorValue is either a plain string ("#0000FF") or a theme-qualified
// object ({"theme": "dark", "value": "#fff"}). Object forms round-trip verbatim.
type ColorValue struct {
	Value string
	Theme string
	raw   json.RawMessage
}

// Color returns a plain colour value.
func Color(v string) ColorValue { return ColorValue{Value: v} }

// MarshalJSON implements json.Marshaler.
func (c ColorValue) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	return marshalNoEscape(c.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *ColorValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj struct {
			Theme string `json:"theme"`
			Value string `json:"value"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return fmt.Errorf("colour object: %w", err)
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, trimmed); err != nil {
			return err
		}
		*c = ColorValue{Value: obj.Value, Theme: obj.Theme, raw: compact.Bytes()}
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return fmt.Errorf("colour value: %w", err)
	}
	*c = ColorValue{Value: s}
	return nil
}

// LegacyColorConfig is the single-style colour configuration older
// consumers read. It is never rewritten.
type LegacyColorConfig struct {
	Selector string `json:"selector,omitempty"`
	Target   string `json:"target,omitempty"`
}

// AssetRecord is one catalog entry.
type AssetRecord struct {
	Name    string
	Brand   string
	Path    string
	Format  string
	Disable bool
	// Tags is nil when the field is absent from the persisted record.
	Tags []string

	// ColorConfig holds the legacy colorConfig object verbatim.
	ColorConfig json.RawMessage
	Colors      *Colors
	Targets     *Targets
	Sets        *Sets

	// Extra keeps fields this tool does not manage (descriptions, quiz data...).
	Extra map[string]json.RawMessage

	// legacyColors is set when colors were read in the old array form.
	legacyColors bool
}

var knownFields = []string{"name", "brand", "path", "format", "disable", "tags", "colorConfig", "colors", "targets", "sets"}

// Legacy parses the colorConfig field.
func (r *AssetRecord) Legacy() (LegacyColorConfig, bool) {
	var cc LegacyColorConfig
	if len(r.ColorConfig) == 0 || string(r.ColorConfig) == "null" {
		return cc, false
	}
	if err := json.Unmarshal(r.ColorConfig, &cc); err != nil {
		return cc, false
	}
	return cc, cc.Selector != "" || cc.Target != ""
}

// HasSets reports whether the record carries at least one colour set.
func (r *AssetRecord) HasSets() bool { return r.Sets != nil && r.Sets.Len() > 0 }

// HasColors reports whether the record carries at least one colour.
func (r *AssetRecord) HasColors() bool { return r.Colors != nil && r.Colors.Len() > 0 }

// HasTargets reports whether the record carries at least one target.
func (r *AssetRecord) HasTargets() bool { return r.Targets != nil && r.Targets.Len() > 0 }

// SetNames returns set names in persisted order.
func (r *AssetRecord) SetNames() []string {
	if r.Sets == nil {
		return nil
	}
	names := make([]string, 0, r.Sets.Len())
	for pair := r.Sets.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Clone returns a copy whose scalar fields and slices may be changed freely.
// Maps are shared; callers replace rather than mutate them.
func (r *AssetRecord) Clone() *AssetRecord {
	c := *r
	if r.Tags != nil {
		c.Tags = append([]string{}, r.Tags...)
	}
	if r.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// MarshalJSON writes managed fields in a fixed order followed by extra
// fields sorted by key, so repeated writes are byte-identical.
func (r AssetRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, v interface{}) error {
		b, err := marshalNoEscape(v)
		if err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := marshalNoEscape(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(b)
		return nil
	}

	fields := []struct {
		key  string
		val  interface{}
		skip bool
	}{
		{"name", r.Name, false},
		{"brand", r.Brand, r.Brand == ""},
		{"path", r.Path, false},
		{"format", r.Format, r.Format == ""},
		{"disable", r.Disable, false},
		{"tags", r.Tags, r.Tags == nil},
		{"colorConfig", r.ColorConfig, len(r.ColorConfig) == 0},
		{"colors", r.Colors, r.Colors == nil},
		{"targets", r.Targets, r.Targets == nil},
		{"sets", r.Sets, r.Sets == nil},
	}
	for _, f := range fields {
		if f.skip {
			continue
		}
		if err := write(f.key, f.val); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := write(k, r.Extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts both the current and the legacy record layout.
func (r *AssetRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var rec AssetRecord
	str := func(key string, dst *string) error {
		if v, ok := raw[key]; ok {
			if err := json.Unmarshal(v, dst); err != nil {
				return fmt.Errorf("field %s: %w", key, err)
			}
		}
		return nil
	}
	for key, dst := range map[string]*string{"name": &rec.Name, "brand": &rec.Brand, "path": &rec.Path, "format": &rec.Format} {
		if err := str(key, dst); err != nil {
			return err
		}
	}
	if v, ok := raw["disable"]; ok {
		if err := json.Unmarshal(v, &rec.Disable); err != nil {
			return fmt.Errorf("field disable: %w", err)
		}
	}
	if v, ok := raw["tags"]; ok && !isNull(v) {
		rec.Tags = []string{}
		if err := json.Unmarshal(v, &rec.Tags); err != nil {
			return fmt.Errorf("field tags: %w", err)
		}
	}
	if v, ok := raw["colorConfig"]; ok && !isNull(v) {
		var compact bytes.Buffer
		if err := json.Compact(&compact, v); err != nil {
			return fmt.Errorf("field colorConfig: %w", err)
		}
		rec.ColorConfig = compact.Bytes()
	}
	if v, ok := raw["colors"]; ok && !isNull(v) {
		colors, legacy, err := decodeColors(v)
		if err != nil {
			return fmt.Errorf("field colors: %w", err)
		}
		rec.Colors = colors
		rec.legacyColors = legacy
	}
	if v, ok := raw["targets"]; ok && !isNull(v) {
		rec.Targets = NewTargets()
		if err := json.Unmarshal(v, rec.Targets); err != nil {
			return fmt.Errorf("field targets: %w", err)
		}
	}
	if v, ok := raw["sets"]; ok && !isNull(v) {
		rec.Sets = NewSets()
		if err := json.Unmarshal(v, rec.Sets); err != nil {
			return fmt.Errorf("field sets: %w", err)
		}
	}

	for _, k := range knownFields {
		delete(raw, k)
	}
	if len(raw) > 0 {
		rec.Extra = make(map[string]json.RawMessage, len(raw))
		for k, v := range raw {
			var compact bytes.Buffer
			if err := json.Compact(&compact, v); err != nil {
				return fmt.Errorf("field %s: %w", k, err)
			}
			rec.Extra[k] = compact.Bytes()
		}
	}

	*r = rec
	return nil
}

type legacyColor struct {
	Label string          `json:"label"`
	Value json.RawMessage `json:"value"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ColorKey derives a colour key from a legacy label: "Brand Blue" -> "brand_blue".
func ColorKey(label string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(label), "_")
}

func decodeColors(v json.RawMessage) (*Colors, bool, error) {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []legacyColor
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, false, err
		}
		colors := NewColors()
		for _, lc := range list {
			var cv ColorValue
			if len(lc.Value) > 0 {
				if err := cv.UnmarshalJSON(lc.Value); err != nil {
					return nil, false, err
				}
			}
			colors.Set(ColorKey(lc.Label), cv)
		}
		return colors, true, nil
	}
	colors := NewColors()
	if err := json.Unmarshal(trimmed, colors); err != nil {
		return nil, false, err
	}
	return colors, false, nil
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}

// marshalNoEscape encodes v without HTML escaping, matching how the
// gallery tooling has always written these files. Ordered maps escape
// through their own writer, so their output is unescaped afterwards.
func marshalNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return unescapeHTML(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// unescapeHTML turns \u003c, \u003e and \u0026 back into <, > and &.
// Escaped backslashes are consumed in pairs so literal text is untouched.
func unescapeHTML(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u00`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		if b[i+1] == 'u' && i+6 <= len(b) {
			switch strings.ToLower(string(b[i+2 : i+6])) {
			case "003c":
				out = append(out, '<')
				i += 5
				continue
			case "003e":
				out = append(out, '>')
				i += 5
				continue
			case "0026":
				out = append(out, '&')
				i += 5
				continue
			}
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}
