package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/brandkit/pkg/logger"
	"github.com/fulmenhq/brandkit/pkg/safeio"
)

// LoadStatus describes what Load found on disk.
type LoadStatus int

const (
	// Loaded means the file existed and parsed.
	Loaded LoadStatus = iota
	// Absent means there was no metadata file yet.
	Absent
	// Corrupt means the file existed but could not be parsed; the catalog was reset.
	Corrupt
)

func (s LoadStatus) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Absent:
		return "absent"
	case Corrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Load reads a metadata file. Absent and unparsable files both yield an
// empty catalog; only I/O failures other than "not found" are errors.
func Load(path string) ([]*AssetRecord, LoadStatus, error) {
	// #nosec G304 -- path comes from the collection registry
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*AssetRecord{}, Absent, nil
		}
		return nil, Absent, fmt.Errorf("read metadata file %s: %w", path, err)
	}

	records, err := Decode(data)
	if err != nil {
		logger.Warn("Could not parse existing metadata file; starting from an empty catalog",
			logger.String("file", path), logger.Err(err))
		return []*AssetRecord{}, Corrupt, nil
	}
	return records, Loaded, nil
}

// Decode parses a metadata document.
func Decode(data []byte) ([]*AssetRecord, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty metadata document")
	}
	var records []*AssetRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	out := make([]*AssetRecord, 0, len(records))
	for i, r := range records {
		if r == nil {
			return nil, fmt.Errorf("entry %d is null", i)
		}
		out = append(out, r)
	}
	return out, nil
}

// Encode renders records as a pretty-printed JSON array with a trailing newline.
func Encode(records []*AssetRecord) ([]byte, error) {
	if records == nil {
		records = []*AssetRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes records to path, creating parent directories. It reports
// whether the file content changed.
func Save(path string, records []*AssetRecord) (bool, error) {
	data, err := Encode(records)
	if err != nil {
		return false, err
	}
	if err := safeio.EnsureDir(filepath.Dir(path)); err != nil {
		return false, err
	}
	changed, err := safeio.WriteFileIfChanged(path, data)
	if err != nil {
		return false, fmt.Errorf("write metadata file %s: %w", path, err)
	}
	return changed, nil
}
