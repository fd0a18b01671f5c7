// Package scanner lists the asset files of a collection's source directory.
package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/brandkit/pkg/logger"
)

// VectorExtension is the only format the markup stages operate on.
const VectorExtension = "svg"

// Result is the outcome of scanning one directory.
type Result struct {
	Dir string
	// Files holds accepted file names (no directory part), sorted.
	Files []string
	// Skipped holds regular files that did not match an accepted extension.
	Skipped []string
	// Missing is set when Dir does not exist; Files is then empty.
	Missing bool
}

// Contains reports whether name was found.
func (r Result) Contains(name string) bool {
	i := sort.SearchStrings(r.Files, name)
	return i < len(r.Files) && r.Files[i] == name
}

// Vectors returns the accepted files in vector form.
func (r Result) Vectors() []string {
	var out []string
	for _, f := range r.Files {
		if IsVector(f) {
			out = append(out, f)
		}
	}
	return out
}

// Scanner matches directory entries against accepted extensions.
type Scanner struct {
	pattern string
}

// New creates a scanner accepting the given extensions (case-insensitive, no dot).
func New(extensions []string) *Scanner {
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			exts = append(exts, e)
		}
	}
	return &Scanner{pattern: "*.{" + strings.Join(exts, ",") + "}"}
}

// Accepts reports whether name has an accepted extension.
func (s *Scanner) Accepts(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ok, err := doublestar.Match(s.pattern, strings.ToLower(name))
	return err == nil && ok
}

// Scan lists dir. A missing directory is not an error: it yields an empty,
// Missing result and a warning so other collections keep going.
func (s *Scanner) Scan(dir string) (Result, error) {
	res := Result{Dir: dir}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Source directory does not exist", logger.String("dir", dir))
			res.Missing = true
			return res, nil
		}
		return res, fmt.Errorf("read source directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if s.Accepts(name) {
			res.Files = append(res.Files, name)
		} else {
			res.Skipped = append(res.Skipped, name)
		}
	}
	sort.Strings(res.Files)
	sort.Strings(res.Skipped)

	logger.Debug("Scanned source directory",
		logger.String("dir", dir),
		logger.Int("accepted", len(res.Files)),
		logger.Int("skipped", len(res.Skipped)))
	return res, nil
}

// IsVector reports whether name is a vector asset.
func IsVector(name string) bool {
	return strings.EqualFold(strings.TrimPrefix(filepath.Ext(name), "."), VectorExtension)
}

// BaseName strips the directory and extension from name.
func BaseName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FormatTag returns the upper-cased extension of name without the dot.
func FormatTag(name string) string {
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(name), "."))
}
