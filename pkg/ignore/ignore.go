// Package ignore filters public-tree paths with gitignore-style patterns using go-git.
package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// DefaultPatterns are always excluded from the public tree listing.
var DefaultPatterns = []string{".git/", ".DS_Store", "Thumbs.db"}

// Matcher provides gitignore-based path filtering relative to a root.
type Matcher struct {
	matcher  gitignore.Matcher
	patterns []string
}

// NewMatcher layers patterns from lowest to highest priority:
// 1. DefaultPatterns
// 2. extra (configuration)
// 3. ignoreFile read from the root of fsys, when present
func NewMatcher(fsys billy.Filesystem, ignoreFile string, extra []string) (*Matcher, error) {
	lines := append([]string{}, DefaultPatterns...)
	lines = append(lines, extra...)

	if ignoreFile != "" {
		fileLines, err := readIgnoreFile(fsys, ignoreFile)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fileLines...)
	}

	var patterns []gitignore.Pattern
	var kept []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		kept = append(kept, l)
		patterns = append(patterns, gitignore.ParsePattern(l, nil))
	}

	return &Matcher{matcher: gitignore.NewMatcher(patterns), patterns: kept}, nil
}

// readIgnoreFile reads patterns from a text file; a missing file yields none.
func readIgnoreFile(fsys billy.Filesystem, name string) ([]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ignore file %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ignore file %s: %w", name, err)
	}
	return lines, nil
}

// Patterns returns the effective pattern lines in priority order.
func (m *Matcher) Patterns() []string {
	return append([]string{}, m.patterns...)
}

// Match reports whether a slash-separated path relative to the root is ignored.
func (m *Matcher) Match(rel string, isDir bool) bool {
	parts := splitPath(rel)
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, isDir)
}

// splitPath converts a slash-separated path into components for go-git matching
func splitPath(p string) []string {
	p = strings.Trim(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/")
	if p == "" || p == "." {
		return nil
	}
	return strings.Split(p, "/")
}
