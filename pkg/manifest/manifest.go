// Package manifest lists the published tree for offline-cache registration.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/brandkit/pkg/ignore"
	"github.com/fulmenhq/brandkit/pkg/logger"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

const (
	// DefaultFile is the manifest written at the root of the public tree.
	DefaultFile = "pwa-files-to-cache.json"
	// DefaultEntryPoint is the offline-cache script, never listed in its own manifest.
	DefaultEntryPoint = "sw.js"
)

// DefaultExclude holds the housekeeping files left out of every manifest.
var DefaultExclude = []string{"**/.DS_Store", "**/CNAME", "**/.gitignore"}

// Source is a tree whose files are published under URLPrefix.
type Source struct {
	FS        billy.Filesystem
	URLPrefix string
}

// Options configures a Builder.
type Options struct {
	File       string
	EntryPoint string
	IgnoreFile string
	Exclude    []string
	// Extra trees listed after the public tree.
	Extra []Source
}

// Builder enumerates the public tree.
type Builder struct {
	public  billy.Filesystem
	opts    Options
	matcher *ignore.Matcher
}

// Result describes one build.
type Result struct {
	File    string   `json:"file"`
	Entries []string `json:"entries"`
	Changed bool     `json:"changed"`
}

// New returns a Builder over the public filesystem.
func New(public billy.Filesystem, opts Options) (*Builder, error) {
	if opts.File == "" {
		opts.File = DefaultFile
	}
	if opts.EntryPoint == "" {
		opts.EntryPoint = DefaultEntryPoint
	}
	if opts.Exclude == nil {
		opts.Exclude = DefaultExclude
	}
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	m, err := ignore.NewMatcher(public, opts.IgnoreFile, nil)
	if err != nil {
		return nil, err
	}
	return &Builder{public: public, opts: opts, matcher: m}, nil
}

// Collect lists every file as a root-relative URL ("/images/logos/acme.svg")
// in lexical depth-first order with duplicates removed.
func (b *Builder) Collect() ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	add := func(url string) {
		if _, ok := seen[url]; ok {
			return
		}
		seen[url] = struct{}{}
		out = append(out, url)
	}

	err := b.walk(b.public, func(rel string) {
		// the entry point and manifest are left out at any depth
		if base := path.Base(rel); base == path.Base(b.opts.EntryPoint) || base == path.Base(b.opts.File) {
			return
		}
		add("/" + rel)
	}, true)
	if err != nil {
		return nil, err
	}

	for _, src := range b.opts.Extra {
		prefix := strings.Trim(src.URLPrefix, "/")
		err := b.walk(src.FS, func(rel string) {
			add("/" + path.Join(prefix, rel))
		}, false)
		if err != nil {
			return nil, err
		}
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (b *Builder) walk(fsys billy.Filesystem, visit func(rel string), filtered bool) error {
	return util.Walk(fsys, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		rel := strings.TrimPrefix(filepath.ToSlash(p), "/")
		if rel == "" {
			return nil
		}
		if filtered && b.excluded(rel, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() {
			visit(rel)
		}
		return nil
	})
}

func (b *Builder) excluded(rel string, isDir bool) bool {
	if b.matcher.Match(rel, isDir) {
		return true
	}
	for _, p := range b.opts.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Encode renders the manifest as a pretty-printed JSON array.
func Encode(entries []string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Build collects the tree and writes the manifest file unless noOp is set.
func (b *Builder) Build(noOp bool) (*Result, error) {
	entries, err := b.Collect()
	if err != nil {
		return nil, fmt.Errorf("list public tree: %w", err)
	}
	res := &Result{File: b.opts.File, Entries: entries}

	data, err := Encode(entries)
	if err != nil {
		return nil, err
	}
	current, readErr := util.ReadFile(b.public, b.opts.File)
	res.Changed = readErr != nil || !bytes.Equal(current, data)
	if noOp || !res.Changed {
		return res, nil
	}
	if err := util.WriteFile(b.public, b.opts.File, data, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest %s: %w", b.opts.File, err)
	}
	logger.Info("Cache manifest written", logger.String("file", b.opts.File), logger.Int("entries", len(entries)))
	return res, nil
}
