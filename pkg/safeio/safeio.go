package safeio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.ToSlash(filepath.Clean(p))
	for _, seg := range strings.Split(c, "/") {
		if seg == ".." {
			return "", errors.New("path traversal detected")
		}
	}
	return c, nil
}

// ReadFileContained reads a file only if it is contained within baseDir.
// Returns an error if the file is outside baseDir or cannot be read.
func ReadFileContained(baseDir, filePath string) ([]byte, error) {
	baseDirAbs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.New("failed to resolve base directory")
	}
	filePathAbs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, errors.New("failed to resolve file path")
	}

	rel, err := filepath.Rel(baseDirAbs, filePathAbs)
	if err != nil {
		return nil, errors.New("failed to compute relative path")
	}

	if strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return nil, errors.New("file path is outside base directory")
	}

	// #nosec G304 -- filePathAbs has been verified to be contained within baseDirAbs
	return os.ReadFile(filePathAbs)
}

// WriteFilePreservePerms writes data to path preserving existing file mode when possible.
// When the file does not exist, it uses a sane default of 0644.
func WriteFilePreservePerms(path string, data []byte) error {
	var mode os.FileMode = 0o644
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode() & 0o777
		if mode == 0 {
			mode = 0o644
		}
	}
	return os.WriteFile(path, data, mode)
}

// WriteFileIfChanged writes data only when the current content differs.
// It reports whether a write happened.
func WriteFileIfChanged(path string, data []byte) (bool, error) {
	// #nosec G304 -- callers pass paths derived from configured directories
	if current, err := os.ReadFile(path); err == nil && bytes.Equal(current, data) {
		return false, nil
	}
	if err := WriteFilePreservePerms(path, data); err != nil {
		return false, err
	}
	return true, nil
}

// EnsureDir creates dir (and parents) when missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// CleanDir removes every entry of dir except the names listed in keep.
// A missing dir is created. Returns the number of removed entries.
func CleanDir(dir string, keep []string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, EnsureDir(dir)
		}
		return 0, fmt.Errorf("read directory %s: %w", dir, err)
	}

	keepSet := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		keepSet[k] = struct{}{}
	}

	removed := 0
	for _, entry := range entries {
		if _, ok := keepSet[entry.Name()]; ok {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}
