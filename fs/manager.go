// Package fs materializes generated content as files on disk, enforcing
// path safety and idempotent directory creation.
package fs

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Manager wraps an afero filesystem so callers can run against the OS in
// production and a memory filesystem in tests.
type Manager struct {
	fs afero.Fs
}

// NewOsManager creates a Manager backed by the real filesystem.
func NewOsManager() *Manager {
	return &Manager{fs: afero.NewOsFs()}
}

// NewMemManager creates a Manager backed by an in-memory filesystem.
func NewMemManager() *Manager {
	return &Manager{fs: afero.NewMemMapFs()}
}

// NewManager wraps an existing afero filesystem.
func NewManager(fs afero.Fs) *Manager {
	return &Manager{fs: fs}
}

// Fs exposes the underlying filesystem for read access in tests.
func (m *Manager) Fs() afero.Fs { return m.fs }

// Sanitize normalizes a planned relative path: surrounding whitespace and
// leading separators (both styles) are stripped, the path is cleaned, and
// parent-directory segments are dropped so the result can never escape the
// directory it is joined to.
func Sanitize(rel string) string {
	s := strings.TrimSpace(rel)
	s = strings.ReplaceAll(s, "\\", "/")
	for strings.HasPrefix(s, "/") {
		s = strings.TrimPrefix(s, "/")
	}

	parts := strings.Split(s, "/")
	kept := parts[:0]
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		kept = append(kept, p)
	}
	return filepath.Join(kept...)
}

// Write sanitizes rel, creates all intermediate directories under baseDir,
// writes content (overwriting any existing file), and returns the absolute
// path of the written file.
func (m *Manager) Write(baseDir, rel, content string) (string, error) {
	safe := Sanitize(rel)
	if safe == "" {
		return "", fmt.Errorf("empty relative path %q", rel)
	}

	absPath := filepath.Join(baseDir, safe)
	dir := filepath.Dir(absPath)
	if err := m.fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating directory %s: %w", dir, err)
	}

	if err := afero.WriteFile(m.fs, absPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("error writing file %s: %w", absPath, err)
	}
	return absPath, nil
}

// EnsureDir ensures that the specified directory exists.
func (m *Manager) EnsureDir(dir string) error {
	return m.fs.MkdirAll(dir, 0755)
}

// Exists checks whether a file or directory exists.
func (m *Manager) Exists(path string) bool {
	_, err := m.fs.Stat(path)
	return err == nil
}

// IsDir checks if a path is a directory.
func (m *Manager) IsDir(path string) bool {
	info, err := m.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ReadFile returns the contents of a file.
func (m *Manager) ReadFile(path string) (string, error) {
	b, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
