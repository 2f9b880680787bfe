package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// History is the flat, append-only sensor history file.
type History struct {
	path string

	// serialises appends from the logger; readers never take it.
	mu sync.Mutex
}

// NewHistory returns a History backed by the file at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Path returns the file location.
func (h *History) Path() string {
	return h.path
}

// Read returns the whole file content. A missing file yields ErrNotFound and
// a file with only whitespace yields ErrEmpty.
func (h *History) Read() (string, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", h.path, ErrNotFound)
		}
		return "", fmt.Errorf("read history %s: %w", h.path, err)
	}

	content := string(data)
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%s: %w", h.path, ErrEmpty)
	}
	return content, nil
}

// Reset truncates the history file to zero length.
func (h *History) Reset() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("reset history %s: %w", h.path, err)
	}
	return f.Close()
}

// Append adds entry to the end of the file, creating it if needed.
func (h *History) Append(entry string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if dir := filepath.Dir(h.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history dir: %w", err)
		}
	}

	f, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open history %s: %w", h.path, err)
	}
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return fmt.Errorf("append history %s: %w", h.path, err)
	}
	return f.Close()
}
