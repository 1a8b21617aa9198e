// Package vfs defines the virtual file-system capability injected into the
// module resolver: the core never touches a real filesystem directly.
package vfs

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/slices"
)

// FS is the capability the resolver depends on.
type FS interface {
	ReadFile(path string) ([]byte, error)
	Exists(path string) bool
	IsFile(path string) bool
}

// NotFoundError is returned by ReadFile when path does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("file not found: %s", e.Path) }

// Memory is an in-memory FS implementation, used by tests and by any host
// that wants to embed source files without touching disk.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemory creates an empty in-memory file system, optionally seeded with
// the given path -> contents pairs.
func NewMemory(seed map[string]string) *Memory {
	m := &Memory{files: make(map[string][]byte)}
	for path, content := range seed {
		m.files[normalize(path)] = []byte(content)
	}
	return m
}

func normalize(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// WriteFile stores content at path, overwriting any existing content.
func (m *Memory) WriteFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[normalize(path)] = content
}

func (m *Memory) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.files[normalize(path)]
	if !ok {
		return nil, &NotFoundError{Path: path}
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

func (m *Memory) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[normalize(path)]
	return ok
}

func (m *Memory) IsFile(path string) bool {
	return m.Exists(path)
}

// Paths returns all stored paths, sorted, mostly useful for debugging/tests.
func (m *Memory) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
