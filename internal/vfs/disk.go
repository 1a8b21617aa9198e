package vfs

import (
	"errors"
	"os"
	"path/filepath"
)

// Disk is an FS backed by a real directory tree, used by the CLI (never
// by the core itself, which only ever sees the FS interface). Paths are
// resolver-style ("/foo/bar.kaubo") and are joined onto Root after
// stripping the leading slash.
type Disk struct {
	Root string
}

// NewDisk creates a Disk rooted at root.
func NewDisk(root string) *Disk {
	return &Disk{Root: root}
}

func (d *Disk) join(path string) string {
	return filepath.Join(d.Root, filepath.FromSlash(normalize(path)))
}

func (d *Disk) ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(d.join(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, err
	}
	return b, nil
}

func (d *Disk) Exists(path string) bool {
	_, err := os.Stat(d.join(path))
	return err == nil
}

func (d *Disk) IsFile(path string) bool {
	info, err := os.Stat(d.join(path))
	return err == nil && !info.IsDir()
}
