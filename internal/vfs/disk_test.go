package vfs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaubo-lang/kaubo/internal/vfs"
)

func TestDiskReadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.kaubo"), []byte("var x = 1;"), 0o644))

	d := vfs.NewDisk(dir)
	assert.True(t, d.Exists("/main.kaubo"))
	assert.True(t, d.IsFile("/main.kaubo"))

	b, err := d.ReadFile("/main.kaubo")
	require.NoError(t, err)
	assert.Equal(t, "var x = 1;", string(b))
}

func TestDiskReadFileNotFound(t *testing.T) {
	d := vfs.NewDisk(t.TempDir())
	_, err := d.ReadFile("/missing.kaubo")
	require.Error(t, err)
	var nf *vfs.NotFoundError
	require.ErrorAs(t, err, &nf)
}
