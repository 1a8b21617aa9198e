package resolver_test

import (
	"testing"

	"github.com/kaubo-lang/kaubo/internal/vfs"
	"github.com/kaubo-lang/kaubo/lang/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEntryTopologicalOrder(t *testing.T) {
	fs := vfs.NewMemory(map[string]string{
		"/a.kaubo": `import b; var x = 1;`,
		"/b.kaubo": `var y = 2;`,
	})
	r := resolver.New(fs)
	units, err := r.ResolveEntry("a")
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "b", units[0].ModuleID)
	assert.Equal(t, "a", units[1].ModuleID)
}

func TestResolveEntryDetectsCycle(t *testing.T) {
	fs := vfs.NewMemory(map[string]string{
		"/a.kaubo": `import b;`,
		"/b.kaubo": `import a;`,
	})
	r := resolver.New(fs)
	_, err := r.ResolveEntry("a")
	require.Error(t, err)
	var cerr *resolver.CircularDependencyError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, []string{"a", "b", "a"}, cerr.Chain)
}

func TestResolveEntrySkipsStdImports(t *testing.T) {
	fs := vfs.NewMemory(map[string]string{
		"/a.kaubo": `import std; import std.math; var x = 1;`,
	})
	r := resolver.New(fs)
	units, err := r.ResolveEntry("a")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "a", units[0].ModuleID)
}

func TestResolveEntryNotFound(t *testing.T) {
	fs := vfs.NewMemory(map[string]string{
		"/a.kaubo": `import missing;`,
	})
	r := resolver.New(fs)
	_, err := r.ResolveEntry("a")
	require.Error(t, err)
	var nf *resolver.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ImportPath)
}

func TestResolveEntryCachesSharedDependency(t *testing.T) {
	// a and b both import c; c must appear exactly once, before both.
	fs := vfs.NewMemory(map[string]string{
		"/a.kaubo": `import c; import b;`,
		"/b.kaubo": `import c;`,
		"/c.kaubo": `var z = 1;`,
	})
	r := resolver.New(fs)
	units, err := r.ResolveEntry("a")
	require.NoError(t, err)
	ids := make([]string, len(units))
	for i, u := range units {
		ids[i] = u.ModuleID
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)
}
