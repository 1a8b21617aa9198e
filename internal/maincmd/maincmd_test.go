package maincmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaubo-lang/kaubo/internal/maincmd"
	"github.com/kaubo-lang/kaubo/internal/vfs"
	"github.com/kaubo-lang/kaubo/lang/value"
)

func newStdio() (mainer.Stdio, *bytes.Buffer, *bytes.Buffer) {
	var out, errb bytes.Buffer
	return mainer.Stdio{Stdout: &out, Stderr: &errb}, &out, &errb
}

func TestPipelineCompileEntry(t *testing.T) {
	fs := vfs.NewMemory(map[string]string{
		"/main.kaubo": `pub var answer = 1 + 2 * 3;`,
	})
	p := maincmd.NewPipeline(fs, nil)
	units, err := p.CompileEntry(value.NewHeap(), "main")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "main", units[0].ModuleID)
	assert.NotEmpty(t, units[0].Exports)
}

func TestPipelineRunExecutesEveryModule(t *testing.T) {
	fs := vfs.NewMemory(map[string]string{
		"/main.kaubo": `var x = 1 + 1; print x;`,
	})
	p := maincmd.NewPipeline(fs, nil)
	var stdout bytes.Buffer
	_, units, err := p.Run("main", &stdout)
	require.NoError(t, err)
	assert.Len(t, units, 1)
	assert.Equal(t, "2\n", stdout.String())
}

func TestPipelineRunReportsRuntimeError(t *testing.T) {
	fs := vfs.NewMemory(map[string]string{
		"/main.kaubo": `var x = 1 / 0;`,
	})
	p := maincmd.NewPipeline(fs, nil)
	var stdout bytes.Buffer
	_, _, err := p.Run("main", &stdout)
	assert.Error(t, err)
}

func TestResolveProjectPrintsModulesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir, `{"name": "demo", "entry": "main.kaubo"}`, `var x = 1;`)

	stdio, out, _ := newStdio()
	err := maincmd.ResolveProject(stdio, dir)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "main")
}

func TestCheckFilePrintsNoWarningsForCleanSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.kaubo")
	require.NoError(t, os.WriteFile(path, []byte(`var x = 1;`), 0o644))

	stdio, out, _ := newStdio()
	err := maincmd.CheckFile(stdio, path)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "no warnings")
}

func TestParseFilePrintsAST(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.kaubo")
	require.NoError(t, os.WriteFile(path, []byte(`var x = 1;`), 0o644))

	stdio, out, _ := newStdio()
	err := maincmd.ParseFile(stdio, path)
	require.NoError(t, err)
	assert.NotEmpty(t, out.String())
}

func TestParseFileReportsSyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.kaubo")
	require.NoError(t, os.WriteFile(path, []byte(`var x = ;`), 0o644))

	stdio, _, errb := newStdio()
	err := maincmd.ParseFile(stdio, path)
	assert.Error(t, err)
	assert.NotEmpty(t, errb.String())
}

func TestTokenizeFilePrintsTokens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.kaubo")
	require.NoError(t, os.WriteFile(path, []byte(`var x = 1;`), 0o644))

	stdio, out, _ := newStdio()
	err := maincmd.TokenizeFile(stdio, path)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "var")
}

func TestBuildProjectEmitsBinary(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir, `{"name": "demo", "entry": "main.kaubo"}`, `pub var answer = 42;`)

	stdio, out, _ := newStdio()
	err := maincmd.BuildProject(stdio, dir, false, true)
	require.NoError(t, err)
	assert.Contains(t, out.String(), ".kaubod")

	_, statErr := os.Stat(filepath.Join(dir, "main.kaubod"))
	assert.NoError(t, statErr)
}

func TestCmdMainDispatchesRunCommand(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir, `{"name": "demo", "entry": "main.kaubo"}`, `print "hi";`)

	stdio, out, _ := newStdio()
	c := maincmd.Cmd{}
	code := c.Main([]string{"kaubo", "run", dir}, stdio)
	assert.Equal(t, mainer.Success, code)
	assert.Equal(t, "hi\n", out.String())
}

func TestCmdMainRejectsUnknownCommand(t *testing.T) {
	stdio, _, errb := newStdio()
	c := maincmd.Cmd{}
	code := c.Main([]string{"kaubo", "bogus"}, stdio)
	assert.Equal(t, mainer.InvalidArgs, code)
	assert.NotEmpty(t, errb.String())
}

func TestCmdMainVersion(t *testing.T) {
	stdio, out, _ := newStdio()
	c := maincmd.Cmd{BuildVersion: "1.0.0", BuildDate: "2026-01-01"}
	code := c.Main([]string{"kaubo", "--version"}, stdio)
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "1.0.0")
}

func writeProject(t *testing.T, dir, manifestJSON, entrySource string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifestJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.kaubo"), []byte(entrySource), 0o644))
}
