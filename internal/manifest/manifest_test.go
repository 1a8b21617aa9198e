package manifest_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaubo-lang/kaubo/internal/manifest"
	"github.com/kaubo-lang/kaubo/internal/vfs"
)

func TestLoadManifestFillsDefaults(t *testing.T) {
	fs := vfs.NewMemory(map[string]string{
		"package.json": `{"name": "demo", "version": "0.1.0"}`,
	})
	m, err := manifest.Load(fs, "package.json")
	require.NoError(t, err)
	assert.Equal(t, "demo", m.Name)
	assert.Equal(t, "main.kaubo", m.Entry)
	assert.True(t, m.Compiler.EmitDebugInfo)
	assert.Equal(t, 10240, m.Compiler.MaxStackSize)
}

func TestLoadManifestHonorsExplicitCompilerOptions(t *testing.T) {
	fs := vfs.NewMemory(map[string]string{
		"package.json": `{"name": "demo", "entry": "app.kaubo", "compiler": {"maxStackSize": 4096}}`,
	})
	m, err := manifest.Load(fs, "package.json")
	require.NoError(t, err)
	assert.Equal(t, "app.kaubo", m.Entry)
	assert.Equal(t, 4096, m.Compiler.MaxStackSize)
	assert.True(t, m.Compiler.EmitDebugInfo, "unspecified fields keep their default")
}

func TestLoadManifestRequiresName(t *testing.T) {
	fs := vfs.NewMemory(map[string]string{"package.json": `{}`})
	_, err := manifest.Load(fs, "package.json")
	require.Error(t, err)
}

func TestEnvOverlayDefaults(t *testing.T) {
	os.Unsetenv("KAUBO_LOG_LEVEL")
	os.Unsetenv("KAUBO_MODE")
	o, err := manifest.LoadEnvOverlay()
	require.NoError(t, err)
	assert.False(t, o.IsDebugMode())
}

func TestEnvOverlayAppliesDebugMode(t *testing.T) {
	t.Setenv("KAUBO_MODE", "debug")
	o, err := manifest.LoadEnvOverlay()
	require.NoError(t, err)
	m := &manifest.Manifest{}
	o.Apply(m)
	assert.True(t, m.Compiler.EmitDebugInfo)
}

func TestLoadToolsConfigMissingFileIsNotError(t *testing.T) {
	fs := vfs.NewMemory(nil)
	c, err := manifest.LoadToolsConfig(fs, "kaubo.tools.yaml")
	require.NoError(t, err)
	assert.Equal(t, "", c.Logging.Level)
}

func TestLoadToolsConfigParsesYAML(t *testing.T) {
	fs := vfs.NewMemory(map[string]string{
		"kaubo.tools.yaml": "logging:\n  level: debug\n  targets:\n    vm: trace\n",
	})
	c, err := manifest.LoadToolsConfig(fs, "kaubo.tools.yaml")
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "trace", c.Logging.Targets.VM)
}
