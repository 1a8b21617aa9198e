// Package manifest reads a Kaubo project's package.json-style manifest
// (name, version, entry module, compiler flags) and overlays it with
// environment variables and an optional local-dev tools config, mirroring
// kaubo-config/lib.rs's config vocabulary from the original implementation.
package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/kaubo-lang/kaubo/internal/vfs"
)

// CompilerOptions mirrors the original's CompilerConfig/LimitConfig/
// LexerConfig/VmConfig grouping, flattened into the fields a Kaubo
// manifest actually exposes under "compiler".
type CompilerOptions struct {
	EmitDebugInfo   bool `json:"emitDebugInfo"`
	MaxStackSize    int  `json:"maxStackSize"`
	MaxRecursion    int  `json:"maxRecursionDepth"`
	InlineCacheSize int  `json:"inlineCacheSize"`
}

func defaultCompilerOptions() CompilerOptions {
	return CompilerOptions{
		EmitDebugInfo:   true,
		MaxStackSize:    10240,
		MaxRecursion:    256,
		InlineCacheSize: 64,
	}
}

// Manifest is the decoded contents of a project's package.json.
type Manifest struct {
	Name     string          `json:"name"`
	Version  string          `json:"version"`
	Entry    string          `json:"entry"`
	Compiler CompilerOptions `json:"compiler"`
}

// Load reads and decodes the manifest at path from fs, filling in default
// compiler options for any field the file omits.
func Load(fs vfs.FS, path string) (*Manifest, error) {
	raw, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := &Manifest{Compiler: defaultCompilerOptions()}
	if err := json.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("manifest: parsing %s: %w", path, err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("manifest: %s: missing required field %q", path, "name")
	}
	if m.Entry == "" {
		m.Entry = "main.kaubo"
	}
	return m, nil
}
