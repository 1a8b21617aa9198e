package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kaubo-lang/kaubo/internal/logging"
	"github.com/kaubo-lang/kaubo/internal/vfs"
)

// ToolsConfig is an optional sibling file (kaubo.tools.yaml) for local-dev
// overrides that don't belong in a committed package.json: per-component
// log levels and where log output goes. Grounded on the original's
// LoggingConfig/LogTargets split (kaubo-config/src/lib.rs), adapted from
// JSON-serde to YAML since this file is meant to be hand-edited.
type ToolsConfig struct {
	Logging struct {
		Level   string `yaml:"level"`
		Targets struct {
			Lexer    string `yaml:"lexer"`
			Parser   string `yaml:"parser"`
			Compiler string `yaml:"compiler"`
			VM       string `yaml:"vm"`
		} `yaml:"targets"`
	} `yaml:"logging"`
}

// LoadToolsConfig reads kaubo.tools.yaml at path from fs. A missing file
// is not an error: it returns a zero-value ToolsConfig so callers can
// treat "no local overrides" and "empty overrides" identically.
func LoadToolsConfig(fs vfs.FS, path string) (*ToolsConfig, error) {
	if !fs.Exists(path) {
		return &ToolsConfig{}, nil
	}
	raw, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c ToolsConfig
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("manifest: parsing %s: %w", path, err)
	}
	return &c, nil
}

func parseLevel(s string, fallback logging.Level) logging.Level {
	switch s {
	case "trace":
		return logging.Trace
	case "debug":
		return logging.Debug
	case "info":
		return logging.Info
	case "warn":
		return logging.Warn
	case "error":
		return logging.Error
	default:
		return fallback
	}
}

// Level returns the configured global log level, or fallback if unset.
func (c *ToolsConfig) Level(fallback logging.Level) logging.Level {
	return parseLevel(c.Logging.Level, fallback)
}
