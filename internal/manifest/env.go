package manifest

import (
	"fmt"

	"github.com/caarlos0/env/v6"

	"github.com/kaubo-lang/kaubo/internal/logging"
)

// EnvOverlay holds the environment-variable overrides a host process may
// set to adjust compiler/runtime behavior without touching the manifest
// file, named after the original's KAUBO_LOG_LEVEL/KAUBO_MODE knobs.
type EnvOverlay struct {
	LogLevel string `env:"KAUBO_LOG_LEVEL" envDefault:"warn"`
	Mode     string `env:"KAUBO_MODE" envDefault:"release"`
}

// LoadEnvOverlay parses the current process environment into an
// EnvOverlay, applying the documented defaults for any unset variable.
func LoadEnvOverlay() (*EnvOverlay, error) {
	var o EnvOverlay
	if err := env.Parse(&o); err != nil {
		return nil, fmt.Errorf("manifest: reading environment: %w", err)
	}
	return &o, nil
}

// LogLevelValue maps the overlay's string level to a logging.Level,
// falling back to Warn for an unrecognized value rather than failing
// startup over a typo'd env var.
func (o *EnvOverlay) LogLevelValue() logging.Level {
	switch o.LogLevel {
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
		return logging.Warn
	}
}

// IsDebugMode reports whether KAUBO_MODE requests debug-mode compilation
// (emit debug info, disable release-only optimizations), per the
// manifest's compiler.emitDebugInfo default.
func (o *EnvOverlay) IsDebugMode() bool {
	return o.Mode == "debug"
}

// Apply overlays env-sourced overrides onto a manifest's compiler options.
// The manifest file is the baseline. Only KAUBO_MODE=debug changes it, by
// forcing EmitDebugInfo on; any other mode and the log level leave the
// manifest untouched.
func (o *EnvOverlay) Apply(m *Manifest) {
	if o.IsDebugMode() {
		m.Compiler.EmitDebugInfo = true
	}
}
