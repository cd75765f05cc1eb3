// Package settings resolves the workspace layout the CLI and managers work
// against: struct defaults overridden by ATELIER_* environment variables,
// validated before use.
package settings

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/atelier-ml/atelier/engine/format"
	"github.com/atelier-ml/atelier/pkg/logger"
)

// EnvPrefix is the prefix of all workspace environment variables, e.g.
// ATELIER_MODELS_ROOT.
const EnvPrefix = "ATELIER_"

// Settings is the resolved workspace configuration.
type Settings struct {
	// DataRoot holds preprocessed datasets.
	DataRoot string `koanf:"data_root" validate:"required"`
	// ModelsRoot holds per-model run directories.
	ModelsRoot string `koanf:"models_root" validate:"required"`
	// AnalysesRoot holds numbered analysis folders.
	AnalysesRoot string `koanf:"analyses_root" validate:"required"`
	// Format is the default document format for new artifacts.
	Format string `koanf:"format" validate:"required,oneof=json yaml json.gz"`
	// LogLevel controls CLI logging.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the settings used when no environment overrides are set:
// a workspace rooted in the current directory.
func Default() *Settings {
	return &Settings{
		DataRoot:     "data",
		ModelsRoot:   "models",
		AnalysesRoot: "analyses",
		Format:       string(format.JSON),
		LogLevel:     string(logger.InfoLevel),
	}
}

// Load resolves the settings: defaults first, then ATELIER_* environment
// variables on top, then validation.
func Load() (*Settings, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load default settings: %w", err)
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment settings: %w", err)
	}
	s := &Settings{}
	if err := k.Unmarshal("", s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// FormatType returns the default format as the format layer's type.
func (s *Settings) FormatType() format.Type {
	return format.Type(s.Format)
}
