// Package format implements the text-format adapters configs and artifacts
// persist through. JSON is the machine-leaning format, YAML the edit-oriented
// one (comments survive a rewrite where feasible), and gzip-JSON covers bulky
// artifacts like dataset statistics.
package format

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/atelier-ml/atelier/engine/core"
	"github.com/atelier-ml/atelier/pkg/fsutil"
)

// ErrCodeMalformed marks parse failures of a persisted document.
const ErrCodeMalformed = "MALFORMED"

// Adapter converts between raw document bytes and the tree form the codec
// works on.
type Adapter interface {
	Parse(data []byte) (map[string]any, error)
	Render(tree map[string]any) ([]byte, error)
}

// Type selects one of the supported on-disk formats.
type Type string

const (
	JSON     Type = "json"
	YAML     Type = "yaml"
	GzipJSON Type = "json.gz"
)

// Ext returns the file extension (without leading dot) for the format.
func (t Type) Ext() string {
	return string(t)
}

func (t Type) Adapter() (Adapter, error) {
	switch t {
	case JSON:
		return jsonAdapter{}, nil
	case YAML:
		return yamlAdapter{}, nil
	case GzipJSON:
		return gzipJSONAdapter{}, nil
	default:
		return nil, fmt.Errorf("unknown format type: %s", t)
	}
}

// TypeFromExt infers the format from a file path. ".yml" maps to YAML.
func TypeFromExt(path string) (Type, error) {
	switch {
	case strings.HasSuffix(path, ".json.gz"):
		return GzipJSON, nil
	case strings.HasSuffix(path, ".json"):
		return JSON, nil
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return YAML, nil
	default:
		return "", fmt.Errorf("cannot infer format from path: %s", path)
	}
}

// Save renders the tree and writes it at path, appending the format's
// extension if absent and creating parent directories.
func Save(fs afero.Fs, path string, t Type, tree map[string]any) error {
	adapter, err := t.Adapter()
	if err != nil {
		return err
	}
	data, err := adapter.Render(tree)
	if err != nil {
		return err
	}
	path = fsutil.EnsureExt(path, t.Ext())
	if err := fsutil.EnsureDirForFile(fs, path); err != nil {
		return err
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Load reads and parses the document at path, appending the format's
// extension if absent. YAML falls back from ".yaml" to ".yml" when the
// former does not exist.
func Load(fs afero.Fs, path string, t Type) (map[string]any, error) {
	adapter, err := t.Adapter()
	if err != nil {
		return nil, err
	}
	fullPath := fsutil.EnsureExt(path, t.Ext())
	if t == YAML {
		if exists, _ := afero.Exists(fs, fullPath); !exists {
			alt := strings.TrimSuffix(fullPath, ".yaml") + ".yml"
			if exists, _ := afero.Exists(fs, alt); exists {
				fullPath = alt
			}
		}
	}
	data, err := afero.ReadFile(fs, fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fullPath, err)
	}
	tree, err := adapter.Parse(data)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func newMalformedError(err error, format Type) error {
	return core.NewError(err, ErrCodeMalformed, map[string]any{
		"format": string(format),
	})
}
