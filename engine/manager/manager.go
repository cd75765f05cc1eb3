// Package manager ties the codec, format and folder layers into the managers
// research code talks to: one per dataset, model run, checkpoint evaluation
// and analysis. Each manager owns a directory and knows which typed documents
// and numbered entries live inside it.
package manager

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/atelier-ml/atelier/engine/config"
	"github.com/atelier-ml/atelier/engine/format"
	"github.com/atelier-ml/atelier/pkg/fsutil"
)

// Options configure a manager. The zero value means OS filesystem, JSON
// documents and the default variant registry.
type Options struct {
	Fs      afero.Fs
	Format  format.Type
	Decoder *config.Decoder
}

func (o Options) normalized() Options {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Format == "" {
		o.Format = format.JSON
	}
	return o
}

// Document is one typed config file at a fixed path. Save encodes through the
// codec; Load decodes with the schema-tolerant policy, so documents written
// by older code round back in with defaults filled.
type Document[T any] struct {
	fs         afero.Fs
	path       string
	formatType format.Type
	decoder    *config.Decoder
}

func NewDocument[T any](path string, opts Options) *Document[T] {
	opts = opts.normalized()
	return &Document[T]{
		fs:         opts.Fs,
		path:       path,
		formatType: opts.Format,
		decoder:    opts.Decoder,
	}
}

func (d *Document[T]) Path() string {
	return fsutil.EnsureExt(d.path, d.formatType.Ext())
}

func (d *Document[T]) Exists() (bool, error) {
	return fsutil.Exists(d.fs, d.Path())
}

// Save writes the config. Rewriting a YAML document carries the previous
// version's comments over, so hand annotations survive programmatic updates.
func (d *Document[T]) Save(cfg *T) error {
	tree, err := config.Encode(cfg)
	if err != nil {
		return err
	}
	if d.formatType == format.YAML {
		if original, err := afero.ReadFile(d.fs, d.Path()); err == nil {
			updated, err := format.UpdateYAML(original, tree)
			if err == nil {
				return afero.WriteFile(d.fs, d.Path(), updated, 0o644)
			}
		}
	}
	return format.Save(d.fs, d.path, d.formatType, tree)
}

func (d *Document[T]) Load() (*T, error) {
	tree, err := format.Load(d.fs, d.path, d.formatType)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if d.decoder != nil {
		err = d.decoder.Decode(tree, out)
	} else {
		err = config.Decode(tree, out)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func docPath(location, name string) string {
	return filepath.Join(location, name)
}
