package manager

import (
	"strings"

	"github.com/atelier-ml/atelier/engine/folder"
	"github.com/atelier-ml/atelier/pkg/fsutil"
)

// configSuffix distinguishes an evaluation's config document from its result
// document: "accuracy_config.json" next to "accuracy.json".
const configSuffix = "_config"

// EvaluationManager owns the evaluations of one checkpoint. Each evaluation
// is a named pair of documents: the config it was run with and the result it
// produced.
type EvaluationManager[EC, ER any] struct {
	opts   Options
	folder *folder.Folder
}

func NewEvaluationManager[EC, ER any](location string, opts Options) *EvaluationManager[EC, ER] {
	opts = opts.normalized()
	return &EvaluationManager[EC, ER]{
		opts:   opts,
		folder: folder.New(opts.Fs, location),
	}
}

func (m *EvaluationManager[EC, ER]) Location() string {
	return m.folder.Location()
}

// Save writes the config/result pair of one evaluation.
func (m *EvaluationManager[EC, ER]) Save(name string, cfg *EC, result *ER) error {
	if err := m.configDoc(name).Save(cfg); err != nil {
		return err
	}
	return m.resultDoc(name).Save(result)
}

func (m *EvaluationManager[EC, ER]) LoadConfig(name string) (*EC, error) {
	return m.configDoc(name).Load()
}

func (m *EvaluationManager[EC, ER]) LoadResult(name string) (*ER, error) {
	return m.resultDoc(name).Load()
}

func (m *EvaluationManager[EC, ER]) Exists(name string) (bool, error) {
	return m.resultDoc(name).Exists()
}

// List returns the evaluation names present, derived from the result
// documents.
func (m *EvaluationManager[EC, ER]) List() ([]string, error) {
	isDir, err := fsutil.IsDir(m.opts.Fs, m.Location())
	if err != nil || !isDir {
		return nil, nil
	}
	entries, err := m.folder.Ls()
	if err != nil {
		return nil, err
	}
	suffix := "." + m.opts.Format.Ext()
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !strings.HasSuffix(entry, suffix) {
			continue
		}
		name := strings.TrimSuffix(entry, suffix)
		if strings.HasSuffix(name, configSuffix) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Delete removes an evaluation's config and result documents.
func (m *EvaluationManager[EC, ER]) Delete(name string) error {
	ext := m.opts.Format.Ext()
	for _, base := range []string{name + configSuffix, name} {
		path := fsutil.EnsureExt(docPath(m.Location(), base), ext)
		exists, err := fsutil.Exists(m.opts.Fs, path)
		if err != nil {
			return err
		}
		if exists {
			if err := m.opts.Fs.Remove(path); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *EvaluationManager[EC, ER]) configDoc(name string) *Document[EC] {
	return NewDocument[EC](docPath(m.Location(), name+configSuffix), m.opts)
}

func (m *EvaluationManager[EC, ER]) resultDoc(name string) *Document[ER] {
	return NewDocument[ER](docPath(m.Location(), name), m.opts)
}
