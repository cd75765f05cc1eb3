package manager

import (
	"path/filepath"

	"github.com/atelier-ml/atelier/engine/artifact"
	"github.com/atelier-ml/atelier/engine/folder"
)

// DataManager owns one preprocessed dataset directory: a `config` document
// describing how the data was produced, a `stats` document with computed
// statistics, and a slices store for named subsets.
type DataManager[C, S any] struct {
	opts   Options
	folder *folder.Folder
	config *Document[C]
	stats  *Document[S]
}

func NewDataManager[C, S any](root, dataset string, opts Options) *DataManager[C, S] {
	opts = opts.normalized()
	location := filepath.Join(root, dataset)
	return &DataManager[C, S]{
		opts:   opts,
		folder: folder.New(opts.Fs, location),
		config: NewDocument[C](docPath(location, "config"), opts),
		stats:  NewDocument[S](docPath(location, "stats"), opts),
	}
}

func (m *DataManager[C, S]) Location() string {
	return m.folder.Location()
}

func (m *DataManager[C, S]) EnsureExists() error {
	return m.folder.EnsureExists()
}

func (m *DataManager[C, S]) SaveConfig(cfg *C) error {
	return m.config.Save(cfg)
}

func (m *DataManager[C, S]) LoadConfig() (*C, error) {
	return m.config.Load()
}

func (m *DataManager[C, S]) HasConfig() (bool, error) {
	return m.config.Exists()
}

func (m *DataManager[C, S]) SaveStats(stats *S) error {
	return m.stats.Save(stats)
}

func (m *DataManager[C, S]) LoadStats() (*S, error) {
	return m.stats.Load()
}

// Slices is the artifact store for named dataset subsets (train/val splits,
// debug samples).
func (m *DataManager[C, S]) Slices() *artifact.Store {
	return artifact.NewStore(m.opts.Fs, filepath.Join(m.Location(), "slices"), m.opts.Format)
}
