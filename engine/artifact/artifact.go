// Package artifact persists loose experiment artifacts (statistics, metric
// dumps, evaluation results) as named documents in one directory, with the
// serialization format fixed per store.
package artifact

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/atelier-ml/atelier/engine/format"
	"github.com/atelier-ml/atelier/pkg/fsutil"
)

// Store reads and writes map trees under a directory. Names are given without
// extension; the store appends the one matching its format.
type Store struct {
	fs         afero.Fs
	location   string
	formatType format.Type
}

func NewStore(fs afero.Fs, location string, formatType format.Type) *Store {
	return &Store{fs: fs, location: filepath.Clean(location), formatType: formatType}
}

func (s *Store) Location() string {
	return s.location
}

func (s *Store) Format() format.Type {
	return s.formatType
}

func (s *Store) Save(name string, tree map[string]any) error {
	return format.Save(s.fs, filepath.Join(s.location, name), s.formatType, tree)
}

func (s *Store) Load(name string) (map[string]any, error) {
	return format.Load(s.fs, filepath.Join(s.location, name), s.formatType)
}

func (s *Store) Exists(name string) (bool, error) {
	path := fsutil.EnsureExt(filepath.Join(s.location, name), s.formatType.Ext())
	return fsutil.Exists(s.fs, path)
}

func (s *Store) Delete(name string) error {
	path := fsutil.EnsureExt(filepath.Join(s.location, name), s.formatType.Ext())
	return s.fs.Remove(path)
}

// List returns the artifact names present in the store, extension stripped.
func (s *Store) List() ([]string, error) {
	isDir, err := fsutil.IsDir(s.fs, s.location)
	if err != nil || !isDir {
		return nil, nil
	}
	infos, err := afero.ReadDir(s.fs, s.location)
	if err != nil {
		return nil, err
	}
	suffix := "." + s.formatType.Ext()
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), suffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(info.Name(), suffix))
	}
	return names, nil
}
