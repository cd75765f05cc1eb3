package manager

import (
	"context"
	"path/filepath"

	"github.com/atelier-ml/atelier/engine/folder"
)

// RunManager owns the runs of one model: numbered RUN_* directories under
// <modelsRoot>/<modelName>.
type RunManager struct {
	opts Options
	runs *folder.RunFolder
}

func NewRunManager(root, model string, opts Options) *RunManager {
	opts = opts.normalized()
	location := filepath.Join(root, model)
	return &RunManager{
		opts: opts,
		runs: folder.NewRunFolder(opts.Fs, location, ""),
	}
}

func (m *RunManager) Location() string {
	return m.runs.Folder().Location()
}

// NewRun creates the next run directory and returns its name.
func (m *RunManager) NewRun(ctx context.Context, label string) (string, error) {
	return m.runs.NewRun(ctx, label)
}

func (m *RunManager) ListRuns() ([]string, error) {
	return m.runs.ListRuns()
}

func (m *RunManager) ListRunIDs() ([]int, error) {
	return m.runs.ListRunIDs()
}

// Resolve turns a run name or bare ID into the run directory name.
func (m *RunManager) Resolve(nameOrID string) (string, error) {
	return m.runs.Resolve(nameOrID)
}

func (m *RunManager) DeleteRun(nameOrID string) error {
	return m.runs.DeleteRun(nameOrID)
}

// RunLocation returns the absolute directory of a resolved run.
func (m *RunManager) RunLocation(nameOrID string) (string, error) {
	dir, err := m.runs.RunDir(nameOrID)
	if err != nil {
		return "", err
	}
	return dir.Location(), nil
}
