package manager

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/atelier-ml/atelier/engine/artifact"
	"github.com/atelier-ml/atelier/engine/folder"
	"github.com/atelier-ml/atelier/pkg/fsutil"
)

// AnalysisFormat names analysis folders; the optional suffix is a human
// readable label.
const AnalysisFormat = "ANALYSIS_$[_*]"

// AnalysisManager owns the analyses root: numbered folders holding free-form
// artifacts produced outside the training loop (ablations, error studies).
type AnalysisManager struct {
	opts   Options
	folder *folder.Folder
}

func NewAnalysisManager(root string, opts Options) *AnalysisManager {
	opts = opts.normalized()
	return &AnalysisManager{
		opts:   opts,
		folder: folder.New(opts.Fs, root),
	}
}

func (m *AnalysisManager) Location() string {
	return m.folder.Location()
}

// NewAnalysis creates the next analysis folder and returns its name.
func (m *AnalysisManager) NewAnalysis(ctx context.Context, label string) (string, error) {
	if err := m.folder.EnsureExists(); err != nil {
		return "", err
	}
	return m.folder.NextName(ctx, AnalysisFormat, label, true)
}

func (m *AnalysisManager) List() ([]string, error) {
	return m.folder.ListNumberedNames(AnalysisFormat)
}

// Resolve accepts an analysis name or bare number.
func (m *AnalysisManager) Resolve(nameOrID string) (string, error) {
	if id, err := strconv.Atoi(nameOrID); err == nil {
		name, ok, err := m.folder.NameByNumber(AnalysisFormat, id)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("no analysis %d in %s", id, m.Location())
		}
		return name, nil
	}
	exists, err := m.folder.Exists(nameOrID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("no analysis named %q in %s", nameOrID, m.Location())
	}
	return nameOrID, nil
}

// Artifacts is the store inside one analysis folder.
func (m *AnalysisManager) Artifacts(nameOrID string) (*artifact.Store, error) {
	name, err := m.Resolve(nameOrID)
	if err != nil {
		return nil, err
	}
	return artifact.NewStore(m.opts.Fs, filepath.Join(m.Location(), name), m.opts.Format), nil
}

func (m *AnalysisManager) Delete(nameOrID string) error {
	name, err := m.Resolve(nameOrID)
	if err != nil {
		return err
	}
	return m.folder.Rmdir(name)
}

// Export copies an analysis folder out of the workspace on the OS
// filesystem.
func (m *AnalysisManager) Export(nameOrID, dst string) error {
	name, err := m.Resolve(nameOrID)
	if err != nil {
		return err
	}
	return fsutil.CopyTree(filepath.Join(m.Location(), name), dst)
}
