package folder

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/afero"
)

// DefaultRunFormat names runs "RUN_1", "RUN_2_baseline", ...; the optional
// suffix carries a human readable label.
const DefaultRunFormat = "RUN_$[_*]"

// RunFolder manages the run directories of one model: numbered folders that
// each hold the artifacts of a single training run.
type RunFolder struct {
	folder     *Folder
	nameFormat string
}

func NewRunFolder(fs afero.Fs, location string, nameFormat string) *RunFolder {
	if nameFormat == "" {
		nameFormat = DefaultRunFormat
	}
	return &RunFolder{folder: New(fs, location), nameFormat: nameFormat}
}

func (r *RunFolder) Folder() *Folder {
	return r.folder
}

// ListRuns returns all run names sorted by run ID.
func (r *RunFolder) ListRuns() ([]string, error) {
	return r.folder.ListNumberedNames(r.nameFormat)
}

// ListRunIDs returns the IDs of all runs, sorted ascending.
func (r *RunFolder) ListRunIDs() ([]int, error) {
	return r.folder.ListNumbers(r.nameFormat)
}

// NewRun creates the directory for the next run and returns its name. The
// label is optional and becomes part of the folder name when given.
func (r *RunFolder) NewRun(ctx context.Context, label string) (string, error) {
	if err := r.folder.EnsureExists(); err != nil {
		return "", err
	}
	return r.folder.NextName(ctx, r.nameFormat, label, true)
}

// RunNameByID resolves a run ID to its directory name.
func (r *RunFolder) RunNameByID(id int) (string, error) {
	name, ok, err := r.folder.NameByNumber(r.nameFormat, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no run with ID %d in %s", id, r.folder.Location())
	}
	return name, nil
}

// Resolve accepts either a run name or a bare run ID and returns the
// directory name. CLI surfaces pass user input through here.
func (r *RunFolder) Resolve(nameOrID string) (string, error) {
	if id, err := strconv.Atoi(nameOrID); err == nil {
		return r.RunNameByID(id)
	}
	exists, err := r.folder.Exists(nameOrID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("no run named %q in %s", nameOrID, r.folder.Location())
	}
	return nameOrID, nil
}

// DeleteRun removes a run directory and everything in it.
func (r *RunFolder) DeleteRun(nameOrID string) error {
	name, err := r.Resolve(nameOrID)
	if err != nil {
		return err
	}
	return r.folder.Rmdir(name)
}

// RunDir returns a Folder rooted at the resolved run directory.
func (r *RunFolder) RunDir(nameOrID string) (*Folder, error) {
	name, err := r.Resolve(nameOrID)
	if err != nil {
		return nil, err
	}
	return r.folder.Cd(name), nil
}
