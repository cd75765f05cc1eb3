package manager

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/atelier-ml/atelier/engine/artifact"
	"github.com/atelier-ml/atelier/engine/folder"
	"github.com/atelier-ml/atelier/pkg/fsutil"
)

// CheckpointFormat names checkpoint files inside a run directory.
const CheckpointFormat = "checkpoint_$.ckpt"

// LatestCheckpoint selects the highest-numbered checkpoint wherever a
// checkpoint reference is accepted; "-1" is the numeric spelling of the same.
const LatestCheckpoint = "latest"

// ModelManager owns one training run directory. It holds the four config
// documents a run is reproducible from, the numbered checkpoints the training
// loop writes, and the per-checkpoint evaluation folders.
type ModelManager[MC, OC, DC, TS any] struct {
	opts               Options
	folder             *folder.Folder
	modelConfig        *Document[MC]
	optimizationConfig *Document[OC]
	datasetConfig      *Document[DC]
	trainSetup         *Document[TS]
}

func NewModelManager[MC, OC, DC, TS any](runDir string, opts Options) *ModelManager[MC, OC, DC, TS] {
	opts = opts.normalized()
	return &ModelManager[MC, OC, DC, TS]{
		opts:               opts,
		folder:             folder.New(opts.Fs, runDir),
		modelConfig:        NewDocument[MC](docPath(runDir, "model_config"), opts),
		optimizationConfig: NewDocument[OC](docPath(runDir, "optimization_config"), opts),
		datasetConfig:      NewDocument[DC](docPath(runDir, "dataset_config"), opts),
		trainSetup:         NewDocument[TS](docPath(runDir, "train_setup"), opts),
	}
}

func (m *ModelManager[MC, OC, DC, TS]) Location() string {
	return m.folder.Location()
}

func (m *ModelManager[MC, OC, DC, TS]) EnsureExists() error {
	return m.folder.EnsureExists()
}

func (m *ModelManager[MC, OC, DC, TS]) SaveModelConfig(cfg *MC) error { return m.modelConfig.Save(cfg) }
func (m *ModelManager[MC, OC, DC, TS]) LoadModelConfig() (*MC, error) { return m.modelConfig.Load() }

func (m *ModelManager[MC, OC, DC, TS]) SaveOptimizationConfig(cfg *OC) error {
	return m.optimizationConfig.Save(cfg)
}

func (m *ModelManager[MC, OC, DC, TS]) LoadOptimizationConfig() (*OC, error) {
	return m.optimizationConfig.Load()
}

func (m *ModelManager[MC, OC, DC, TS]) SaveDatasetConfig(cfg *DC) error {
	return m.datasetConfig.Save(cfg)
}

func (m *ModelManager[MC, OC, DC, TS]) LoadDatasetConfig() (*DC, error) {
	return m.datasetConfig.Load()
}

func (m *ModelManager[MC, OC, DC, TS]) SaveTrainSetup(setup *TS) error {
	return m.trainSetup.Save(setup)
}

func (m *ModelManager[MC, OC, DC, TS]) LoadTrainSetup() (*TS, error) {
	return m.trainSetup.Load()
}

// ListCheckpoints returns the checkpoint numbers present in the run,
// ascending.
func (m *ModelManager[MC, OC, DC, TS]) ListCheckpoints() ([]int, error) {
	return m.folder.ListNumbers(CheckpointFormat)
}

// CheckpointName resolves a checkpoint reference to its file name. The
// reference is a checkpoint number, or "latest"/"-1" for the highest one.
func (m *ModelManager[MC, OC, DC, TS]) CheckpointName(ref string) (string, error) {
	number, err := m.resolveCheckpoint(ref)
	if err != nil {
		return "", err
	}
	name, ok, err := m.folder.NameByNumber(CheckpointFormat, number)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no checkpoint %d in %s", number, m.Location())
	}
	return name, nil
}

// CheckpointPath resolves a checkpoint reference to its absolute path.
func (m *ModelManager[MC, OC, DC, TS]) CheckpointPath(ref string) (string, error) {
	name, err := m.CheckpointName(ref)
	if err != nil {
		return "", err
	}
	return filepath.Join(m.Location(), name), nil
}

// NewCheckpointPath returns the path the next checkpoint should be written
// to, without creating anything.
func (m *ModelManager[MC, OC, DC, TS]) NewCheckpointPath(number int) (string, error) {
	name, err := folder.Substitute(CheckpointFormat, number, "")
	if err != nil {
		return "", err
	}
	return filepath.Join(m.Location(), name), nil
}

// ExportCheckpoint copies a checkpoint out of the run directory, for handing
// a trained model to another machine or workspace. Checkpoints live on the
// real filesystem, so the copy runs on the OS paths.
func (m *ModelManager[MC, OC, DC, TS]) ExportCheckpoint(ref, dst string) error {
	src, err := m.CheckpointPath(ref)
	if err != nil {
		return err
	}
	return fsutil.CopyTree(src, dst)
}

// EvaluationLocation returns the directory evaluations of one checkpoint live
// in, creating it on first use.
func (m *ModelManager[MC, OC, DC, TS]) EvaluationLocation(ref string) (string, error) {
	number, err := m.resolveCheckpoint(ref)
	if err != nil {
		return "", err
	}
	location := filepath.Join(m.Location(), "evaluations", "checkpoint_"+strconv.Itoa(number))
	if err := fsutil.EnsureDir(m.opts.Fs, location); err != nil {
		return "", err
	}
	return location, nil
}

// Artifacts is the store for loose run outputs (loss curves, metric dumps).
func (m *ModelManager[MC, OC, DC, TS]) Artifacts() *artifact.Store {
	return artifact.NewStore(m.opts.Fs, filepath.Join(m.Location(), "artifacts"), m.opts.Format)
}

func (m *ModelManager[MC, OC, DC, TS]) resolveCheckpoint(ref string) (int, error) {
	if ref != LatestCheckpoint && ref != "-1" {
		number, err := strconv.Atoi(ref)
		if err != nil {
			return 0, fmt.Errorf("invalid checkpoint reference %q: %w", ref, err)
		}
		return number, nil
	}
	numbers, err := m.ListCheckpoints()
	if err != nil {
		return 0, err
	}
	if len(numbers) == 0 {
		return 0, fmt.Errorf("no checkpoints in %s", m.Location())
	}
	return numbers[len(numbers)-1], nil
}
