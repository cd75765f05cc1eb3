package folder

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemFolder(t *testing.T, entries ...string) *Folder {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work", 0o755))
	f := New(fs, "/work")
	for _, entry := range entries {
		require.NoError(t, f.Mkdir(entry))
	}
	return f
}

func TestListNumbered(t *testing.T) {
	t.Run("Should sort numerically not lexically", func(t *testing.T) {
		f := newMemFolder(t, "RUN_10", "RUN_2", "RUN_1")

		names, err := f.ListNumberedNames("RUN_$")
		require.NoError(t, err)
		assert.Equal(t, []string{"RUN_1", "RUN_2", "RUN_10"}, names)
	})

	t.Run("Should ignore entries that do not match the format", func(t *testing.T) {
		f := newMemFolder(t, "RUN_1", "notes", "RUN_x")

		names, err := f.ListNumberedNames("RUN_$")
		require.NoError(t, err)
		assert.Equal(t, []string{"RUN_1"}, names)
	})

	t.Run("Should match optional wildcard segments", func(t *testing.T) {
		f := newMemFolder(t, "RUN_1", "RUN_2_baseline", "RUN_3_lr_sweep")

		entries, err := f.ListNumbered("RUN_$[_*]")
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, 3, entries[2].Number)
		assert.Equal(t, "RUN_3_lr_sweep", entries[2].Name)
	})

	t.Run("Should extract negative numbers", func(t *testing.T) {
		f := newMemFolder(t, "epoch_-1", "epoch_4")

		numbers, err := f.ListNumbers("epoch_$")
		require.NoError(t, err)
		assert.Equal(t, []int{-1, 4}, numbers)
	})

	t.Run("Should return nothing for a missing directory", func(t *testing.T) {
		f := New(afero.NewMemMapFs(), "/absent")

		entries, err := f.ListNumbered("RUN_$")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Should reject formats without the number marker", func(t *testing.T) {
		f := newMemFolder(t)

		_, err := f.ListNumbered("RUN")
		assert.Error(t, err)
	})
}

func TestNumberOfName(t *testing.T) {
	t.Run("Should extract the number from a matching name", func(t *testing.T) {
		number, ok, err := NumberOfName("RUN_$[_*]", "RUN_7_baseline")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 7, number)
	})

	t.Run("Should report non matching names", func(t *testing.T) {
		_, ok, err := NumberOfName("RUN_$", "checkpoint_7")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSubstitute(t *testing.T) {
	t.Run("Should fill in the number", func(t *testing.T) {
		name, err := Substitute("epoch_$.ckpt", 12, "")
		require.NoError(t, err)
		assert.Equal(t, "epoch_12.ckpt", name)
	})

	t.Run("Should drop an optional segment when no name is given", func(t *testing.T) {
		name, err := Substitute("RUN_$[_*]", 3, "")
		require.NoError(t, err)
		assert.Equal(t, "RUN_3", name)
	})

	t.Run("Should fill an optional segment when a name is given", func(t *testing.T) {
		name, err := Substitute("RUN_$[_*]", 3, "baseline")
		require.NoError(t, err)
		assert.Equal(t, "RUN_3_baseline", name)
	})

	t.Run("Should reject a name without a wildcard to hold it", func(t *testing.T) {
		_, err := Substitute("RUN_$", 3, "baseline")
		assert.Error(t, err)
	})
}

func TestNextName(t *testing.T) {
	ctx := context.Background()

	t.Run("Should start numbering at one", func(t *testing.T) {
		f := newMemFolder(t)

		name, err := f.NextName(ctx, "RUN_$", "", false)
		require.NoError(t, err)
		assert.Equal(t, "RUN_1", name)
	})

	t.Run("Should continue above the highest existing number", func(t *testing.T) {
		f := newMemFolder(t, "RUN_1", "RUN_9")

		name, err := f.NextName(ctx, "RUN_$", "", true)
		require.NoError(t, err)
		assert.Equal(t, "RUN_10", name)

		exists, err := f.Exists("RUN_10")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Should restart at one above negative numbers", func(t *testing.T) {
		f := newMemFolder(t, "epoch_-3")

		name, err := f.NextName(ctx, "epoch_$", "", false)
		require.NoError(t, err)
		assert.Equal(t, "epoch_1", name)
	})
}

func TestRunFolder(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create runs with ascending IDs and optional labels", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		runs := NewRunFolder(fs, "/models/mnist/runs", "")

		first, err := runs.NewRun(ctx, "")
		require.NoError(t, err)
		second, err := runs.NewRun(ctx, "baseline")
		require.NoError(t, err)
		assert.Equal(t, "RUN_1", first)
		assert.Equal(t, "RUN_2_baseline", second)

		ids, err := runs.ListRunIDs()
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, ids)
	})

	t.Run("Should resolve a bare ID to the run name", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		runs := NewRunFolder(fs, "/models/mnist/runs", "")
		_, err := runs.NewRun(ctx, "baseline")
		require.NoError(t, err)

		name, err := runs.Resolve("1")
		require.NoError(t, err)
		assert.Equal(t, "RUN_1_baseline", name)
	})

	t.Run("Should fail to resolve unknown runs", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		runs := NewRunFolder(fs, "/models/mnist/runs", "")
		require.NoError(t, runs.Folder().EnsureExists())

		_, err := runs.Resolve("42")
		assert.Error(t, err)
		_, err = runs.Resolve("RUN_42")
		assert.Error(t, err)
	})

	t.Run("Should delete a run by ID", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		runs := NewRunFolder(fs, "/models/mnist/runs", "")
		name, err := runs.NewRun(ctx, "")
		require.NoError(t, err)

		require.NoError(t, runs.DeleteRun("1"))
		exists, err := runs.Folder().Exists(name)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
