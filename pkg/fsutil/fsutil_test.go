package fsutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureExt(t *testing.T) {
	t.Run("Should append missing extension", func(t *testing.T) {
		assert.Equal(t, "model_config.json", EnsureExt("model_config", "json"))
	})

	t.Run("Should keep an existing extension", func(t *testing.T) {
		assert.Equal(t, "stats.json.gz", EnsureExt("stats.json.gz", "json.gz"))
	})
}

func TestEnsureDirForFile(t *testing.T) {
	t.Run("Should create parent directories", func(t *testing.T) {
		fs := afero.NewMemMapFs()

		require.NoError(t, EnsureDirForFile(fs, "/runs/RUN-1/checkpoints/epoch-1.ckpt"))

		isDir, err := IsDir(fs, "/runs/RUN-1/checkpoints")
		require.NoError(t, err)
		assert.True(t, isDir)
	})
}
