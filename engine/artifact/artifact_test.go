package artifact

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-ml/atelier/engine/format"
)

func TestStore(t *testing.T) {
	t.Run("Should save and load under the store's format", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		store := NewStore(fs, "/data/mnist/artifacts", format.JSON)
		tree := map[string]any{"mean": 0.1307, "std": 0.3081}

		require.NoError(t, store.Save("stats", tree))

		exists, err := afero.Exists(fs, "/data/mnist/artifacts/stats.json")
		require.NoError(t, err)
		assert.True(t, exists)

		loaded, err := store.Load("stats")
		require.NoError(t, err)
		assert.Equal(t, tree, loaded)
	})

	t.Run("Should round trip gzip artifacts", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		store := NewStore(fs, "/data/mnist/artifacts", format.GzipJSON)
		tree := map[string]any{"histogram": []any{float64(1), float64(2)}}

		require.NoError(t, store.Save("pixel_counts", tree))

		exists, err := store.Exists("pixel_counts")
		require.NoError(t, err)
		assert.True(t, exists)

		loaded, err := store.Load("pixel_counts")
		require.NoError(t, err)
		assert.Equal(t, tree, loaded)
	})

	t.Run("Should list artifact names without extensions", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		store := NewStore(fs, "/out", format.YAML)
		require.NoError(t, store.Save("losses", map[string]any{"final": 0.05}))
		require.NoError(t, store.Save("metrics", map[string]any{"acc": 0.99}))
		require.NoError(t, afero.WriteFile(fs, "/out/readme.txt", []byte("x"), 0o644))

		names, err := store.List()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"losses", "metrics"}, names)
	})

	t.Run("Should list nothing for a missing directory", func(t *testing.T) {
		store := NewStore(afero.NewMemMapFs(), "/absent", format.JSON)

		names, err := store.List()
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("Should delete an artifact", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		store := NewStore(fs, "/out", format.JSON)
		require.NoError(t, store.Save("scratch", map[string]any{}))

		require.NoError(t, store.Delete("scratch"))

		exists, err := store.Exists("scratch")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
