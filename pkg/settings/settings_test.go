package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Should resolve defaults with no environment set", func(t *testing.T) {
		s, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "data", s.DataRoot)
		assert.Equal(t, "models", s.ModelsRoot)
		assert.Equal(t, "analyses", s.AnalysesRoot)
		assert.Equal(t, "json", s.Format)
	})

	t.Run("Should let environment variables override defaults", func(t *testing.T) {
		t.Setenv("ATELIER_MODELS_ROOT", "/mnt/experiments/models")
		t.Setenv("ATELIER_FORMAT", "yaml")

		s, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "/mnt/experiments/models", s.ModelsRoot)
		assert.Equal(t, "yaml", s.Format)
		assert.Equal(t, "data", s.DataRoot)
	})

	t.Run("Should reject unsupported formats", func(t *testing.T) {
		t.Setenv("ATELIER_FORMAT", "toml")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("Should reject unsupported log levels", func(t *testing.T) {
		t.Setenv("ATELIER_LOG_LEVEL", "loud")

		_, err := Load()
		assert.Error(t, err)
	})
}
