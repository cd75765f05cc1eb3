package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := RootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigCommands(t *testing.T) {
	t.Run("Should show a YAML document as pretty JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "train_setup.yaml")
		require.NoError(t, os.WriteFile(path, []byte("epochs: 10\nlr: 0.01\n"), 0o644))

		out, err := execute(t, "config", "show", path)
		require.NoError(t, err)
		assert.Contains(t, out, "\"epochs\": 10")
	})

	t.Run("Should query a nested value by dotted path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model_config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"optimizer": {"type": "adam", "lr": 0.001}}`), 0o644))

		out, err := execute(t, "config", "get", path, "optimizer.lr")
		require.NoError(t, err)
		assert.Equal(t, "0.001\n", out)
	})

	t.Run("Should fail on paths that resolve to nothing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model_config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"layers": 4}`), 0o644))

		_, err := execute(t, "config", "get", path, "optimizer.lr")
		assert.Error(t, err)
	})

	t.Run("Should convert JSON to YAML by extension", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "config.json")
		dst := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(src, []byte(`{"epochs": 10}`), 0o644))

		_, err := execute(t, "config", "convert", src, dst)
		require.NoError(t, err)

		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Contains(t, string(data), "epochs: 10")
	})

	t.Run("Should reject files with unknown extensions", func(t *testing.T) {
		_, err := execute(t, "config", "show", "weights.ckpt")
		assert.Error(t, err)
	})
}

func TestRunsCommands(t *testing.T) {
	t.Run("Should create list and delete runs", func(t *testing.T) {
		t.Setenv("ATELIER_MODELS_ROOT", t.TempDir())

		out, err := execute(t, "runs", "new", "--model", "mnist_cnn", "--label", "baseline")
		require.NoError(t, err)
		assert.Contains(t, out, "RUN_1_baseline")

		out, err = execute(t, "runs", "list", "--model", "mnist_cnn")
		require.NoError(t, err)
		assert.Contains(t, out, "RUN_1_baseline")

		_, err = execute(t, "runs", "rm", "--model", "mnist_cnn", "1")
		require.NoError(t, err)

		out, err = execute(t, "runs", "list", "--model", "mnist_cnn")
		require.NoError(t, err)
		assert.NotContains(t, out, "RUN_1")
	})

	t.Run("Should require the model flag", func(t *testing.T) {
		_, err := execute(t, "runs", "list")
		assert.Error(t, err)
	})
}
