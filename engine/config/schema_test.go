package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFor(t *testing.T) {
	t.Run("Should reflect a schema with the persisted field names", func(t *testing.T) {
		schema, err := SchemaFor(&exampleConfig{})
		require.NoError(t, err)
		require.NotNil(t, schema)

		_, hasLR := schema.Properties.Get("lr")
		assert.True(t, hasLR)
		_, hasEpochs := schema.Properties.Get("epochs")
		assert.True(t, hasEpochs)
	})

	t.Run("Should render schema JSON", func(t *testing.T) {
		data, err := SchemaJSON(&exampleConfig{})
		require.NoError(t, err)
		assert.Contains(t, string(data), "\"lr\"")
	})

	t.Run("Should reject nil", func(t *testing.T) {
		_, err := SchemaFor(nil)
		assert.Error(t, err)
	})
}
