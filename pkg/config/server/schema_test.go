package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSchema(t *testing.T) {
	schema := JSONSchema()

	root, ok := schema.Definitions["VideoMCPServerConfig"]
	require.True(t, ok, "root definition should be present")
	assert.ElementsMatch(t, []string{"kind", "schemaVersion"}, root.Required)

	for _, name := range []string{"kind", "schemaVersion", "runtime", "backend"} {
		_, ok := root.Properties.Get(name)
		assert.True(t, ok, "property %s should be present", name)
	}

	backend, ok := schema.Definitions["BackendConfig"]
	require.True(t, ok)
	_, hasToken := backend.Properties.Get("BearerToken")
	assert.False(t, hasToken, "the bearer token must not be configurable from the file")
	assert.Empty(t, backend.Required)

	data, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"streamableHttpConfig"`)
	assert.NotContains(t, string(data), "baseLogger")
}
