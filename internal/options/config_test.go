package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRawJSON_DecodesIntoRawOptions(t *testing.T) {
	raw, err := LoadRawJSON([]byte(`{"url": {"inline": 100}}`))
	require.NoError(t, err)
	urlOut, ok := raw["url"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(100), urlOut["inline"])
}

func TestLoadRawJSON_RejectsMalformedInput(t *testing.T) {
	_, err := LoadRawJSON([]byte(`{not json`))
	assert.Error(t, err)
}

func TestLoadRawYAML_DecodesEquivalentlyToJSON(t *testing.T) {
	raw, err := LoadRawYAML([]byte("url:\n  inline: 100\n"))
	require.NoError(t, err)
	urlOut, ok := raw["url"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(100), urlOut["inline"])
}

func TestLoadRawYAML_NestedListsSurviveNormalization(t *testing.T) {
	raw, err := LoadRawYAML([]byte("resolve:\n  extensions:\n    - .js\n    - .json\n"))
	require.NoError(t, err)
	resolveOut, ok := raw["resolve"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{".js", ".json"}, resolveOut["extensions"])
}

func TestLoadRawYAML_RejectsMalformedInput(t *testing.T) {
	_, err := LoadRawYAML([]byte("url: [unterminated\n"))
	assert.Error(t, err)
}
