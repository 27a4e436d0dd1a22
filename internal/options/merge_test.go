package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepMerge_PrimitivesAndArraysReplaceWholesale(t *testing.T) {
	dst := RawOptions{"inline": 0, "postfix": "old", "extensions": []interface{}{".js"}}
	out := DeepMerge(dst, RawOptions{"inline": 100, "extensions": []interface{}{".ts", ".js"}})
	assert.Equal(t, 100, out["inline"])
	assert.Equal(t, "old", out["postfix"])
	assert.Equal(t, []interface{}{".ts", ".js"}, out["extensions"])
}

func TestDeepMerge_ObjectsMergeRecursively(t *testing.T) {
	dst := RawOptions{"url": map[string]interface{}{"inline": 0, "postfix": "kept"}}
	out := DeepMerge(dst, RawOptions{"url": map[string]interface{}{"inline": 50}})
	urlOut, ok := out["url"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 50, urlOut["inline"])
	assert.Equal(t, "kept", urlOut["postfix"])
}

func TestDeepMerge_FalseDestinationDisablesSubtree(t *testing.T) {
	dst := RawOptions{"css": false}
	out := DeepMerge(dst, RawOptions{"css": map[string]interface{}{"import": "url"}})
	assert.Equal(t, false, out["css"])
}

func TestDeepMerge_MissingDestinationKeyCreatesObject(t *testing.T) {
	dst := RawOptions{}
	out := DeepMerge(dst, RawOptions{"url": map[string]interface{}{"inline": 10}})
	urlOut, ok := out["url"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 10, urlOut["inline"])
}

func TestDeepMerge_NilDestinationIsTreatedAsEmpty(t *testing.T) {
	out := DeepMerge(nil, RawOptions{"a": 1})
	assert.Equal(t, 1, out["a"])
}

func TestRawOptions_CloneIsIndependentOfSource(t *testing.T) {
	src := RawOptions{"url": map[string]interface{}{"inline": 10}, "list": []interface{}{1, 2}}
	clone := src.Clone()

	clone["url"].(map[string]interface{})["inline"] = 999
	clone["list"].([]interface{})[0] = 999

	assert.Equal(t, 10, src["url"].(map[string]interface{})["inline"])
	assert.Equal(t, 1, src["list"].([]interface{})[0])
}
