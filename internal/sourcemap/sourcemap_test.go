package sourcemap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAnnotation_LineCommentForm(t *testing.T) {
	url, ok := FindAnnotation("var x = 1;\n//# sourceMappingURL=x.js.map\n")
	require.True(t, ok)
	assert.Equal(t, "x.js.map", url)
}

func TestFindAnnotation_BlockCommentForm(t *testing.T) {
	url, ok := FindAnnotation("body{}\n/*# sourceMappingURL=style.css.map */\n")
	require.True(t, ok)
	assert.Equal(t, "style.css.map", url)
}

func TestFindAnnotation_AbsentReturnsFalse(t *testing.T) {
	_, ok := FindAnnotation("var x = 1;\n")
	assert.False(t, ok)
}

func TestBuilder_JSONHasVersion3AndFileName(t *testing.T) {
	b := NewBuilder()
	b.AddMapping(0, "/src/a.js", 0, 0)
	data, err := b.JSON("out.js")
	require.NoError(t, err)

	var v3 V3Map
	require.NoError(t, json.Unmarshal(data, &v3))
	assert.Equal(t, 3, v3.Version)
	assert.Equal(t, "out.js", v3.File)
	assert.Equal(t, []string{"/src/a.js"}, v3.Sources)
	assert.NotEmpty(t, v3.Mappings)
}

func TestBuilder_AdvanceLineSeparatesGroupsWithSemicolon(t *testing.T) {
	b := NewBuilder()
	b.AddMapping(0, "/a.js", 0, 0)
	b.AdvanceLine()
	b.AddMapping(0, "/a.js", 1, 0)
	data, err := b.JSON("out.js")
	require.NoError(t, err)

	var v3 V3Map
	require.NoError(t, json.Unmarshal(data, &v3))
	assert.Contains(t, v3.Mappings, ";")
}

func TestBuilder_RepeatedSourceReusesSameIndex(t *testing.T) {
	b := NewBuilder()
	b.AddMapping(0, "/a.js", 0, 0)
	b.AddMapping(5, "/a.js", 0, 5)
	data, err := b.JSON("out.js")
	require.NoError(t, err)

	var v3 V3Map
	require.NoError(t, json.Unmarshal(data, &v3))
	assert.Equal(t, []string{"/a.js"}, v3.Sources)
}

func TestBuilder_EmptyBuilderProducesEmptyMappings(t *testing.T) {
	b := NewBuilder()
	data, err := b.JSON("out.js")
	require.NoError(t, err)

	var v3 V3Map
	require.NoError(t, json.Unmarshal(data, &v3))
	assert.Equal(t, "", v3.Mappings)
	assert.Empty(t, v3.Sources)
}
