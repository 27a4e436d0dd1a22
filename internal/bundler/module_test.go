package bundler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modpack/bundler/internal/options"
)

func TestModule_LoadInputSourceMapPopulatesInputMapFromAnnotation(t *testing.T) {
	m := loadModule(t, map[string]string{
		"/a.js":        "generated\n//# sourceMappingURL=a.js.map\n",
		"/a.js.map":    `{"version":3,"sources":["original.js"],"mappings":"AAAA"}`,
		"/original.js": "ORIGINAL\n",
	}, "/a.js", options.Options{Define: map[string]interface{}{}})

	require.NotNil(t, m.InputMap)
}

func TestModule_LoadInputSourceMapLeavesNilWithoutAnnotation(t *testing.T) {
	m := loadModule(t, map[string]string{
		"/a.js": "plain\n",
	}, "/a.js", options.Options{Define: map[string]interface{}{}})

	assert.Nil(t, m.InputMap)
}

func TestModule_LoadInputSourceMapLeavesNilWhenMapFileMissing(t *testing.T) {
	m := loadModule(t, map[string]string{
		"/a.js": "generated\n//# sourceMappingURL=missing.js.map\n",
	}, "/a.js", options.Options{Define: map[string]interface{}{}})

	assert.Nil(t, m.InputMap)
}

func TestModule_LoadInputSourceMapWarnsOnMalformedMap(t *testing.T) {
	m := loadModule(t, map[string]string{
		"/a.js":     "generated\n//# sourceMappingURL=a.js.map\n",
		"/a.js.map": "{not json",
	}, "/a.js", options.Options{Define: map[string]interface{}{}})

	assert.Nil(t, m.InputMap)
	assert.NotEmpty(t, m.sess.Log.Done())
}

func TestModule_OriginAtFallsBackWithoutInputMap(t *testing.T) {
	m := loadModule(t, map[string]string{
		"/a.js": "hello\n",
	}, "/a.js", options.Options{Define: map[string]interface{}{}})

	source, idx := m.originAt(3)
	assert.Equal(t, m.Source, source)
	assert.Equal(t, 3, idx)
}

func TestByteOffsetForLineCol_RoundTripsAgainstLocationForIndex(t *testing.T) {
	contents := "first\nsecond\nthird"
	offset := byteOffsetForLineCol(contents, 1, 2)
	assert.Equal(t, 8, offset) // "second"[2] == 'c', index 6+2
}

func TestByteOffsetForLineCol_ClampsPastEndOfContents(t *testing.T) {
	contents := "short"
	assert.Equal(t, len(contents), byteOffsetForLineCol(contents, 5, 0))
	assert.Equal(t, len(contents), byteOffsetForLineCol(contents, 0, 999))
}
