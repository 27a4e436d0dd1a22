package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicAPI_GetModuleResolvesAndRendersAnEntry(t *testing.T) {
	fs := NewMockFS(map[string]string{
		"/src/main.js": `require("./util")`,
		"/src/util.js": `module.exports = 1`,
	})
	sess := NewSession(fs, Defaults(TargetBrowser))

	entry := GetModule(sess, "/src/main.js")
	require.NotNil(t, entry)
	assert.Equal(t, KindJS, entry.Kind)
	assert.False(t, sess.Log.HasErrors())
}

func TestPublicAPI_ResolveQueryStripsAndClassifiesTheFlag(t *testing.T) {
	result := &ResolveResult{Query: "?__inline=200"}
	v := ResolveQuery(result, "__inline")
	assert.Equal(t, QueryBytes, v.Kind)
	assert.Equal(t, 200, v.Bytes)
	assert.Equal(t, "", result.Query)
}

func TestPublicAPI_StringLiteralHelpersRoundTrip(t *testing.T) {
	encoded := EncodeString(`say "hi"`, '"')
	assert.Equal(t, `say "hi"`, DecodeString(encoded[1:len(encoded)-1]))
	assert.Equal(t, "bare", TrimQuotes(`"bare"`))
}

func TestPublicAPI_SessionUsesPerFileModuleCache(t *testing.T) {
	fs := NewMockFS(map[string]string{"/src/main.js": `1`})
	sess := NewSession(fs, Defaults(TargetBrowser))

	first := GetModule(sess, "/src/main.js")
	second := GetModule(sess, "/src/main.js")
	assert.Same(t, first, second)
}
