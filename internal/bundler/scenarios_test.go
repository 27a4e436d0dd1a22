package bundler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modpack/bundler/internal/options"
)

// TestScenario_CommonJSChainTpackWrapping mirrors the CommonJS chain
// end-to-end scenario: a required dependency is defined before the entry,
// keyed by its path relative to the entry, and the entry itself omits the
// define key.
func TestScenario_CommonJSChainTpackWrapping(t *testing.T) {
	opts := options.Defaults(options.TargetTpack)
	m := loadModule(t, map[string]string{
		"/a.js": `require("./b")`,
		"/b.js": `module.exports = 1`,
	}, "/a.js", opts)

	w, err := m.Save()
	require.NoError(t, err)
	out := w.String()

	require.Contains(t, out, `__tpack__.define("./b.js", function(require,exports,module){`+"\n"+"\tmodule.exports = 1"+"\n});")
	require.Contains(t, out, `__tpack__.define(function(require,exports,module){`+"\n"+"\trequire(\"./b.js\")"+"\n});")

	depIdx := strings.Index(out, `__tpack__.define("./b.js"`)
	entryIdx := strings.Index(out, `__tpack__.define(function`)
	require.True(t, depIdx >= 0 && entryIdx >= 0)
	assert.Less(t, depIdx, entryIdx, "dependency must be defined before the entry")
}

// TestScenario_CircularIncludeRefused mirrors the circular-include scenario:
// a<->b reciprocal #include must not recurse forever, exactly one side's
// inclusion is rejected, and the rejection is reported as a warning rather
// than surfacing as an error or a panic.
func TestScenario_CircularIncludeRefused(t *testing.T) {
	fs, sess := mockSession(t, map[string]string{
		"/a.html": `<!-- #include "b.html" -->`,
		"/b.html": `<!-- #include "a.html" -->`,
	}, options.Options{})

	aAbs, _ := fs.Abs("/a.html")
	bAbs, _ := fs.Abs("/b.html")

	var a *Module
	assert.NotPanics(t, func() { a = sess.GetModule(aAbs) })
	b := sess.GetModule(bAbs)

	aIncludesB := a.Includes.Len() == 1 && b.Includes.Len() == 0
	bIncludesA := b.Includes.Len() == 1 && a.Includes.Len() == 0
	assert.True(t, aIncludesB || bIncludesA, "exactly one direction of the cycle should be recorded")

	msgs := sess.Log.Done()
	var warnings int
	for _, msg := range msgs {
		if strings.Contains(msg.Text, "circular include") {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)

	assert.NotPanics(t, func() { render(a) })
	assert.NotPanics(t, func() { render(b) })
}

// TestScenario_InlineThresholdProducesDataURI mirrors the inline-threshold
// scenario: a <img> under the byte cap is folded into a data: URI and
// recorded as an include, not a require.
func TestScenario_InlineThresholdProducesDataURI(t *testing.T) {
	opts := options.Options{URL: options.URLOptions{Inline: 100}}
	m := loadModule(t, map[string]string{
		"/page.html": `<img src="icon.png">`,
		"/icon.png":  strings.Repeat("a", 50),
	}, "/page.html", opts)

	out := render(m)
	assert.Contains(t, out, `<img src="data:image/png;base64,`)
	assert.Equal(t, 1, m.Includes.Len())
}

// TestScenario_InlineOverThresholdFallsBackToURL mirrors the companion
// boundary behaviour: a file over the cap is rewritten as an ordinary
// relative URL rather than inlined.
func TestScenario_InlineOverThresholdFallsBackToURL(t *testing.T) {
	opts := options.Options{URL: options.URLOptions{Inline: 10}}
	m := loadModule(t, map[string]string{
		"/page.html": `<img src="icon.png">`,
		"/icon.png":  strings.Repeat("a", 50),
	}, "/page.html", opts)

	out := render(m)
	assert.Contains(t, out, `<img src="./icon.png">`)
	assert.Equal(t, 0, m.Includes.Len())
}

// TestScenario_PreprocessorDefineFalseSelectsElseBranch mirrors the
// preprocessor scenario using block comments rather than line comments.
func TestScenario_PreprocessorDefineFalseSelectsElseBranch(t *testing.T) {
	opts := options.Options{Define: map[string]interface{}{"DEBUG": false}}
	m := loadModule(t, map[string]string{
		"/main.js": `/* #if DEBUG */console.log(1);/* #else */console.log(2);/* #endif */`,
	}, "/main.js", opts)

	out := render(m)
	assert.Contains(t, out, "console.log(2);")
	assert.NotContains(t, out, "console.log(1);")
}

// TestScenario_AliasAndQueryRewriteRequireLiteral mirrors the alias+query
// scenario: the longest-prefix alias table rewrites "~/x" to "src/x" and the
// query string survives into the rewritten require() literal.
func TestScenario_AliasAndQueryRewriteRequireLiteral(t *testing.T) {
	opts := options.Defaults(options.TargetBrowser)
	opts.Resolve.Alias = map[string]string{"~": "src"}
	// "src" is a bare specifier once rewritten, so it resolves through
	// resolve.root rather than as a path relative to the requiring file.
	opts.Resolve.Root = []string{"/"}
	m := loadModule(t, map[string]string{
		"/main.js": `require("~/x?v=1")`,
		"/src/x.js": `module.exports = {}`,
	}, "/main.js", opts)

	out := render(m)
	assert.Contains(t, out, `"./src/x.js?v=1"`)
	require.Equal(t, 1, m.Requires.Len())
	assert.Equal(t, "/src/x.js", m.Requires.List()[0].File.AbsPath)
}

// TestScenario_ExternalExcludesTransitiveRequires mirrors the externals
// scenario: excluding b also excludes everything b itself requires.
func TestScenario_ExternalExcludesTransitiveRequires(t *testing.T) {
	fs, sess := mockSession(t, map[string]string{
		"/a.js": `require("./b")`,
		"/b.js": `require("./c")`,
		"/c.js": `module.exports = 3`,
	}, options.Defaults(options.TargetTpack))

	aAbs, _ := fs.Abs("/a.js")
	bAbs, _ := fs.Abs("/b.js")

	a := sess.GetModule(aAbs)
	b := sess.GetModule(bAbs)

	a.External(b)

	all := a.GetAllRequires()
	require.Len(t, all, 1)
	assert.Same(t, a, all[0])
}
