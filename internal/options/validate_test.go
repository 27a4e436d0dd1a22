package options

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modpack/bundler/internal/logger"
)

func TestValidate_AcceptsEachTargetEnumValue(t *testing.T) {
	for _, target := range []Target{TargetUnset, TargetBrowser, TargetNodeJS, TargetTpack, TargetRequireJS} {
		log := logger.NewLog()
		Validate(Options{Target: target}, log)
		assert.False(t, log.HasErrors(), "target %v should be valid", target)
	}
}

func TestValidate_RejectsUnknownTarget(t *testing.T) {
	log := logger.NewLog()
	Validate(Options{Target: Target(99)}, log)
	assert.True(t, log.HasErrors())
}

func TestValidate_ExtensionsMustBeEmptyOrDotPrefixed(t *testing.T) {
	log := logger.NewLog()
	Validate(Options{Resolve: ResolveOptions{Extensions: []string{"", ".js", ".json"}}}, log)
	assert.False(t, log.HasErrors())

	log = logger.NewLog()
	Validate(Options{Resolve: ResolveOptions{Extensions: []string{"js"}}}, log)
	assert.True(t, log.HasErrors())
}

func TestValidate_CssImportEnum(t *testing.T) {
	log := logger.NewLog()
	Validate(Options{Css: CssOptions{Import: CssImportURL}}, log)
	assert.False(t, log.HasErrors())

	log = logger.NewLog()
	Validate(Options{Css: CssOptions{Import: CssImportMode(99)}}, log)
	assert.True(t, log.HasErrors())
}

func TestValidate_CssImportFunctionRequiresHook(t *testing.T) {
	log := logger.NewLog()
	Validate(Options{Css: CssOptions{Import: CssImportFunction}}, log)
	assert.True(t, log.HasErrors())

	log = logger.NewLog()
	Validate(Options{Css: CssOptions{Import: CssImportFunction, ImportFunction: func(string) (string, bool) { return "", false }}}, log)
	assert.False(t, log.HasErrors())
}
