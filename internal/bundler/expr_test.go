package bundler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modpack/bundler/internal/fsys"
	"github.com/modpack/bundler/internal/options"
)

func moduleWithDefines(defines map[string]interface{}) *Module {
	fs := fsys.NewMockFS(nil)
	file := fsys.NewFileWithContent(fs, "/entry.js", nil)
	return &Module{Options: options.Options{Define: defines}, File: file}
}

func TestEvalExpr_BareIdentifierReturnsDefineVerbatim(t *testing.T) {
	m := moduleWithDefines(map[string]interface{}{"DEBUG": true, "VERSION": "1.2.3"})
	v, err := m.evalExpr("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = m.evalExpr(" VERSION ")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v)
}

func TestEvalExpr_BareIdentifierCallsDefineFunction(t *testing.T) {
	m := moduleWithDefines(map[string]interface{}{
		"PLATFORM": func(file string) interface{} { return file },
	})
	v, err := m.evalExpr("PLATFORM")
	require.NoError(t, err)
	assert.Equal(t, "/entry.js", v)
}

func TestEvalExpr_UndefinedIdentifierIsNull(t *testing.T) {
	m := moduleWithDefines(nil)
	v, err := m.evalExpr("NOPE")
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.False(t, isTruthy(v))
}

func TestEvalExpr_TruthinessOnlyFalseAndNullAreFalsy(t *testing.T) {
	cases := []struct {
		expr string
		want bool
	}{
		{"false", false},
		{"null", false},
		{"true", true},
		{"0", true},
		{`""`, true},
		{"1", true},
	}
	m := moduleWithDefines(nil)
	for _, c := range cases {
		v, err := m.evalExpr(c.expr)
		require.NoError(t, err)
		assert.Equal(t, c.want, isTruthy(v), "expr %q", c.expr)
	}
}

func TestEvalExpr_ComparisonAndLogicalOperators(t *testing.T) {
	m := moduleWithDefines(map[string]interface{}{"VERSION": 3.0, "NAME": "beta"})
	cases := []struct {
		expr string
		want interface{}
	}{
		{"VERSION == 3", true},
		{"VERSION != 3", false},
		{"VERSION < 4", true},
		{"VERSION <= 3", true},
		{"VERSION > 2", true},
		{"VERSION >= 3", true},
		{`NAME == "beta"`, true},
		{`NAME == "alpha" || VERSION == 3`, true},
		{`NAME == "alpha" && VERSION == 3`, false},
		{"!false", true},
		{"VERSION + 1", 4.0},
		{"VERSION - 1", 2.0},
		{"VERSION * 2", 6.0},
		{"VERSION / 3", 1.0},
		{`NAME + "!"`, "beta!"},
	}
	for _, c := range cases {
		v, err := m.evalExpr(c.expr)
		require.NoError(t, err, "expr %q", c.expr)
		assert.Equal(t, c.want, v, "expr %q", c.expr)
	}
}

func TestEvalExpr_DivisionByZeroIsError(t *testing.T) {
	m := moduleWithDefines(nil)
	_, err := m.evalExpr("1 / 0")
	assert.Error(t, err)
}

func TestEvalExpr_RelationalOnNonNumericIsError(t *testing.T) {
	m := moduleWithDefines(map[string]interface{}{"NAME": "beta"})
	_, err := m.evalExpr("NAME < 1")
	assert.Error(t, err)
}

func TestEvalExpr_IdentifiersInsideStringLiteralsAreNotSubstituted(t *testing.T) {
	m := moduleWithDefines(map[string]interface{}{"DEBUG": true})
	v, err := m.evalExpr(`"DEBUG" == "DEBUG"`)
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestEvalExpr_ParenthesesControlPrecedence(t *testing.T) {
	m := moduleWithDefines(nil)
	v, err := m.evalExpr("(1 + 2) * 3")
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)
}
