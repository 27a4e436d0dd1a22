package options

import (
	"encoding/json"
	"regexp"

	"github.com/gobwas/glob"
)

// CompileOverride turns a `options.module[pattern]` key into a matcher.
// Patterns written `/body/flags` are compiled as regexp.Regexp (mirroring a
// JS-side RegExp literal per spec.md §4.7 "options.module[pattern].test");
// anything else is compiled as a glob with github.com/gobwas/glob, which
// is how the rest of the pack (BrianLeishman-hugo, kenshaw-assetgen) tests
// a file path against a pattern.
func CompileOverride(pattern string, raw RawOptions) (ModuleOverride, error) {
	if body, flags, ok := isRegexPattern(pattern); ok {
		expr := body
		if containsRune(flags, 'i') {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return ModuleOverride{}, err
		}
		return ModuleOverride{Pattern: pattern, Raw: raw, Test: func(file string) bool {
			return re.MatchString(file)
		}}, nil
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return ModuleOverride{}, err
	}
	return ModuleOverride{Pattern: pattern, Raw: raw, Test: func(file string) bool {
		return g.Match(file)
	}}, nil
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

// SelectForFile runs every options.module[pattern].test(file) in insertion
// order and merges matches onto a clone of the base options (spec.md
// §4.7). Hook functions (Resolve.Parse/Skip/Fallback, Css.ImportFunction,
// URL.PostfixFunc) are never part of the JSON-shaped merge and are carried
// through from base unchanged.
func SelectForFile(base Options, file string) Options {
	result := base
	baseRaw := toRaw(base)
	merged := baseRaw.Clone()
	matched := false
	for _, override := range base.Module {
		if override.Test == nil || !override.Test(file) {
			continue
		}
		matched = true
		merged = DeepMerge(merged, override.Raw)
	}
	if !matched {
		return result
	}
	applyRaw(&result, merged)
	return result
}

func toRaw(o Options) RawOptions {
	data, _ := json.Marshal(o)
	var raw map[string]interface{}
	_ = json.Unmarshal(data, &raw)
	return raw
}

// applyRaw unmarshals raw onto o's JSON-tagged fields while leaving every
// `json:"-"` hook field (already set on o) untouched, since json.Unmarshal
// only overwrites keys present in the source document.
func applyRaw(o *Options, raw RawOptions) {
	data, err := json.Marshal(raw)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, o)
}
