package bundler

import (
	"strings"

	"github.com/modpack/bundler/internal/options"
	"github.com/modpack/bundler/internal/resolver"
	"github.com/modpack/bundler/internal/strutil"
)

// jsShimKeywords are spec.md §4.5's bare CommonJS/Node globals, each handled
// once per file with a shim prepended at index 0 when the target needs one.
var jsShimKeywords = map[string]bool{
	"require": true, "exports": true, "module": true,
	"process": true, "global": true, "Buffer": true,
	"setImmediate": true, "clearImmediate": true,
	"__dirname": true, "__filename": true,
}

// parseJS implements spec.md §4.5's JavaScript scanner: a single
// left-to-right sweep that skips strings and regex literals, routes
// comments to the directive parser, rewrites `require("…")` calls, and
// prepends shims for bare CommonJS/Node globals.
func (m *Module) parseJS() {
	content := m.Content
	i := 0
	var prevSignificant byte

	for i < len(content) {
		c := content[i]

		switch {
		case c == '/' && i+1 < len(content) && content[i+1] == '/':
			end := strings.IndexByte(content[i:], '\n')
			if end == -1 {
				end = len(content)
			} else {
				end += i
			}
			if m.scanDirectives(content[i:end], i, i, end) {
				m.Replacements.Replace(i, end, Literal(""))
			}
			i = end

		case c == '/' && i+1 < len(content) && content[i+1] == '*':
			end := strings.Index(content[i+2:], "*/")
			bodyEnd := len(content)
			if end == -1 {
				end = len(content)
			} else {
				bodyEnd = i + 2 + end
				end = bodyEnd + 2
			}
			if m.scanDirectives(content[i+2:bodyEnd], i+2, i, end) {
				m.Replacements.Replace(i, end, Literal(""))
			}
			i = end
			prevSignificant = '/'

		case c == '"' || c == '\'':
			i = scanQuotedString(content, i)
			prevSignificant = '"'

		case c == '/' && isJSRegexContext(prevSignificant):
			if end, ok := scanRegexLiteral(content, i); ok {
				i = end
				prevSignificant = '/'
			} else {
				i++
				prevSignificant = c
			}

		case c == '_' && strings.HasPrefix(content[i:], "__"):
			if end, ok := m.tryMacroCall(content, i); ok {
				i = end
				prevSignificant = ')'
			} else {
				start := i
				for i < len(content) && isIdentPart(content[i]) {
					i++
				}
				m.handleJSIdentifier(content[start:i], start, i, prevSignificant)
				prevSignificant = content[i-1]
			}

		case isIdentStart(c):
			start := i
			for i < len(content) && isIdentPart(content[i]) {
				i++
			}
			name := content[start:i]
			m.handleJSIdentifier(name, start, i, prevSignificant)
			prevSignificant = content[i-1]

		default:
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				prevSignificant = c
			}
			i++
		}
	}
}

func (m *Module) handleJSIdentifier(name string, start, end int, prevSignificant byte) {
	if prevSignificant == '.' {
		return // member access (foo.require, foo.module, ...), not the global
	}
	if name == "require" {
		if ok := m.tryRequireCall(start, end); ok {
			return
		}
		m.emitJSShim(name)
		return
	}
	if jsShimKeywords[name] {
		m.emitJSShim(name)
	}
}

// tryRequireCall recognises the non-member `require("…")` form (spec.md
// §4.5) immediately following the `require` identifier just scanned.
func (m *Module) tryRequireCall(identStart, identEnd int) bool {
	content := m.Content
	j := skipSpace(content, identEnd)
	if j >= len(content) || content[j] != '(' {
		return false
	}
	k := skipSpace(content, j+1)
	if k >= len(content) || (content[k] != '"' && content[k] != '\'') {
		return false
	}
	litEnd := scanQuotedString(content, k)
	l := skipSpace(content, litEnd)
	if l >= len(content) || content[l] != ')' {
		return false
	}
	callEnd := l + 1
	m.handleRequireCall(identStart, callEnd, k, litEnd)
	return true
}

func (m *Module) handleRequireCall(callStart, callEnd, litStart, litEnd int) {
	quoteChar := m.Content[litStart]
	raw := strutil.DecodeString(m.Content[litStart+1 : litEnd-1])

	if m.Target == options.TargetUnset {
		m.Target = options.TargetTpack
	}

	result, target, ok := m.resolveURL(raw, resolver.UsageRequire, litStart)
	if !ok {
		return
	}

	if m.Options.ExtractCss && target.Kind == KindCSS {
		m.ensureExtractCss().Require(target)
		m.Replacements.Replace(callStart, callEnd, Literal(""))
		return
	}

	m.Require(target)
	rel := m.relPathFrom(target.File.AbsPath)
	url := m.buildURL(result, rel, true)
	m.Replacements.Replace(litStart, litEnd, Literal(strutil.EncodeString(url, quoteChar)))
}

// emitJSShim prepends spec.md §4.5's `var Name = require("…");` shim once
// per file. `require`/`exports`/`module` need no shim: they're the tpack
// wrapper's own function parameters.
func (m *Module) emitJSShim(name string) {
	if m.requireShimsEmitted[name] {
		return
	}
	m.requireShimsEmitted[name] = true
	if m.Target == options.TargetNodeJS {
		return // the NodeJS host provides all of these globals itself
	}

	switch name {
	case "require", "exports", "module":
		return
	case "__dirname":
		m.Replacements.Replace(0, 0, Literal("var __dirname = "+strutil.EncodeString(m.File.Dir(), '"')+";\n"))
		return
	case "__filename":
		m.Replacements.Replace(0, 0, Literal("var __filename = "+strutil.EncodeString(m.File.AbsPath, '"')+";\n"))
		return
	case "global":
		m.Replacements.Replace(0, 0, Literal("var global = (typeof window !== \"undefined\" ? window : this);\n"))
		return
	}

	var moduleKey, suffix string
	switch name {
	case "Buffer":
		moduleKey, suffix = "buffer", ".Buffer"
	case "process":
		moduleKey, suffix = "process", ""
	case "setImmediate":
		moduleKey, suffix = "timers", ".setImmediate"
	case "clearImmediate":
		moduleKey, suffix = "timers", ".clearImmediate"
	default:
		return
	}
	shimPkg, ok := m.sess.Resolver.Shims[moduleKey]
	if !ok || shimPkg == "" {
		return // no browser-side shim exists for this keyword's target environment
	}
	m.Replacements.Replace(0, 0, Literal("var "+name+" = require("+strutil.EncodeString(shimPkg, '"')+")"+suffix+";\n"))
}

// isJSRegexContext is the usual heuristic for telling a regex literal's
// leading `/` apart from a division operator: a regex can start wherever a
// value is not expected to continue, i.e. after an operator, punctuation,
// or nothing at all, but not directly after an identifier/number/closing
// bracket/quote.
func isJSRegexContext(prevSignificant byte) bool {
	switch prevSignificant {
	case 0, '(', ',', '=', ':', '[', '!', '&', '|', '?', '{', ';', '+', '-', '*', '%', '^', '~', '<', '>':
		return true
	default:
		return false
	}
}

// scanRegexLiteral scans a `/…/flags` literal starting at content[i]=='/'.
// It does not try to validate the character class / escape grammar beyond
// what's needed to find the terminating unescaped `/`.
func scanRegexLiteral(content string, i int) (int, bool) {
	start := i
	i++
	inClass := false
	for i < len(content) {
		c := content[i]
		switch {
		case c == '\\':
			i += 2
			continue
		case c == '\n':
			return start, false
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			i++
			for i < len(content) && isIdentPart(content[i]) {
				i++
			}
			return i, true
		}
		i++
	}
	return start, false
}
