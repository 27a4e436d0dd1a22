package bundler

import (
	"regexp"

	"github.com/modpack/bundler/internal/options"
	"github.com/modpack/bundler/internal/resolver"
	"github.com/modpack/bundler/internal/strutil"
)

// macroCallPattern implements spec.md §6's macro-call grammar:
// `__(url|skip|postfix|macro|include|external|require|target)\s*(\s*<ARG>\s*)`
// where <ARG> is a single/double-quoted string or a bare token up to `)`.
// Anchored so kind scanners can test it against content[i:] at a candidate
// `__` position.
var macroCallPattern = regexp.MustCompile(`^__(url|skip|postfix|macro|include|external|require|target)\s*\(\s*('(?:\\.|[^'\\])*'|"(?:\\.|[^"\\])*"|[^)]*?)\s*\)`)

// tryMacroCall attempts to match and handle a macro call starting at byte
// offset `at`. It returns the absolute end offset and true on a match.
func (m *Module) tryMacroCall(content string, at int) (int, bool) {
	loc := macroCallPattern.FindStringSubmatchIndex(content[at:])
	if loc == nil {
		return at, false
	}
	name := content[at+loc[2] : at+loc[3]]
	rawArg := content[at+loc[4] : at+loc[5]]
	end := at + loc[1]
	m.handleMacro(name, strutil.TrimQuotes(rawArg), at, end)
	return end, true
}

func (m *Module) handleMacro(name, arg string, start, end int) {
	switch name {
	case "url":
		url, _, ok := m.resolveURLValue(arg, resolver.UsageInline, start)
		if !ok {
			m.Replacements.Replace(start, end, Literal("null"))
			return
		}
		m.Replacements.Replace(start, end, Literal(strutil.EncodeString(url, '"')))

	case "skip":
		m.Replacements.Replace(start, end, Literal(strutil.EncodeString(arg, '"')))

	case "postfix":
		post := m.Options.URL.Postfix
		if m.Options.URL.PostfixFunc != nil {
			post = m.Options.URL.PostfixFunc(arg)
		}
		m.Replacements.Replace(start, end, Literal(strutil.EncodeString(post, '"')))

	case "macro":
		m.Replacements.Replace(start, end, Literal(strutil.EncodeString(arg, '"')))

	case "include":
		result, target, ok := m.resolveURL(arg, resolver.UsageLocal, start)
		if !ok {
			return
		}
		if m.Include(target) {
			m.Replacements.Replace(start, end, InlineModule(target))
		} else {
			loc := m.Source.LocationForIndex(start, len(arg))
			m.sess.Log.AddWarning(&loc, "circular include with '"+target.File.Base()+"'")
			url := m.buildURL(result, m.relPathFrom(target.File.AbsPath), false)
			m.Replacements.Replace(start, end, Literal(strutil.EncodeString(url, '"')))
		}

	case "external":
		_, target, ok := m.resolveURL(arg, resolver.UsageLocal, start)
		if ok {
			m.External(target)
		}
		m.Replacements.Replace(start, end, Literal(""))

	case "require":
		result, target, ok := m.resolveURL(arg, resolver.UsageRequire, start)
		if !ok {
			return
		}
		m.Require(target)
		rel := m.relPathFrom(target.File.AbsPath) + result.Query + result.Hash
		m.Replacements.Replace(start, end, Literal(strutil.EncodeString(rel, '"')))

	case "target":
		if t, ok := options.ParseTarget(arg); ok {
			m.Target = t
		} else {
			loc := m.Source.LocationForIndex(start, len(arg))
			m.sess.Log.AddWarning(&loc, "invalid #target '"+arg+"'")
		}
		m.Replacements.Replace(start, end, Literal(""))
	}
}

// directiveInclude is the comment-directive form of `__include(...)`
// (spec.md §6): it additionally anchors its zero-width insertion at the
// enclosing comment's own start rather than a macro call's own span, so it
// can coexist with that comment's whole-body deletion (spec.md §9 Open
// Questions).
func (m *Module) directiveInclude(arg string, site directiveSite) {
	result, target, ok := m.resolveURL(arg, resolver.UsageLocal, site.report)
	if !ok {
		return
	}
	if m.Include(target) {
		m.Replacements.InsertAt(site.commentStart, InlineModule(target))
	} else {
		loc := m.Source.LocationForIndex(site.report, len(arg))
		m.sess.Log.AddWarning(&loc, "circular include with '"+target.File.Base()+"'")
		url := m.buildURL(result, m.relPathFrom(target.File.AbsPath), false)
		m.Replacements.InsertAt(site.commentStart, Literal(url))
	}
}

func (m *Module) directiveExternal(arg string, site directiveSite) {
	_, target, ok := m.resolveURL(arg, resolver.UsageLocal, site.report)
	if ok {
		m.External(target)
	}
}

func (m *Module) directiveRequire(arg string, site directiveSite) {
	_, target, ok := m.resolveURL(arg, resolver.UsageRequire, site.report)
	if ok {
		m.Require(target)
	}
}

func (m *Module) directiveTarget(arg string, site directiveSite) {
	if t, ok := options.ParseTarget(arg); ok {
		m.Target = t
		return
	}
	loc := m.Source.LocationForIndex(site.report, len(arg))
	m.sess.Log.AddWarning(&loc, "invalid #target '"+arg+"'")
}
