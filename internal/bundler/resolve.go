package bundler

import "github.com/modpack/bundler/internal/resolver"

// resolveURL runs the module's resolver pipeline for one discovered URL,
// reports any diagnostic at the given byte offset, and (when resolution
// succeeds) returns the target Module, fully loaded. `ok` is false when
// resolution was skipped or failed; the caller should leave the original
// text untouched in that case.
func (m *Module) resolveURL(rawURL string, usage resolver.Usage, atIndex int) (*resolver.Result, *Module, bool) {
	result, diag := m.sess.Resolver.Resolve(m.File, m.Options, m.cache, rawURL, usage)
	if diag != nil {
		loc := m.Source.LocationForIndex(atIndex, len(rawURL))
		m.sess.Log.AddMsg(diag.ToLogMsg(&loc))
	}
	if result == nil {
		return nil, nil, false
	}
	target := m.sess.GetModule(result.AbsPath)
	return result, target, true
}

// buildURL composes the final emitted URL string for a ResolveResult,
// applying spec.md §4.6's "original path or alias, applied url.postfix
// (suppressed if the URL carried ?__postfix=0), public-path alias table,
// and the preserved ?query/#hash" ordering.
func (m *Module) buildURL(result *resolver.Result, relPath string, suppressPostfix bool) string {
	path := relPath
	if m.Options.URL.PublicPath != "" {
		path = m.Options.URL.PublicPath + trimLeadingDotSlash(relPath)
	}
	if !suppressPostfix {
		if m.Options.URL.PostfixFunc != nil {
			path += m.Options.URL.PostfixFunc(path)
		} else if m.Options.URL.Postfix != "" {
			path += m.Options.URL.Postfix
		}
	}
	return path + result.Query + result.Hash
}

func trimLeadingDotSlash(p string) string {
	if len(p) >= 2 && p[0] == '.' && p[1] == '/' {
		return p[2:]
	}
	return p
}

// relPathFrom rebases target relative to m's own directory the way
// spec.md's CommonJS chain scenario rewrites `require("./b")` into
// `"./b.js"` once the extension search has settled on a concrete file.
func (m *Module) relPathFrom(target string) string {
	rel, err := m.File.FS.Rel(m.File.Dir(), target)
	if err != nil {
		return target
	}
	rel = filepathToSlash(rel)
	if len(rel) == 0 || (rel[0] != '.' && rel[0] != '/') {
		rel = "./" + rel
	}
	return rel
}

func filepathToSlash(p string) string {
	out := make([]byte, len(p))
	for i := 0; i < len(p); i++ {
		if p[i] == '\\' {
			out[i] = '/'
		} else {
			out[i] = p[i]
		}
	}
	return string(out)
}
