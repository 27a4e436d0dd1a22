package bundler

import (
	"encoding/base64"
	"mime"

	"github.com/modpack/bundler/internal/resolver"
)

// tryInline attempts spec.md §3/§8 Scenario 3's inline-as-data-URI path: it
// reads target's bytes, refuses (returns ok=false) when a numeric cap is
// given and exceeded, and otherwise base64-encodes them as a `data:` URI.
// A successful inline also records an includes edge, per Scenario 3
// ("page.includes contains icon.png") — the inlined bytes are folded into
// this module's own output, which is exactly what `includes` models.
//
// MIME sniffing is explicitly out of scope for the core (spec.md §2: "file
// I/O and MIME detection... external collaborators"); mime.TypeByExtension
// stands in for the host-provided classifier the spec assumes exists.
func (m *Module) tryInline(target *Module, cap int, unconditional bool) (string, bool) {
	data, err := target.File.Bytes()
	if err != nil {
		return "", false
	}
	if !unconditional && cap > 0 && len(data) > cap {
		return "", false
	}
	mimeType := mime.TypeByExtension(target.File.Ext())
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	uri := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	m.Include(target)
	return uri, true
}

// resolveURLValue runs the common "resolve, maybe inline, maybe skip,
// maybe suppress postfix, else build the rewritten URL" sequence shared by
// CSS `url(...)`, HTML `src`/`href`/`srcset` attributes, and the `__url`
// macro (spec.md §4.5, §4.6 "URL rewriting at emission time").
func (m *Module) resolveURLValue(rawURL string, usage resolver.Usage, atIndex int) (value string, target *Module, ok bool) {
	result, target, ok := m.resolveURL(rawURL, usage, atIndex)
	if !ok {
		return "", nil, false
	}

	switch q := resolver.ResolveQuery(result, "__inline"); q.Kind {
	case resolver.QueryFlag:
		if uri, did := m.tryInline(target, 0, true); did {
			return uri, target, true
		}
	case resolver.QueryBytes:
		if uri, did := m.tryInline(target, q.Bytes, false); did {
			return uri, target, true
		}
	case resolver.QueryNone:
		if m.Options.URL.Inline > 0 {
			if uri, did := m.tryInline(target, m.Options.URL.Inline, false); did {
				return uri, target, true
			}
		}
	}

	if skip := resolver.ResolveQuery(result, "__skip"); skip.Kind != resolver.QueryNone {
		return rawURL, target, true
	}

	suppressPostfix := false
	if postfix := resolver.ResolveQuery(result, "__postfix"); postfix.Kind == resolver.QueryBytes && postfix.Bytes == 0 {
		suppressPostfix = true
	}

	rel := m.relPathFrom(target.File.AbsPath)
	return m.buildURL(result, rel, suppressPostfix), target, true
}
