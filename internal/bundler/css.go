package bundler

import (
	"strings"

	"github.com/modpack/bundler/internal/options"
	"github.com/modpack/bundler/internal/resolver"
	"github.com/modpack/bundler/internal/strutil"
)

// parseCSS implements spec.md §4.5's CSS scanner.
func (m *Module) parseCSS() {
	content := m.Content
	i := 0
	for i < len(content) {
		c := content[i]
		switch {
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

		case c == '"' || c == '\'':
			i = scanQuotedString(content, i)

		case atWordStart(content, i) && strings.HasPrefix(content[i:], "@import"):
			i = m.handleCssImport(i)

		case atWordStart(content, i) && hasPrefixFold(content[i:], "url("):
			i = m.handleBareCssURL(i)

		case atWordStart(content, i) && hasPrefixFold(content[i:], "src="):
			i = m.handleCssSrcFilter(i)

		default:
			i++
		}
	}
}

func atWordStart(content string, i int) bool {
	return i == 0 || !isIdentPart(content[i-1])
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// cssURLCall parses a `url(...)` call starting at content[start] (the 'u'),
// returning the call's [start,end) span, the unquoted URL text, and the
// quote character to re-wrap it in (defaults to `"`).
func cssURLCall(content string, start int) (end int, inner string, quote byte) {
	quote = '"'
	j := skipSpace(content, start+4)
	if j >= len(content) {
		return start + 4, "", quote
	}
	if content[j] == '"' || content[j] == '\'' {
		quote = content[j]
		litEnd := scanQuotedString(content, j)
		inner = strutil.DecodeString(content[j+1 : litEnd-1])
		j = skipSpace(content, litEnd)
	} else {
		litStart := j
		for j < len(content) && content[j] != ')' {
			j++
		}
		inner = strings.TrimSpace(content[litStart:j])
	}
	if j < len(content) && content[j] == ')' {
		j++
	}
	return j, inner, quote
}

func (m *Module) handleBareCssURL(start int) int {
	end, inner, quote := cssURLCall(m.Content, start)
	if inner == "" {
		return end
	}
	value, _, ok := m.resolveURLValue(inner, resolver.UsageInline, start)
	if !ok {
		return end
	}
	if strings.HasPrefix(value, "data:") {
		quote = '"'
	}
	m.Replacements.Replace(start, end, Literal("url("+strutil.EncodeString(value, quote)+")"))
	return end
}

// handleCssImport implements the four `css.import` dispositions (spec.md
// §4.5): none/false leaves the statement untouched, url rewrites the
// target in place, inline resolves + requires + deletes the whole
// statement, and function hands the raw URL to a user hook.
func (m *Module) handleCssImport(start int) int {
	content := m.Content
	j := skipSpace(content, start+len("@import"))

	var urlStart, urlEnd int
	var rawURL string
	switch {
	case j < len(content) && (content[j] == '"' || content[j] == '\''):
		urlStart = j
		urlEnd = scanQuotedString(content, j)
		rawURL = strutil.DecodeString(content[urlStart+1 : urlEnd-1])
	case hasPrefixFold(content[j:], "url("):
		urlStart = j
		var inner string
		urlEnd, inner, _ = cssURLCall(content, j)
		rawURL = inner
	default:
		return skipPastSemicolon(content, start)
	}

	stmtEnd := skipPastSemicolon(content, urlEnd)

	switch m.Options.Css.Import {
	case options.CssImportNone:
		return stmtEnd
	case options.CssImportURL:
		value, _, ok := m.resolveURLValue(rawURL, resolver.UsageLocal, urlStart)
		if !ok {
			return stmtEnd
		}
		m.Replacements.Replace(urlStart, urlEnd, Literal("url("+strutil.EncodeString(value, '"')+")"))
	case options.CssImportInline:
		_, target, ok := m.resolveURL(rawURL, resolver.UsageLocal, urlStart)
		if !ok {
			return stmtEnd
		}
		m.Require(target)
		m.Replacements.Replace(start, stmtEnd, Literal(""))
	case options.CssImportFunction:
		if m.Options.Css.ImportFunction != nil {
			if out, handled := m.Options.Css.ImportFunction(rawURL); handled {
				m.Replacements.Replace(start, stmtEnd, Literal(out))
			}
		}
	}
	return stmtEnd
}

func skipPastSemicolon(content string, from int) int {
	for i := from; i < len(content); i++ {
		if content[i] == ';' {
			return i + 1
		}
		if content[i] == '\n' {
			return i
		}
	}
	return len(content)
}

// handleCssSrcFilter recognises the IE `filter:` property's
// `src='...'`/`src="..."` form, e.g.
// `progid:DXImageTransform.Microsoft.AlphaImageLoader(src='x.png')`.
func (m *Module) handleCssSrcFilter(start int) int {
	content := m.Content
	j := skipSpace(content, start+4)
	if j >= len(content) || (content[j] != '"' && content[j] != '\'') {
		return start + 4
	}
	quote := content[j]
	litEnd := scanQuotedString(content, j)
	raw := strutil.DecodeString(content[j+1 : litEnd-1])
	value, _, ok := m.resolveURLValue(raw, resolver.UsageInline, j)
	if !ok {
		return litEnd
	}
	m.Replacements.Replace(j, litEnd, Literal(strutil.EncodeString(value, quote)))
	return litEnd
}
