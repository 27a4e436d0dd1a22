package bundler

import (
	"strings"

	"github.com/modpack/bundler/internal/resolver"
)

var htmlVoidTags = map[string]bool{
	"img": true, "link": true, "object": true, "embed": true,
	"audio": true, "video": true, "source": true, "a": true,
	"base": true, "form": true, "input": true, "button": true,
}

// htmlAttr is one parsed attribute's name/value spans within m.Content.
type htmlAttr struct {
	hasValue           bool
	valStart, valEnd   int
	nameStart, nameEnd int
	quote              byte // 0 means unquoted
}

// parseHTML implements spec.md §4.5's HTML scanner: a manual left-to-right
// sweep over `<` boundaries standing in for the regex alternation the
// spec describes, since telling apart comments / template markers /
// script-style bodies / attribute-bearing tags needs more lookahead than a
// single alternation branch comfortably expresses in Go's RE2 engine
// (no backreferences for matching a tag's own closing delimiter).
func (m *Module) parseHTML() {
	content := m.Content
	i := 0
	for i < len(content) {
		if content[i] != '<' {
			i++
			continue
		}
		rest := content[i:]
		switch {
		case strings.HasPrefix(rest, "<!--"):
			i = m.handleHTMLComment(i)
		case hasPrefixFold(rest, "<%"):
			i = skipPastMarker(content, i, "%>")
		case hasPrefixFold(rest, "<?"):
			i = skipPastMarker(content, i, "?>")
		case hasPrefixFold(rest, "<#"):
			i = skipPastMarker(content, i, "#>")
		case hasPrefixFold(rest, "<!"):
			if end := skipPastMarker(content, i, "!>"); end > i+2 {
				i = end
			} else {
				i = skipUnknownTag(content, i)
			}
		case matchesTagName(rest, "script"):
			i = m.handleScriptOrStyle(i, "script", KindJS, ".js")
		case matchesTagName(rest, "style"):
			i = m.handleScriptOrStyle(i, "style", KindCSS, ".css")
		default:
			if name, ok := htmlTagNameAt(rest); ok && htmlVoidTags[name] {
				i = m.handleGenericTag(i, name)
			} else {
				i = skipUnknownTag(content, i)
			}
		}
	}
}

func (m *Module) handleHTMLComment(start int) int {
	content := m.Content
	rel := strings.Index(content[start+4:], "-->")
	var end int
	if rel == -1 {
		end = len(content)
	} else {
		end = start + 4 + rel + 3
	}
	bodyEnd := end
	if rel != -1 {
		bodyEnd = start + 4 + rel
	}
	if m.scanDirectives(content[start+4:bodyEnd], start+4, start, end) {
		m.Replacements.Replace(start, end, Literal(""))
	}
	return end
}

func skipPastMarker(content string, start int, closer string) int {
	rel := strings.Index(content[start+2:], closer)
	if rel == -1 {
		return len(content)
	}
	return start + 2 + rel + len(closer)
}

// skipUnknownTag advances past a tag this scanner doesn't specially
// recognise (closing tags, doctype, tags outside htmlVoidTags), honouring
// quoted attribute values that might themselves contain '>'.
func skipUnknownTag(content string, start int) int {
	tagEnd, _, _ := parseHTMLAttrs(content, start+1)
	return tagEnd
}

func matchesTagName(rest, name string) bool {
	n, ok := htmlTagNameAt(rest)
	return ok && n == name
}

// htmlTagNameAt returns the lowercased tag name at the start of an opening
// tag `rest` (which begins with '<'), or ok=false if `rest` isn't an
// opening tag at all (e.g. a closing tag or doctype).
func htmlTagNameAt(rest string) (string, bool) {
	if len(rest) < 2 || rest[0] != '<' || !isHTMLNameStart(rest[1]) {
		return "", false
	}
	j := 1
	for j < len(rest) && isHTMLNameChar(rest[j]) {
		j++
	}
	return strings.ToLower(rest[1:j]), true
}

func isHTMLNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isHTMLNameChar(c byte) bool {
	return isHTMLNameStart(c) || (c >= '0' && c <= '9') || c == '-' || c == ':'
}

// parseHTMLAttrs scans an opening tag's attribute list starting right
// after the tag name, returning the index just past the tag's closing '>'.
func parseHTMLAttrs(content string, i int) (tagEnd int, selfClose bool, attrs map[string]htmlAttr) {
	attrs = map[string]htmlAttr{}
	for i < len(content) {
		i = skipSpace(content, i)
		if i >= len(content) {
			return i, selfClose, attrs
		}
		if content[i] == '>' {
			return i + 1, selfClose, attrs
		}
		if content[i] == '/' {
			if i+1 < len(content) && content[i+1] == '>' {
				return i + 2, true, attrs
			}
			i++
			continue
		}
		nameStart := i
		for i < len(content) && content[i] != '=' && content[i] != '>' && content[i] != '/' &&
			content[i] != ' ' && content[i] != '\t' && content[i] != '\n' && content[i] != '\r' {
			i++
		}
		nameEnd := i
		if nameEnd == nameStart {
			i++
			continue
		}
		name := strings.ToLower(content[nameStart:nameEnd])
		a := htmlAttr{nameStart: nameStart, nameEnd: nameEnd}

		j := skipSpace(content, i)
		if j < len(content) && content[j] == '=' {
			k := skipSpace(content, j+1)
			if k < len(content) && (content[k] == '"' || content[k] == '\'') {
				valEnd := scanQuotedString(content, k)
				a.hasValue = true
				a.quote = content[k]
				a.valStart = k + 1
				a.valEnd = valEnd - 1
				i = valEnd
			} else {
				valStart := k
				for k < len(content) && content[k] != ' ' && content[k] != '\t' && content[k] != '\n' &&
					content[k] != '\r' && content[k] != '>' && content[k] != '/' {
					k++
				}
				a.hasValue = true
				a.valStart = valStart
				a.valEnd = k
				i = k
			}
		} else {
			i = nameEnd
		}
		attrs[name] = a
	}
	return i, selfClose, attrs
}

// stripAttr deletes one attribute's source text entirely (spec.md §4.5:
// "An __skip attribute on any tag suppresses parsing of that tag and is
// itself stripped").
func (m *Module) stripAttr(a htmlAttr) {
	end := a.nameEnd
	if a.hasValue {
		end = a.valEnd
		if a.quote != 0 {
			end++
		}
	}
	m.Replacements.Replace(a.nameStart, end, Literal(""))
}

func (m *Module) handleScriptOrStyle(tagStart int, tagName string, kind Kind, ext string) int {
	content := m.Content
	tagEnd, selfClose, attrs := parseHTMLAttrs(content, tagStart+1+len(tagName))

	if skipAttr, ok := attrs["__skip"]; ok {
		m.stripAttr(skipAttr)
	}
	if selfClose {
		return tagEnd
	}

	closeOpen := caseInsensitiveIndex(content, "</"+tagName, tagEnd)
	bodyEnd, closeEnd := len(content), len(content)
	if closeOpen != -1 {
		bodyEnd = closeOpen
		if gt := strings.IndexByte(content[closeOpen:], '>'); gt != -1 {
			closeEnd = closeOpen + gt + 1
		} else {
			closeEnd = len(content)
		}
	}

	if _, skip := attrs["__skip"]; skip {
		return closeEnd
	}

	if tagName == "script" {
		if src, ok := attrs["src"]; ok && src.hasValue {
			m.handleAttrURL(src)
			return closeEnd
		}
	}

	body := content[tagEnd:bodyEnd]
	if containsTemplateMarkers(body) {
		return closeEnd
	}
	if strings.TrimSpace(body) == "" {
		return closeEnd
	}
	inline := m.newInlineModule(ext, kind, body)
	m.Replacements.Replace(tagEnd, bodyEnd, InlineModule(inline))
	return closeEnd
}

func (m *Module) handleGenericTag(tagStart int, tagName string) int {
	content := m.Content
	tagEnd, _, attrs := parseHTMLAttrs(content, tagStart+1+len(tagName))

	if skipAttr, ok := attrs["__skip"]; ok {
		m.stripAttr(skipAttr)
		return tagEnd
	}

	for _, name := range attrsForTag(tagName) {
		a, ok := attrs[name]
		if !ok || !a.hasValue {
			continue
		}
		if name == "srcset" {
			m.handleSrcset(a)
		} else {
			m.handleAttrURL(a)
		}
	}
	return tagEnd
}

func attrsForTag(tag string) []string {
	switch tag {
	case "a", "base", "link":
		return []string{"href"}
	case "form":
		return []string{"action"}
	case "input", "button":
		return []string{"formaction"}
	case "object":
		return []string{"data"}
	case "img":
		return []string{"srcset", "src", "data-src"}
	default: // embed, audio, video, source
		return []string{"src", "data-src"}
	}
}

func (m *Module) handleAttrURL(a htmlAttr) {
	raw := m.Content[a.valStart:a.valEnd]
	if raw == "" {
		return
	}
	value, _, ok := m.resolveURLValue(raw, resolver.UsageLocal, a.valStart)
	if !ok {
		return
	}
	m.Replacements.Replace(a.valStart, a.valEnd, Literal(value))
}

// handleSrcset sub-scans the comma-separated `url Nx`/`url Nw` form
// (spec.md §4.5: "srcset on <img> (sub-scanned for the comma-separated
// url Nx form)").
func (m *Module) handleSrcset(a htmlAttr) {
	raw := m.Content[a.valStart:a.valEnd]
	parts := strings.Split(raw, ",")
	rewritten := make([]string, 0, len(parts))
	cursor := a.valStart
	for idx, part := range parts {
		trimmed := strings.TrimSpace(part)
		fields := strings.Fields(trimmed)
		if len(fields) == 0 {
			rewritten = append(rewritten, trimmed)
		} else {
			descriptor := ""
			if len(fields) > 1 {
				descriptor = " " + strings.Join(fields[1:], " ")
			}
			value, _, ok := m.resolveURLValue(fields[0], resolver.UsageLocal, cursor)
			if ok {
				rewritten = append(rewritten, value+descriptor)
			} else {
				rewritten = append(rewritten, trimmed)
			}
		}
		cursor += len(part)
		if idx < len(parts)-1 {
			cursor++ // the comma
		}
	}
	m.Replacements.Replace(a.valStart, a.valEnd, Literal(strings.Join(rewritten, ", ")))
}

func containsTemplateMarkers(s string) bool {
	return strings.Contains(s, "<%") || strings.Contains(s, "<?") || strings.Contains(s, "<#")
}

func caseInsensitiveIndex(haystack, needle string, from int) int {
	if from > len(haystack) {
		return -1
	}
	idx := strings.Index(strings.ToLower(haystack[from:]), strings.ToLower(needle))
	if idx == -1 {
		return -1
	}
	return from + idx
}
