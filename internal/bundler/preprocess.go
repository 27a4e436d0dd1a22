package bundler

import (
	"regexp"

	"github.com/modpack/bundler/internal/strutil"
)

// directivePattern matches spec.md §6's comment-directive grammar: a line
// inside any comment of the form `#name rest-of-line`.
var directivePattern = regexp.MustCompile(`#(include|external|require|target|if|else|elif|endif|region|endregion|error|warning|extract-css)\s*([^\r\n]*)`)

type preFrameKind uint8

const (
	preFrameIf preFrameKind = iota
	preFrameElif
	preFrameElse
	preFrameRegion
)

type preFrame struct {
	kind  preFrameKind
	truth bool
	// matched records whether this frame or any earlier frame in the same
	// #if/#elif/#else chain has already been truthy, so a later #elif's own
	// condition can be forced false once first-match has happened — first
	// match wins, not every truthy branch.
	matched bool
}

// directiveSite is the position information one comment contributes to its
// directives: `report` is where a diagnostic for this specific directive
// should point, while `commentStart`/`commentEnd` bound the comment as a
// whole. Hidden regions open/close at the comment's boundary rather than
// the directive's own text offset, since a directive's entire comment is
// deleted separately (spec.md §9 Open Questions) and only the ordinary
// content between two directive comments should ever be hidden.
type directiveSite struct {
	report       int
	commentStart int
	commentEnd   int
}

// scanDirectives runs spec.md §6's directive grammar over one comment body
// (already located by the kind scanner) and dispatches each match found.
// It returns true if at least one directive matched, so the caller knows
// whether to delete the whole comment.
func (m *Module) scanDirectives(body string, bodyOffset, commentStart, commentEnd int) bool {
	matched := false
	for _, loc := range directivePattern.FindAllStringSubmatchIndex(body, -1) {
		matched = true
		name := body[loc[2]:loc[3]]
		arg := strutil.TrimQuotes(body[loc[4]:loc[5]])
		site := directiveSite{
			report:       bodyOffset + loc[0],
			commentStart: commentStart,
			commentEnd:   commentEnd,
		}
		m.dispatchDirective(name, arg, site)
	}
	return matched
}

func (m *Module) dispatchDirective(name, arg string, site directiveSite) {
	switch name {
	case "if":
		m.directiveIf(arg, site)
	case "elif":
		m.directiveElif(arg, site)
	case "else":
		m.directiveElse(site)
	case "endif":
		m.directiveEndif(site)
	case "region":
		m.directiveRegion(arg, site)
	case "endregion":
		m.directiveEndregion(site)
	case "error":
		loc := m.Source.LocationForIndex(site.report, len(arg))
		m.sess.Log.AddError(&loc, arg)
	case "warning":
		loc := m.Source.LocationForIndex(site.report, len(arg))
		m.sess.Log.AddWarning(&loc, arg)
	case "include":
		m.directiveInclude(arg, site)
	case "external":
		m.directiveExternal(arg, site)
	case "require":
		m.directiveRequire(arg, site)
	case "target":
		m.directiveTarget(arg, site)
	case "extract-css":
		m.Options.ExtractCss = true
	}
}

func (m *Module) evalTruthy(expr string, atIndex int) bool {
	v, err := m.evalExpr(expr)
	if err != nil {
		loc := m.Source.LocationForIndex(atIndex, len(expr))
		m.sess.Log.AddErrorWithCause(&loc, "failed to evaluate preprocessor expression '"+expr+"'", err)
		return false // evaluation errors yield null, treated as falsy (spec.md §4.3)
	}
	return isTruthy(v)
}

func (m *Module) directiveIf(expr string, site directiveSite) {
	truth := m.evalTruthy(expr, site.report)
	m.preStack = append(m.preStack, preFrame{kind: preFrameIf, truth: truth, matched: truth})
	if !truth {
		m.Replacements.BeginHiddenRegion(site.commentEnd)
	}
}

// directiveElif retires the current top frame the way `#else` would (closing
// its hidden region if one is open) and relabels it `elif` so `#endif` can
// recognise and discard it, then pushes a fresh active `if` frame evaluating
// the new expression — spec.md §4.3: "Close prior (as if #else), set
// top.kind = elif, then perform a new #if." Once any earlier frame in the
// chain already matched, the new frame is forced false regardless of its own
// expression: first match wins, so a later truthy `#elif` must stay hidden.
func (m *Module) directiveElif(expr string, site directiveSite) {
	if len(m.preStack) == 0 {
		m.warnMismatched("#elif", site.report)
		return
	}
	top := len(m.preStack) - 1
	retiring := m.preStack[top]
	alreadyMatched := retiring.matched
	if !retiring.truth {
		m.Replacements.EndHiddenRegion(site.commentStart)
	}
	retiring.truth = !retiring.truth
	retiring.kind = preFrameElif
	m.preStack[top] = retiring

	truth := m.evalTruthy(expr, site.report)
	if alreadyMatched {
		truth = false
	}
	m.preStack = append(m.preStack, preFrame{kind: preFrameIf, truth: truth, matched: alreadyMatched || truth})
	if !truth {
		m.Replacements.BeginHiddenRegion(site.commentEnd)
	}
}

func (m *Module) directiveElse(site directiveSite) {
	if len(m.preStack) == 0 {
		m.warnMismatched("#else", site.report)
		return
	}
	top := len(m.preStack) - 1
	frame := m.preStack[top]
	alreadyMatched := frame.matched
	if !frame.truth {
		m.Replacements.EndHiddenRegion(site.commentStart)
	}
	frame.truth = !alreadyMatched
	frame.kind = preFrameElse
	frame.matched = true
	m.preStack[top] = frame
	if !frame.truth {
		m.Replacements.BeginHiddenRegion(site.commentEnd)
	}
}

// directiveEndif pops the active frame (an `if` with no elif/else, the
// final `elif`'s pushed `if`, or an `else`), then discards every retired
// `elif` marker frame left underneath it.
func (m *Module) directiveEndif(site directiveSite) {
	if len(m.preStack) == 0 {
		m.warnMismatched("#endif", site.report)
		return
	}
	top := len(m.preStack) - 1
	active := m.preStack[top]
	if active.kind != preFrameIf && active.kind != preFrameElse {
		m.warnMismatched("#endif", site.report)
		return
	}
	if !active.truth {
		m.Replacements.EndHiddenRegion(site.commentStart)
	}
	m.preStack = m.preStack[:top]

	for len(m.preStack) > 0 && m.preStack[len(m.preStack)-1].kind == preFrameElif {
		m.preStack = m.preStack[:len(m.preStack)-1]
	}
}

func (m *Module) directiveRegion(name string, site directiveSite) {
	v, ok := m.Options.Region[name]
	truth := !ok || v // `options.region[name] !== false`: absent or true-ish is enabled
	m.preStack = append(m.preStack, preFrame{kind: preFrameRegion, truth: truth})
	if !truth {
		m.Replacements.BeginHiddenRegion(site.commentEnd)
	}
}

func (m *Module) directiveEndregion(site directiveSite) {
	if len(m.preStack) == 0 {
		m.warnMismatched("#endregion", site.report)
		return
	}
	top := len(m.preStack) - 1
	frame := m.preStack[top]
	if frame.kind != preFrameRegion {
		m.warnMismatched("#endregion", site.report)
		return
	}
	if !frame.truth {
		m.Replacements.EndHiddenRegion(site.commentStart)
	}
	m.preStack = m.preStack[:top]
}

func (m *Module) warnMismatched(directive string, atIndex int) {
	loc := m.Source.LocationForIndex(atIndex, len(directive))
	m.sess.Log.AddWarning(&loc, "mismatched "+directive+" directive")
}
