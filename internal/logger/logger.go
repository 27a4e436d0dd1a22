// Package logger collects build diagnostics the way a clang-style compiler
// does: each message carries the offending source snippet, a byte offset
// turned into a line/column, and a severity. Nothing here ever panics on a
// malformed input; bad input is reported and the caller decides whether to
// continue.
package logger

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Kind distinguishes a hard problem from an informational one.
type Kind uint8

const (
	Error Kind = iota
	Warning
	Note
)

func (k Kind) String() string {
	switch k {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Source is the read-only identity of a file's text content, reused as the
// origin for both diagnostics and source-map positions.
type Source struct {
	// PrettyPath is what gets printed in diagnostics (usually relative to
	// the build root).
	PrettyPath string
	Contents   string
}

// LocationForIndex turns a byte offset into Contents into a 1-based line, a
// 0-based column (in bytes), and the text of the offending line.
func (s Source) LocationForIndex(index int, length int) Location {
	if index < 0 {
		index = 0
	}
	if index > len(s.Contents) {
		index = len(s.Contents)
	}
	line := 1
	lineStart := 0
	for i := 0; i < index; i++ {
		if s.Contents[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	lineEnd := len(s.Contents)
	if nl := strings.IndexByte(s.Contents[lineStart:], '\n'); nl != -1 {
		lineEnd = lineStart + nl
	}
	return Location{
		File:     s.PrettyPath,
		Line:     line,
		Column:   index - lineStart,
		Length:   length,
		LineText: s.Contents[lineStart:lineEnd],
	}
}

// Location is a rendered source position, detached from the Source it was
// computed from so that a Msg can outlive the buffer it was parsed from.
type Location struct {
	File       string
	Line       int // 1-based
	Column     int // 0-based, in bytes
	Length     int
	LineText   string
	Suggestion string
}

// Msg is one reportable condition: an unresolved URL, a circular include, a
// mismatched preprocessor directive, a user #error/#warning, and so on.
type Msg struct {
	Kind     Kind
	Text     string
	Location *Location
	Notes    []string
	Cause    error
}

// Log accumulates messages for one build. It is safe for concurrent use
// because module loads can run concurrently (see internal/bundler's use of
// singleflight).
type Log struct {
	mutex sync.Mutex
	msgs  []Msg
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) AddError(loc *Location, text string) {
	l.add(Msg{Kind: Error, Text: text, Location: loc})
}

func (l *Log) AddWarning(loc *Location, text string) {
	l.add(Msg{Kind: Warning, Text: text, Location: loc})
}

func (l *Log) AddErrorWithCause(loc *Location, text string, cause error) {
	l.add(Msg{Kind: Error, Text: text, Location: loc, Cause: cause})
}

func (l *Log) AddMsg(msg Msg) {
	l.add(msg)
}

func (l *Log) add(msg Msg) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *Log) HasErrors() bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	for _, msg := range l.msgs {
		if msg.Kind == Error {
			return true
		}
	}
	return false
}

// Done returns a stable, sorted snapshot of every message recorded so far.
func (l *Log) Done() []Msg {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	msgs := make([]Msg, len(l.msgs))
	copy(msgs, l.msgs)
	sort.SliceStable(msgs, func(i, j int) bool {
		ai, aj := msgs[i].Location, msgs[j].Location
		if ai == nil || aj == nil {
			return ai == nil && aj != nil
		}
		if ai.File != aj.File {
			return ai.File < aj.File
		}
		if ai.Line != aj.Line {
			return ai.Line < aj.Line
		}
		return ai.Column < aj.Column
	})
	return msgs
}

// MsgString renders one message the way clang does: "file:line:col: kind:
// text", the offending line, and a caret under the offending range.
func MsgString(colors Colors, msg Msg) string {
	colors = colors.withDefaults()
	var sb strings.Builder
	kindColor := colors.Red
	if msg.Kind == Warning {
		kindColor = colors.Yellow
	} else if msg.Kind == Note {
		kindColor = colors.Dim
	}

	if loc := msg.Location; loc != nil {
		fmt.Fprintf(&sb, "%s: %s: %s\n",
			colors.Bold(fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Column+1)),
			kindColor(msg.Kind.String()), msg.Text)
		if loc.LineText != "" {
			sb.WriteString(loc.LineText)
			sb.WriteByte('\n')
			col := loc.Column
			if col > len(loc.LineText) {
				col = len(loc.LineText)
			}
			sb.WriteString(strings.Repeat(" ", col))
			length := loc.Length
			if length < 1 {
				length = 1
			}
			sb.WriteString(colors.Green(strings.Repeat("^", length)))
			sb.WriteByte('\n')
		}
	} else {
		fmt.Fprintf(&sb, "%s: %s\n", kindColor(msg.Kind.String()), msg.Text)
	}
	for _, note := range msg.Notes {
		fmt.Fprintf(&sb, "  %s: %s\n", colors.Dim("note"), note)
	}
	return sb.String()
}
