package logger

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Colors wraps each severity/emphasis in a styling function. The teacher
// (esbuild) detects terminal capability with raw per-platform ioctl calls
// and hand-written ANSI codes; here the same "is this a color-capable
// terminal, and how should each span be styled" question is answered with
// github.com/mattn/go-isatty and github.com/fatih/color, matching how the
// rest of the pack (grafana-k6, BrianLeishman-hugo) does colorized CLI
// output.
type Colors struct {
	Bold, Dim, Red, Yellow, Green func(string) string
}

// TerminalInfo mirrors esbuild's GetTerminalInfo, minus the ioctl-derived
// window size — messages here are rendered one per line rather than
// word-wrapped, so a terminal width isn't needed.
type TerminalInfo struct {
	IsTTY           bool
	UseColorEscapes bool
}

func GetTerminalInfo(file *os.File) TerminalInfo {
	isTTY := isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
	return TerminalInfo{
		IsTTY:           isTTY,
		UseColorEscapes: isTTY && !hasNoColorEnv(),
	}
}

func hasNoColorEnv() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

var identity = func(s string) string { return s }

// withDefaults fills any unset styling function with a passthrough, so a
// zero-value Colors{} (as constructed directly in tests) never panics.
func (c Colors) withDefaults() Colors {
	if c.Bold == nil {
		c.Bold = identity
	}
	if c.Dim == nil {
		c.Dim = identity
	}
	if c.Red == nil {
		c.Red = identity
	}
	if c.Yellow == nil {
		c.Yellow = identity
	}
	if c.Green == nil {
		c.Green = identity
	}
	return c
}

// ColorsFor returns either live styling functions or plain-text passthrough,
// mirroring esbuild's own "NO_COLOR falls back to Colors{}" convention.
func ColorsFor(info TerminalInfo) Colors {
	if !info.UseColorEscapes {
		return Colors{Bold: identity, Dim: identity, Red: identity, Yellow: identity, Green: identity}
	}
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)
	return Colors{
		Bold:   func(s string) string { return bold.Sprint(s) },
		Dim:    func(s string) string { return dim.Sprint(s) },
		Red:    func(s string) string { return red.Sprint(s) },
		Yellow: func(s string) string { return yellow.Sprint(s) },
		Green:  func(s string) string { return green.Sprint(s) },
	}
}
