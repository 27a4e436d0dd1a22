// Package bundle is the module graph engine's public surface, spec.md §6's
// "External Interfaces": getModule, Module.save/write, resolveQuery, and
// the decodeString/encodeString/trimQuotes string-literal helpers. Every
// other package under internal/ is an implementation detail a host program
// never imports directly.
package bundle

import (
	"github.com/modpack/bundler/internal/bundler"
	"github.com/modpack/bundler/internal/fsys"
	"github.com/modpack/bundler/internal/options"
	"github.com/modpack/bundler/internal/resolver"
	"github.com/modpack/bundler/internal/strutil"
	"github.com/modpack/bundler/internal/writer"
)

// Session owns one build's module cache, logger, resolver, and base option
// set (spec.md §9 Design Notes). Construct with NewSession.
type Session = bundler.Session

// Module is spec.md §3's abstract Module.
type Module = bundler.Module

// Kind is spec.md §3's module `type`.
type Kind = bundler.Kind

const (
	KindResource = bundler.KindResource
	KindBinary   = bundler.KindBinary
	KindText     = bundler.KindText
	KindJS       = bundler.KindJS
	KindJSON     = bundler.KindJSON
	KindCSS      = bundler.KindCSS
	KindHTML     = bundler.KindHTML
)

// Options is the fully-resolved per-module option set (spec.md §3).
type Options = options.Options

// Target is the module-emission dialect (spec.md GLOSSARY).
type Target = options.Target

const (
	TargetUnset     = options.TargetUnset
	TargetBrowser   = options.TargetBrowser
	TargetNodeJS    = options.TargetNodeJS
	TargetTpack     = options.TargetTpack
	TargetRequireJS = options.TargetRequireJS
)

// FS is the filesystem capability a Session is built on (spec.md §1's file
// I/O external collaborator).
type FS = fsys.FS

// Writer is spec.md §2's output collaborator.
type Writer = bundler.Writer

// QueryValue is resolveQuery's result, a discriminated Flag/Bytes/None
// union rather than spec.md §6's overloaded "-1 or null" numeric return
// (spec.md §9 Open Questions resolves this explicitly in the discriminated
// union's favour, since a caller checking `n == -1` can't tell a true flag
// from an explicit `?name=-1`).
type QueryValue = resolver.QueryValue

const (
	QueryNone  = resolver.QueryNone
	QueryFlag  = resolver.QueryFlag
	QueryBytes = resolver.QueryBytes
)

// ResolveResult is the ResolveResult spec.md §3 describes: the resolver's
// settled absolute path plus any surviving query/hash and alias record.
type ResolveResult = resolver.Result

// NewSession opens a build session over fs with a base option set every
// module inherits from unless overridden by options.module (spec.md §4.7).
func NewSession(fs FS, base Options) *Session {
	return bundler.NewSession(fs, base)
}

// NewRealFS is the default FS: the host's actual disk.
func NewRealFS() FS { return fsys.NewRealFS() }

// NewMockFS is an in-memory FS, handy for tests and for hosts that already
// hold their asset tree in memory.
func NewMockFS(files map[string]string) FS { return fsys.NewMockFS(files) }

// Defaults returns target's baseline option set (spec.md §4.7).
func Defaults(target Target) Options { return options.Defaults(target) }

// GetModule is spec.md §6's `getModule(file, options) -> Module`: memoised
// on the file's absolute path, loaded exactly once per session.
func GetModule(sess *Session, absPath string) *Module {
	return sess.GetModule(absPath)
}

// NewWriter opens a default Writer, optionally accumulating a V3 source map
// (spec.md §3 output.sourceMap). Module.Save already opens one of these
// internally; this is for a host driving Module.Write directly.
func NewWriter(withSourceMap bool) *writer.Default {
	return writer.New(withSourceMap)
}

// ResolveQuery is spec.md §6's `resolveQuery(resolveResult, name)`: finds
// the `?name`/`?name=value` pair, strips it from result's query string, and
// reports whether it was a bare flag or carried a numeric value.
func ResolveQuery(result *ResolveResult, name string) QueryValue {
	return resolver.ResolveQuery(result, name)
}

// DecodeString turns a quoted string literal's escape sequences into their
// literal characters (spec.md §6).
func DecodeString(v string) string { return strutil.DecodeString(v) }

// EncodeString is DecodeString's inverse (spec.md §6).
func EncodeString(v string, quoteChar byte) string { return strutil.EncodeString(v, quoteChar) }

// TrimQuotes strips one layer of matching quotes, parens, or a leading `=`
// from a directive argument (spec.md §6).
func TrimQuotes(v string) string { return strutil.TrimQuotes(v) }
