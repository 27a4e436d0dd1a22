// Package bundler is the module graph engine spec.md describes: parsing a
// file into replacement operations, resolving referenced URLs through the
// layered resolver, maintaining the includes/requires/externals relations,
// evaluating the preprocessor, and composing the final output. Grounded on
// esbuild's internal/bundler + internal/graph, generalized from esbuild's
// AST-based linking to this spec's regex-scanned, replacement-list model.
package bundler

import (
	"strings"

	"github.com/modpack/bundler/internal/fsys"
	"github.com/modpack/bundler/internal/logger"
	"github.com/modpack/bundler/internal/options"
	"github.com/modpack/bundler/internal/resolver"
	"github.com/modpack/bundler/internal/sourcemap"
)

// Kind is spec.md §3's module `type`.
type Kind uint8

const (
	KindResource Kind = iota
	KindBinary
	KindText
	KindJS
	KindJSON
	KindCSS
	KindHTML
)

// DetectKind implements spec.md §6's extension-based module-type detection.
func DetectKind(ext string) Kind {
	switch strings.ToLower(ext) {
	case ".html", ".htm", ".inc", ".shtm", ".shtml", ".jsp", ".asp", ".php", ".aspx", ".tpl", ".template":
		return KindHTML
	case ".xml", ".cshtml", ".vbhtml", ".txt", ".text", ".md", ".log":
		return KindText
	case ".js":
		return KindJS
	case ".json", ".map":
		return KindJSON
	case ".css":
		return KindCSS
	default:
		return KindResource
	}
}

func (k Kind) IsBinaryByDefault() bool {
	return k == KindResource
}

// Module is spec.md §3's abstract Module: one physical file that has been
// analysed, plus its discovered edges and pending edits.
type Module struct {
	File    *fsys.File
	Options options.Options
	Source  logger.Source
	Kind    Kind
	Target  options.Target

	// Content is the byte/char string against which every replacement
	// index refers. For binary kinds this holds the base64-ready raw
	// bytes as a string; for text kinds it's the decoded UTF-8 text.
	Content string

	Includes  *Relation
	Requires  *Relation
	Externals *Relation

	Replacements *ReplacementStore

	// InputMap is the source map this module's own contents already carry
	// (a `//# sourceMappingURL=` annotation on a pre-transpiled file), so
	// the Output Composer can report the file's true original positions
	// instead of synthetic ones (spec.md DOMAIN STACK).
	InputMap *sourcemap.Input

	inputSources map[string]string

	// ExtractCss is the sibling CssModule synthesised from this module's
	// embedded CSS, when Options.ExtractCss is set (spec.md §3).
	ExtractCss *Module

	sess   *Session
	cache  *resolver.Cache
	loaded bool

	// inlineCounter names this HTML module's synthetic `<script>`/`<style>`
	// inline files (spec.md §9: "a stable naming contract").
	inlineCounter int

	// requireShimsEmitted tracks which of the JS bare-keyword shims
	// (spec.md §4.5 "require exports module process global Buffer
	// setImmediate clearImmediate __dirname __filename") have already had
	// their prepend emitted for this module, each handled once per file.
	requireShimsEmitted map[string]bool

	// preStack is the preprocessor's `#if`/`#elif`/`#else`/`#endif`,
	// `#region`/`#endregion` frame stack (spec.md §4.3), live only during
	// load().
	preStack []preFrame
}

func newModule(sess *Session, file *fsys.File, opts options.Options) *Module {
	return &Module{
		File:                 file,
		Options:              opts,
		Kind:                 DetectKind(file.Ext()),
		Target:               opts.Target,
		Includes:             newRelation(),
		Requires:             newRelation(),
		Externals:            newRelation(),
		sess:                 sess,
		cache:                resolver.NewCache(),
		requireShimsEmitted:  map[string]bool{},
	}
}

// load runs exactly once per module (spec.md §3 Lifecycle): reads the
// file, sets up Source and Content and the replacement store, then
// delegates to the kind-specific scanner. There is no separate macro pass:
// `__url(...)`-style macro calls are recognised only inside the JS scanner,
// so CSS, HTML and the non-parsed kinds never expand them.
func (m *Module) load() {
	if m.loaded {
		return
	}
	m.loaded = true

	contents, err := m.File.Text()
	if err != nil {
		m.sess.Log.AddError(nil, "could not read '"+m.File.AbsPath+"': "+err.Error())
		contents = ""
	}
	m.Source = logger.Source{PrettyPath: m.File.AbsPath, Contents: contents}
	m.Content = contents
	m.Replacements = newReplacementStore(len(m.Content))
	m.loadInputSourceMap()

	switch m.Kind {
	case KindJS:
		m.parseJS()
	case KindCSS:
		m.parseCSS()
	case KindHTML:
		m.parseHTML()
	default:
		// resource, binary, text, json: parse() is a no-op (spec.md §4.5).
	}
}

// loadInputSourceMap decodes an existing `//# sourceMappingURL=` annotation
// on this module's own contents, so originAt can trace generated output
// back through it instead of reporting this file's synthetic positions.
// Never fails the build: a map file that cannot be read is ignored
// silently, and an unparseable one is just a warning.
func (m *Module) loadInputSourceMap() {
	url, ok := sourcemap.FindAnnotation(m.Content)
	if !ok {
		return
	}
	mapPath := m.File.Relative(url)
	data, err := m.sess.FS.ReadFile(mapPath)
	if err != nil {
		return
	}
	input, err := sourcemap.ParseInput(m.File.AbsPath, data)
	if err != nil {
		loc := m.Source.LocationForIndex(0, 0)
		m.sess.Log.AddWarning(&loc, "could not parse input source map '"+mapPath+"': "+err.Error())
		return
	}
	m.InputMap = input
}

// originAt translates a byte offset into m.Content to the position it
// originally came from, via m.InputMap. Falls back to m.Source/index
// unchanged when there's no input map or the map doesn't cover this
// position, so a module without its own source map behaves exactly as
// before.
func (m *Module) originAt(index int) (logger.Source, int) {
	if m.InputMap == nil {
		return m.Source, index
	}
	loc := m.Source.LocationForIndex(index, 0)
	origFile, origLine, origCol, ok := m.InputMap.OriginalPosition(loc.Line, loc.Column)
	if !ok {
		return m.Source, index
	}
	contents := m.originalContents(origFile)
	return logger.Source{PrettyPath: origFile, Contents: contents}, byteOffsetForLineCol(contents, origLine-1, origCol)
}

// originalContents best-effort reads the file an input source map's mapping
// names, relative to this module's own directory (the map's sourcesContent
// is not always present), caching per module since a map typically names
// only a handful of distinct originals.
func (m *Module) originalContents(file string) string {
	if m.inputSources == nil {
		m.inputSources = map[string]string{}
	}
	if contents, ok := m.inputSources[file]; ok {
		return contents
	}
	data, err := m.sess.FS.ReadFile(m.File.FS.Join(m.File.Dir(), file))
	contents := ""
	if err == nil {
		contents = string(data)
	}
	m.inputSources[file] = contents
	return contents
}

// byteOffsetForLineCol converts a (0-based line, 0-based byte column) pair
// back into a byte offset into contents — the inverse of
// logger.Source.LocationForIndex once its 1-based Line is reduced by one.
func byteOffsetForLineCol(contents string, line, col int) int {
	offset := 0
	for l := 0; l < line; l++ {
		nl := strings.IndexByte(contents[offset:], '\n')
		if nl == -1 {
			return len(contents)
		}
		offset += nl + 1
	}
	if offset+col > len(contents) {
		return len(contents)
	}
	return offset + col
}

// Include implements spec.md §4.4's `include(src, idx, B, name)`.
func (m *Module) Include(b *Module) bool {
	if b.hasIncluded(m) {
		return false
	}
	m.Includes.add(b)
	return true
}

// hasIncluded is reflexive-transitive over includes (spec.md §4.4).
func (m *Module) hasIncluded(target *Module) bool {
	visited := map[*Module]bool{}
	var dfs func(n *Module) bool
	dfs = func(n *Module) bool {
		if n == target {
			return true
		}
		if visited[n] {
			return false
		}
		visited[n] = true
		for _, c := range n.Includes.List() {
			if dfs(c) {
				return true
			}
		}
		return false
	}
	return dfs(m)
}

// Require implements spec.md §4.4's `require(src, idx, B, name)`: self
// ignored, deduplicated.
func (m *Module) Require(b *Module) {
	if b == m {
		return
	}
	m.Requires.add(b)
}

// External implements spec.md §4.4's `external(src, idx, B, name)`.
func (m *Module) External(b *Module) {
	if b == m {
		return
	}
	m.Externals.add(b)
}

// GetAllExternals implements spec.md §4.4: for each direct external B, DFS
// over B.requires ∪ B.externals, collecting into a deduplicated list.
func (m *Module) GetAllExternals() []*Module {
	var result []*Module
	seen := map[*Module]bool{}
	var visit func(n *Module)
	visit = func(n *Module) {
		if seen[n] {
			return
		}
		seen[n] = true
		result = append(result, n)
		for _, c := range n.Requires.List() {
			visit(c)
		}
		for _, c := range n.Externals.List() {
			visit(c)
		}
	}
	for _, direct := range m.Externals.List() {
		visit(direct)
	}
	return result
}

// GetAllRequires implements spec.md §4.4: the external closure doubles as
// the visited-set for a post-order DFS over requires, so self appears last
// and cycles terminate.
func (m *Module) GetAllRequires() []*Module {
	visited := map[*Module]bool{}
	for _, e := range m.GetAllExternals() {
		visited[e] = true
	}
	var result []*Module
	var visit func(n *Module)
	visit = func(n *Module) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, c := range n.Requires.List() {
			visit(c)
		}
		result = append(result, n)
	}
	visit(m)
	return result
}
