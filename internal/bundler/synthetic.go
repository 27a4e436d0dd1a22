package bundler

import (
	"strconv"

	"github.com/modpack/bundler/internal/fsys"
	"github.com/modpack/bundler/internal/logger"
	"github.com/modpack/bundler/internal/options"
)

// ensureExtractCss lazily creates the sibling CssModule spec.md §3's Data
// Model describes for `options.extractCss`: an initially-empty CSS module
// that accumulates `require` edges as this module's scanner redirects CSS
// requires into it (spec.md §4.5 JavaScript "Special case").
func (m *Module) ensureExtractCss() *Module {
	if m.ExtractCss != nil {
		return m.ExtractCss
	}
	absPath := m.File.AbsPath + ".extract.css"
	file := fsys.NewFileWithContent(m.File.FS, absPath, nil)
	mod := newModule(m.sess, file, m.Options)
	mod.Kind = KindCSS
	mod.loaded = true
	mod.Source = logger.Source{PrettyPath: absPath}
	mod.Replacements = newReplacementStore(0)
	m.ExtractCss = mod
	return mod
}

// newInlineModule materialises one of an HTML module's inline
// `<script>`/`<style>` bodies as its own Module, named
// `<origName>#inline<N><ext>` (spec.md §4.5 HTML, §9 Design Notes: "a
// stable naming contract" scoped to the enclosing HTML module).
func (m *Module) newInlineModule(ext string, kind Kind, content string) *Module {
	m.inlineCounter++
	absPath := m.File.AbsPath + "#inline" + strconv.Itoa(m.inlineCounter) + ext
	file := fsys.NewFileWithContent(m.File.FS, absPath, []byte(content))
	opts := options.SelectForFile(m.sess.Base, absPath)
	mod := newModule(m.sess, file, opts)
	mod.Kind = kind
	mod.load()
	return mod
}
