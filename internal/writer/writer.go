// Package writer is the default Writer sink spec.md §2 leaves as an
// external collaborator ("a Writer that the composer calls write(str,
// sourceFile, originalIndex) against"). The core ships one concrete
// implementation so the module graph engine is usable standalone, wired to
// internal/sourcemap.Builder for the source-map composition spec.md §9's
// Supplemented Features expects a real bundler to carry.
package writer

import (
	"strings"

	"github.com/modpack/bundler/internal/logger"
	"github.com/modpack/bundler/internal/sourcemap"
)

// Sink is spec.md §2's Writer collaborator: one write call per emitted
// content slice or replacement value, carrying enough provenance
// (originating source, byte offset into it) for a map-aware sink to trace
// generated output back to input.
type Sink interface {
	Write(str string, source logger.Source, originalIndex int)
}

// Default accumulates the composed output as a string, optionally building
// a V3 source map alongside it keyed on the (source, originalIndex) each
// Write call reports.
type Default struct {
	buf strings.Builder

	mapBuilder *sourcemap.Builder
	genCol     int
}

// New returns a Default sink. withSourceMap mirrors options.output.sourceMap
// (spec.md §3/§4.6): when false the returned sink records no mappings and
// only keeps its running generated-column count.
func New(withSourceMap bool) *Default {
	d := &Default{}
	if withSourceMap {
		d.mapBuilder = sourcemap.NewBuilder()
	}
	return d
}

func (d *Default) Write(str string, source logger.Source, originalIndex int) {
	if str == "" {
		return
	}
	if d.mapBuilder != nil && source.PrettyPath != "" {
		loc := source.LocationForIndex(originalIndex, 0)
		d.mapBuilder.AddMapping(d.genCol, source.PrettyPath, loc.Line-1, loc.Column)
	}
	for i := 0; i < len(str); i++ {
		if str[i] == '\n' {
			if d.mapBuilder != nil {
				d.mapBuilder.AdvanceLine()
			}
			d.genCol = 0
		} else {
			d.genCol++
		}
	}
	d.buf.WriteString(str)
}

func (d *Default) String() string { return d.buf.String() }

func (d *Default) Bytes() []byte { return []byte(d.buf.String()) }

func (d *Default) HasSourceMap() bool { return d.mapBuilder != nil }

// SourceMapJSON renders the accumulated mappings as a V3 source map, or nil
// if this sink was built without one.
func (d *Default) SourceMapJSON(outFile string) ([]byte, error) {
	if d.mapBuilder == nil {
		return nil, nil
	}
	return d.mapBuilder.JSON(outFile)
}
