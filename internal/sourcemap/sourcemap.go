// Package sourcemap provides the two source-map operations this bundler
// needs: decoding an existing map referenced by an input module (so a
// pre-transpiled file's original positions survive bundling), and encoding
// the VLQ mappings for the bundler's own default Writer.
//
// Decoding is delegated to github.com/go-sourcemap/sourcemap (sourced from
// grafana-k6's dependency set); encoding is a small from-scratch VLQ
// writer grounded on esbuild's internal/sourcemap, since go-sourcemap only
// reads maps, it doesn't produce them.
package sourcemap

import (
	"encoding/json"
	"regexp"
	"strings"

	gosourcemap "github.com/go-sourcemap/sourcemap"
)

// Annotation finds a trailing `//# sourceMappingURL=...` or
// `/*# sourceMappingURL=... */` comment in `contents`, the way a module's
// `source` (its "pre-modular" file view, spec.md §3) carries its own input
// map forward.
var annotationPattern = regexp.MustCompile(`(?://|/\*)# sourceMappingURL=([^\s*]+)`)

func FindAnnotation(contents string) (string, bool) {
	m := annotationPattern.FindStringSubmatch(contents)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Input wraps a decoded source map so the rest of the bundler can ask "what
// original position does generated line/column N/M correspond to".
type Input struct {
	consumer *gosourcemap.Consumer
}

func ParseInput(generatedFileName string, data []byte) (*Input, error) {
	consumer, err := gosourcemap.Parse(generatedFileName, data)
	if err != nil {
		return nil, err
	}
	return &Input{consumer: consumer}, nil
}

// OriginalPosition mirrors Module.InputMap's purpose: translate a
// position in this module's already-transpiled content back to where it
// came from, so the composed output's own map chains through correctly.
func (in *Input) OriginalPosition(genLine, genCol int) (source string, line, col int, ok bool) {
	source, _, line, col, ok = in.consumer.Source(genLine, genCol)
	return
}

// Builder accumulates VLQ-encoded mappings for the Output Composer's
// default Writer (spec.md §1: "the Writer that handles source-map
// composition" is an external collaborator, but this bundler still ships
// one so it's usable standalone).
type Builder struct {
	sources      []string
	sourcesIndex map[string]int
	mappings     strings.Builder

	prevGenCol    int
	prevSourceIdx int
	prevSrcLine   int
	prevSrcCol    int
	genLine       int
	firstInLine   bool
}

func NewBuilder() *Builder {
	return &Builder{sourcesIndex: map[string]int{}, firstInLine: true}
}

// AddMapping records that the generated position (current line, genCol)
// originates at (source, srcLine, srcCol). Call AdvanceLine between output
// lines.
func (b *Builder) AddMapping(genCol int, source string, srcLine, srcCol int) {
	idx, ok := b.sourcesIndex[source]
	if !ok {
		idx = len(b.sources)
		b.sourcesIndex[source] = idx
		b.sources = append(b.sources, source)
	}
	if !b.firstInLine {
		b.mappings.WriteByte(',')
	}
	b.firstInLine = false

	writeVLQ(&b.mappings, genCol-b.prevGenCol)
	writeVLQ(&b.mappings, idx-b.prevSourceIdx)
	writeVLQ(&b.mappings, srcLine-b.prevSrcLine)
	writeVLQ(&b.mappings, srcCol-b.prevSrcCol)

	b.prevGenCol = genCol
	b.prevSourceIdx = idx
	b.prevSrcLine = srcLine
	b.prevSrcCol = srcCol
}

func (b *Builder) AdvanceLine() {
	b.mappings.WriteByte(';')
	b.prevGenCol = 0
	b.firstInLine = true
	b.genLine++
}

// V3Map is the JSON shape of a "version 3" source map.
type V3Map struct {
	Version  int      `json:"version"`
	Sources  []string `json:"sources"`
	Mappings string   `json:"mappings"`
	File     string   `json:"file,omitempty"`
}

func (b *Builder) JSON(outFile string) ([]byte, error) {
	return json.Marshal(V3Map{
		Version:  3,
		Sources:  b.sources,
		Mappings: b.mappings.String(),
		File:     outFile,
	})
}

const vlqBase64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// writeVLQ base64-VLQ encodes a signed integer the way every source-map
// producer does: sign in the low bit, 5 data bits per digit, continuation
// bit in the 6th.
func writeVLQ(sb *strings.Builder, value int) {
	vlq := value << 1
	if value < 0 {
		vlq = (-value << 1) | 1
	}
	for {
		digit := vlq & 0x1f
		vlq >>= 5
		if vlq != 0 {
			digit |= 0x20
		}
		sb.WriteByte(vlqBase64Chars[digit])
		if vlq == 0 {
			break
		}
	}
}
