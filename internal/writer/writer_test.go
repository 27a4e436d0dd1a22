package writer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modpack/bundler/internal/logger"
)

func TestDefault_WithoutSourceMapTracksNoPositions(t *testing.T) {
	w := New(false)
	w.Write("hello ", logger.Source{PrettyPath: "/a.js", Contents: "hello world"}, 0)
	w.Write("world", logger.Source{PrettyPath: "/a.js", Contents: "hello world"}, 6)
	assert.Equal(t, "hello world", w.String())
	assert.Equal(t, []byte("hello world"), w.Bytes())
	assert.False(t, w.HasSourceMap())

	data, err := w.SourceMapJSON("out.js")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestDefault_EmptyWriteIsANoOp(t *testing.T) {
	w := New(false)
	w.Write("", logger.Source{}, 0)
	assert.Equal(t, "", w.String())
}

func TestDefault_WithSourceMapProducesV3JSON(t *testing.T) {
	w := New(true)
	source := logger.Source{PrettyPath: "/a.js", Contents: "const x = 1;\nconst y = 2;\n"}
	w.Write("const x = 1;\n", source, 0)
	w.Write("const y = 2;\n", source, 13)

	assert.True(t, w.HasSourceMap())
	data, err := w.SourceMapJSON("out.js")
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Contains(t, string(data), `"version"`)
	assert.Contains(t, string(data), "out.js")
}

func TestDefault_GeneratedColumnResetsOnNewline(t *testing.T) {
	w := New(true)
	source := logger.Source{PrettyPath: "/a.js", Contents: "ab\ncd"}
	w.Write("ab\n", source, 0)
	w.Write("cd", source, 3)
	assert.Equal(t, "ab\ncd", w.String())
}
