package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestASTChunkerScenario(t *testing.T) {
	input := "# Title\n\nShort para.\n\n```js\nconsole.log(1)\n```\n\nAnother short para."

	c := NewASTChunker(Config{MaxChunkSize: 1000, Overlap: 150})
	chunks, err := c.Chunk(input, "doc.md")
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for i, ch := range chunks {
		assert.Equal(t, i, ch.ChunkIndex)
		assert.Equal(t, fmt.Sprintf("doc.md-chunk-%d", i), ch.ID)
		assert.Equal(t, []string{"Title"}, ch.Metadata.HeaderHierarchy)
		assert.Equal(t, "Title", ch.Metadata.Section)
		assert.True(t, strings.HasPrefix(ch.Content, "# Title\n\n"))
	}

	assert.Equal(t, TypeText, chunks[0].Metadata.ChunkType)
	assert.Equal(t, "# Title\n\nShort para.", chunks[0].Content)

	assert.Equal(t, TypeCode, chunks[1].Metadata.ChunkType)
	assert.Equal(t, "js", chunks[1].Metadata.Language)
	assert.Contains(t, chunks[1].Content, "```js\nconsole.log(1)\n```")
	assert.NotContains(t, chunks[1].Content, "Short para")

	assert.Equal(t, TypeText, chunks[2].Metadata.ChunkType)
	assert.Equal(t, "# Title\n\nAnother short para.", chunks[2].Content)
}

func TestASTChunkerDeterminism(t *testing.T) {
	input := "# A\n\nOne paragraph here. Extra sentence.\n\n- l1\n- l2\n\n## B\n\nMore text follows."

	c := NewASTChunker(Config{MaxChunkSize: 1000, Overlap: 150})
	first, err := c.Chunk(input, "doc.md")
	require.NoError(t, err)
	second, err := c.Chunk(input, "doc.md")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestASTChunkerHeaderHierarchy(t *testing.T) {
	c := NewASTChunker(Config{MaxChunkSize: 1000, Overlap: 150})
	chunks, err := c.Chunk("# A\n\ntext1\n\n## B\n\ntext2", "doc.md")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, []string{"A"}, chunks[0].Metadata.HeaderHierarchy)
	assert.Equal(t, "A", chunks[0].Metadata.Section)
	assert.Equal(t, []string{"A", "B"}, chunks[1].Metadata.HeaderHierarchy)
	assert.Equal(t, "B", chunks[1].Metadata.Section)
}

func TestASTChunkerGapFiltering(t *testing.T) {
	c := NewASTChunker(Config{MaxChunkSize: 1000, Overlap: 150})
	chunks, err := c.Chunk("## Sub\n\ntext under an orphan heading", "doc.md")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, []string{"Sub"}, chunks[0].Metadata.HeaderHierarchy)
	assert.Equal(t, "Sub", chunks[0].Metadata.Section)
}

func TestASTChunkerNodeTypes(t *testing.T) {
	input := "# H\n\npara one\n\n> quote"

	c := NewASTChunker(Config{MaxChunkSize: 1000, Overlap: 150})
	chunks, err := c.Chunk(input, "doc.md")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, []string{"Blockquote", "Paragraph"}, chunks[0].Metadata.ASTNodeTypes)
	assert.Equal(t, TypeText, chunks[0].Metadata.ChunkType)
}

func TestASTChunkerListSingleton(t *testing.T) {
	input := "# H\n\nintro paragraph\n\n- one\n- two\n- three\n\noutro paragraph"

	c := NewASTChunker(Config{MaxChunkSize: 1000, Overlap: 0})
	chunks, err := c.Chunk(input, "doc.md")
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, TypeText, chunks[0].Metadata.ChunkType)
	assert.Equal(t, TypeList, chunks[1].Metadata.ChunkType)
	assert.Equal(t, []string{"List"}, chunks[1].Metadata.ASTNodeTypes)
	assert.Empty(t, chunks[1].Metadata.Language)
	assert.Equal(t, TypeText, chunks[2].Metadata.ChunkType)
}

func TestASTChunkerOversizedCodeAllowed(t *testing.T) {
	body := strings.Repeat("line of code\n", 30)
	input := "# H\n\n```go\n" + body + "```"

	c := NewASTChunker(Config{MaxChunkSize: 100, Overlap: 20})
	chunks, err := c.Chunk(input, "doc.md")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, TypeCode, chunks[0].Metadata.ChunkType)
	assert.Equal(t, "go", chunks[0].Metadata.Language)
	assert.Greater(t, len(chunks[0].Content), 100)
}

func TestASTChunkerOversizedListKeptWhole(t *testing.T) {
	// список больше бюджета не получает отдельного правила -
	// уходит в общий аккумулятор и добавляется целиком
	items := make([]string, 10)
	for i := range items {
		items[i] = "- a rather long list item used to inflate the size"
	}
	input := "# H\n\n" + strings.Join(items, "\n")

	c := NewASTChunker(Config{MaxChunkSize: 100, Overlap: 20})
	chunks, err := c.Chunk(input, "doc.md")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, TypeList, chunks[0].Metadata.ChunkType)
	assert.Greater(t, len(chunks[0].Content), 100)
}

func TestASTChunkerOverlapBetweenTextChunks(t *testing.T) {
	p1 := "Opening paragraph with plenty of words to fill the budget nicely. Short tail."
	p2 := "Second paragraph also has a reasonable amount of filler text inside."
	input := "# H\n\n" + p1 + "\n\n" + p2

	c := NewASTChunker(Config{MaxChunkSize: 100, Overlap: 60})
	chunks, err := c.Chunk(input, "doc.md")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// overlap стоит после префикса заголовка и взят дословно из конца первого чанка
	assert.True(t, strings.HasPrefix(chunks[1].Content, "# H\n\nShort tail.\n\n"), "got: %q", chunks[1].Content)
	assert.True(t, strings.HasSuffix(chunks[0].Content, "Short tail."))

	overlap := "Short tail."
	assert.LessOrEqual(t, len(overlap), 60)
}

func TestASTChunkerNoOverlapAfterCode(t *testing.T) {
	input := "# H\n\n```js\nvar x = 1\n```\n\nFollowing paragraph text."

	c := NewASTChunker(Config{MaxChunkSize: 100, Overlap: 60})
	chunks, err := c.Chunk(input, "doc.md")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, TypeCode, chunks[0].Metadata.ChunkType)
	assert.Equal(t, "# H\n\nFollowing paragraph text.", chunks[1].Content)
}

func TestASTChunkerPreambleNoHeadingPrefix(t *testing.T) {
	c := NewASTChunker(Config{MaxChunkSize: 1000, Overlap: 150})
	chunks, err := c.Chunk("plain intro without any heading", "doc.md")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, "plain intro without any heading", chunks[0].Content)
	assert.Empty(t, chunks[0].Metadata.HeaderHierarchy)
	assert.Empty(t, chunks[0].Metadata.Section)
}

func TestASTChunkerIndexContiguity(t *testing.T) {
	input := "# A\n\none\n\n```go\nf()\n```\n\n## B\n\ntwo\n\n### C\n\nthree"

	c := NewASTChunker(Config{MaxChunkSize: 1000, Overlap: 150})
	chunks, err := c.Chunk(input, "doc.md")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, ch := range chunks {
		assert.Equal(t, i, ch.ChunkIndex)
		assert.Equal(t, fmt.Sprintf("doc.md-chunk-%d", i), ch.ID)
		assert.NotEmpty(t, ch.Content)
	}
}
