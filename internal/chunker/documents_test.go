package chunker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestChunkDocumentsSortedOrder(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "b.md", "# B\n\ncontent of the second file")
	writeTestFile(t, dir, "a.md", "# A\n\ncontent of the first file")
	writeTestFile(t, dir, "notes.txt", "ignored, not markdown")

	c := NewLegacyChunker(Config{MaxChunkSize: 1000, Overlap: 150})
	chunks, err := ChunkDocuments(dir, c)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// файлы обходятся в отсортированном по имени порядке
	assert.Equal(t, "a.md", chunks[0].SourceFile)
	assert.Equal(t, "a.md-chunk-0", chunks[0].ID)
	assert.Equal(t, "b.md", chunks[1].SourceFile)
	assert.Equal(t, "b.md-chunk-0", chunks[1].ID)
}

func TestChunkDocumentsIndexPerFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "one.md", "# A\n\nfirst paragraph here\n\n## B\n\nsecond paragraph here")
	writeTestFile(t, dir, "two.md", "# C\n\nonly paragraph here")

	c := NewASTChunker(Config{MaxChunkSize: 1000, Overlap: 150})
	chunks, err := ChunkDocuments(dir, c)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	// индексы непрерывны внутри каждого файла и начинаются с нуля
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, 1, chunks[1].ChunkIndex)
	assert.Equal(t, 0, chunks[2].ChunkIndex)
	assert.Equal(t, "two.md", chunks[2].SourceFile)
}

func TestChunkDocumentsMissingDir(t *testing.T) {
	c := NewLegacyChunker(Config{MaxChunkSize: 1000, Overlap: 150})
	_, err := ChunkDocuments(filepath.Join(t.TempDir(), "nope"), c)
	assert.Error(t, err)
}
