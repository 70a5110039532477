package chunker

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ChunkDocuments разбивает все .md файлы директории одним chunker'ом.
// Файлы обходятся в отсортированном по имени порядке, чанки
// конкатенируются. Ошибка разбора одного документа - жёсткая ошибка
// для всего прогона: вызывающий решает, пропускать или прерываться.
func ChunkDocuments(dir string, c Chunker) ([]Chunk, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".md" && ext != ".markdown" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var all []Chunk
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		chunks, err := c.Chunk(string(content), name)
		if err != nil {
			return nil, fmt.Errorf("failed to chunk %s: %w", name, err)
		}

		log.Printf("📦 %s: %d chunks", name, len(chunks))
		all = append(all, chunks...)
	}

	return all, nil
}
