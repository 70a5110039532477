package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"markdown_rag/internal/chunker"

	"github.com/philippgille/chromem-go"
)

// indexDocuments индексирует документы из DocsDir: неизменённые файлы
// пропускаются по mtime+size из метаданных. Ошибка разбора одного
// документа его пропускает с внятным сообщением, остальные индексируются.
func (a *App) indexDocuments() error {
	ctx := context.Background()

	coll := a.db.GetCollection("docs", a.embeddingFunc)
	if coll == nil {
		var err error
		coll, err = a.db.CreateCollection("docs", map[string]string{}, a.embeddingFunc)
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
	}

	// If force-reindex is set, clear everything
	if a.cfg.ForceReindex {
		log.Printf("Force reindexing enabled, clearing existing metadata and collection")
		a.metadata.Files = make(map[string]FileInfo)
		a.db.DeleteCollection("docs")
		coll, _ = a.db.CreateCollection("docs", map[string]string{}, a.embeddingFunc)
	}

	log.Printf("Current metadata contains %d files", len(a.metadata.Files))
	log.Printf("Indexing documents in: %s", a.cfg.DocsDir)

	entries, err := os.ReadDir(a.cfg.DocsDir)
	if err != nil {
		return fmt.Errorf("failed to read docs directory: %w", err)
	}

	// os.ReadDir уже сортирует по имени, но полагаемся на это явно
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	indexed, skipped, failed := 0, 0, 0
	for _, name := range names {
		path := filepath.Join(a.cfg.DocsDir, name)
		if !fileCanProcess(path) {
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", name, err)
		}

		// Check if file needs indexing
		prev, exists := a.metadata.Files[name]
		if exists && prev.LastModified.Equal(info.ModTime()) && prev.Size == info.Size() {
			log.Printf("Skipping unchanged file: %s", name)
			skipped++
			continue
		}

		count, err := a.indexFile(ctx, coll, path, name)
		if err != nil {
			// Ошибка локальна для документа - пропускаем, не молчим
			log.Printf("❌ Failed to index %s: %v", name, err)
			failed++
			continue
		}

		a.metadata.Files[name] = FileInfo{
			Path:         name,
			LastModified: info.ModTime(),
			Size:         info.Size(),
			Chunks:       count,
		}
		log.Printf("Indexed file: %s (%d chunks)", name, count)
		indexed++
	}

	log.Printf("📊 Indexing done: %d indexed, %d unchanged, %d failed", indexed, skipped, failed)

	if indexed > 0 {
		if err := a.saveMetadata(); err != nil {
			return fmt.Errorf("failed to save metadata: %w", err)
		}
		if err := a.saveDB(); err != nil {
			return fmt.Errorf("failed to save vector database: %w", err)
		}
	}

	return nil
}

// indexFile разбивает один файл на чанки и кладёт их в коллекцию
func (a *App) indexFile(ctx context.Context, coll *chromem.Collection, path, name string) (int, error) {
	content, err := fileGetContent(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read content: %w", err)
	}

	chunkr, err := a.chunkerFactory.GetChunker(path, a.cfg.ChunkMode)
	if err != nil {
		return 0, fmt.Errorf("failed to get chunker: %w", err)
	}

	chunks, err := chunkr.Chunk(content, name)
	if err != nil {
		return 0, fmt.Errorf("chunking failed: %w", err)
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, ch := range chunks {
		docs = append(docs, chromem.Document{
			ID:       ch.ID,
			Content:  ch.Content,
			Metadata: chunkMetadata(ch),
		})
	}
	if len(docs) == 0 {
		return 0, nil
	}

	// MAX_CONCURRENCY ограничивает параллельные запросы за эмбеддингами,
	// 0 - по числу ядер
	workers := a.cfg.MaxConcurrency
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if err := coll.AddDocuments(ctx, docs, workers); err != nil {
		return 0, fmt.Errorf("failed to add documents: %w", err)
	}

	return len(chunks), nil
}

// chunkMetadata переводит метаданные чанка в map для chromem,
// пустые поля не пишем - по ним потом фильтруется поиск
func chunkMetadata(ch chunker.Chunk) map[string]string {
	meta := map[string]string{
		"source":     ch.SourceFile,
		"chunk_type": ch.Metadata.ChunkType,
	}
	if ch.Metadata.Section != "" {
		meta["section"] = ch.Metadata.Section
	}
	if len(ch.Metadata.HeaderHierarchy) > 0 {
		meta["headers"] = strings.Join(ch.Metadata.HeaderHierarchy, " > ")
	}
	if ch.Metadata.Language != "" {
		meta["language"] = ch.Metadata.Language
	}
	if len(ch.Metadata.ASTNodeTypes) > 0 {
		meta["ast_node_types"] = strings.Join(ch.Metadata.ASTNodeTypes, ",")
	}
	return meta
}
