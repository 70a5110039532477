package chunker

import (
	"log"
	"strings"
)

// TextChunker разбивает plain text по размеру с overlap.
// Используется для .txt и извлечённого из pdf текста.
type TextChunker struct {
	config Config
}

// NewTextChunker создаёт новый simple chunker
func NewTextChunker(config Config) *TextChunker {
	return &TextChunker{config: config.Normalize()}
}

func (s *TextChunker) Name() string {
	return "text"
}

func (s *TextChunker) Chunk(content, source string) ([]Chunk, error) {
	// Пытаемся разбить по параграфам если они есть
	if strings.Contains(content, "\n\n") {
		chunks := s.chunkByParagraphs(content, source)
		log.Printf("✅ [%s] Created %d chunks (by paragraphs)", s.Name(), len(chunks))
		return chunks, nil
	}

	// Иначе простое разбиение по размеру
	chunks := s.chunkBySize(content, source)
	log.Printf("✅ [%s] Created %d chunks (by size)", s.Name(), len(chunks))
	return chunks, nil
}

// chunkByParagraphs разбивает текст по параграфам с overlap
func (s *TextChunker) chunkByParagraphs(content, source string) []Chunk {
	paragraphs := SplitByParagraphs(content)
	var chunks []Chunk
	var currentChunk strings.Builder
	index := 0

	for _, para := range paragraphs {
		// Если добавление параграфа превысит лимит
		if currentChunk.Len() > 0 && currentChunk.Len()+len(para) > s.config.MaxChunkSize {
			chunkText := currentChunk.String()
			chunks = append(chunks, NewChunk(chunkText, source, index, Metadata{ChunkType: TypeText}))
			index++

			currentChunk.Reset()

			// Добавляем overlap
			if tail := OverlapTail(chunkText, s.config.Overlap); tail != "" {
				currentChunk.WriteString(tail)
				currentChunk.WriteString("\n\n")
			}
		}

		if currentChunk.Len() > 0 {
			currentChunk.WriteString("\n\n")
		}
		currentChunk.WriteString(para)
	}

	// Последний чанк
	if strings.TrimSpace(currentChunk.String()) != "" {
		chunks = append(chunks, NewChunk(currentChunk.String(), source, index, Metadata{ChunkType: TypeText}))
	}

	return chunks
}

// chunkBySize простое разбиение по размеру с overlap
func (s *TextChunker) chunkBySize(content, source string) []Chunk {
	var chunks []Chunk
	runes := []rune(content)
	index := 0

	step := s.config.MaxChunkSize - s.config.Overlap
	for i := 0; i < len(runes); i += step {
		end := i + s.config.MaxChunkSize
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, NewChunk(string(runes[i:end]), source, index, Metadata{ChunkType: TypeText}))
		index++

		if end >= len(runes) {
			break
		}
	}

	return chunks
}
