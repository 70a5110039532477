package chunker

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Factory создаёт chunker на основе режима и типа файла
type Factory struct {
	config Config
}

// NewFactory создаёт новую фабрику chunker'ов
func NewFactory(config Config) *Factory {
	return &Factory{config: config.Normalize()}
}

// GetChunker возвращает подходящий chunker для файла.
// Markdown режимы (legacy/ast) применяются только к .md файлам,
// остальное уходит в text chunker.
func (f *Factory) GetChunker(filePath, mode string) (Chunker, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext != ".md" && ext != ".markdown" {
		return NewTextChunker(f.config), nil
	}
	return f.GetChunkerByMode(mode)
}

// GetChunkerByMode возвращает chunker по названию режима
func (f *Factory) GetChunkerByMode(mode string) (Chunker, error) {
	switch strings.ToLower(mode) {
	case "legacy", "":
		return NewLegacyChunker(f.config), nil
	case "ast":
		return NewASTChunker(f.config), nil
	case "simple", "text", "txt":
		return NewTextChunker(f.config), nil
	default:
		return nil, fmt.Errorf("unknown chunking mode: %s", mode)
	}
}
