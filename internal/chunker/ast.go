package chunker

import (
	"log"
	"sort"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// ASTChunker разбивает markdown через дерево блоков goldmark:
// секции по заголовкам, внутри секции - группы узлов по бюджету размера,
// сериализация обратно в markdown с префиксом заголовка и overlap.
type ASTChunker struct {
	config Config
}

// NewASTChunker создаёт новый AST chunker
func NewASTChunker(config Config) *ASTChunker {
	return &ASTChunker{config: config.Normalize()}
}

func (a *ASTChunker) Name() string {
	return "ast"
}

func (a *ASTChunker) Chunk(content, source string) ([]Chunk, error) {
	root, src, err := Parse(content)
	if err != nil {
		return nil, err
	}

	sections := ExtractSections(root, src)

	var chunks []Chunk
	index := 0

	for _, sec := range sections {
		groups := a.groupNodes(sec.Nodes, src)

		// хвост предыдущей текстовой группы для overlap
		prevText := ""

		for _, group := range groups {
			body := serializeGroup(group, src)
			if strings.TrimSpace(body) == "" {
				continue
			}

			meta := a.groupMetadata(group, src, sec.Hierarchy)

			text := body
			// overlap только между текстовыми группами, до префикса заголовка
			if meta.ChunkType == TypeText && prevText != "" {
				if tail := OverlapTail(prevText, a.config.Overlap); tail != "" {
					text = tail + "\n\n" + text
				}
			}

			// префикс заголовка секции добавляется после overlap
			if len(sec.Hierarchy) > 0 {
				heading := strings.Repeat("#", len(sec.Hierarchy)) + " " + sec.Hierarchy[len(sec.Hierarchy)-1]
				text = heading + "\n\n" + text
			}

			if meta.ChunkType == TypeText {
				prevText = body
			} else {
				prevText = ""
			}

			chunks = append(chunks, NewChunk(text, source, index, meta))
			index++
		}
	}

	log.Printf("✅ [%s] Created %d chunks from %d sections", a.Name(), len(chunks), len(sections))
	return chunks, nil
}

// groupNodes группирует узлы секции по бюджету размера.
// Код всегда отдельная группа. Список/таблица в пределах бюджета - тоже;
// больше бюджета - в общий аккумулятор целиком, даже если чанк выйдет
// за лимит (известное поведение, не "чиним").
func (a *ASTChunker) groupNodes(nodes []ast.Node, source []byte) [][]ast.Node {
	var groups [][]ast.Node
	var current []ast.Node
	currentLen := 0

	flush := func() {
		if len(current) > 0 {
			groups = append(groups, current)
			current = nil
			currentLen = 0
		}
	}

	for _, node := range nodes {
		size := len(serializeNode(node, source))

		switch node.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			flush()
			groups = append(groups, []ast.Node{node})
			continue
		case *ast.List, *east.Table:
			if size <= a.config.MaxChunkSize {
				flush()
				groups = append(groups, []ast.Node{node})
				continue
			}
		}

		if currentLen > 0 && currentLen+size > a.config.MaxChunkSize {
			flush()
		}
		current = append(current, node)
		currentLen += size
	}
	flush()

	return groups
}

// groupMetadata выводит метаданные группы: тип по приоритету
// code > table > list > text, язык первого code-узла, сортированный
// набор типов AST узлов
func (a *ASTChunker) groupMetadata(nodes []ast.Node, source []byte, hierarchy []string) Metadata {
	meta := Metadata{
		HeaderHierarchy: hierarchy,
		ChunkType:       TypeText,
	}
	if len(hierarchy) > 0 {
		meta.Section = hierarchy[len(hierarchy)-1]
	}

	kinds := make(map[string]struct{})
	var hasCode, hasTable, hasList bool

	for _, node := range nodes {
		kinds[node.Kind().String()] = struct{}{}

		switch n := node.(type) {
		case *ast.FencedCodeBlock:
			hasCode = true
			if meta.Language == "" {
				meta.Language = codeLanguage(n, source)
			}
		case *ast.CodeBlock:
			hasCode = true
			if meta.Language == "" {
				meta.Language = "text"
			}
		case *east.Table:
			hasTable = true
		case *ast.List:
			hasList = true
		}
	}

	switch {
	case hasCode:
		meta.ChunkType = TypeCode
	case hasTable:
		meta.ChunkType = TypeTable
	case hasList:
		meta.ChunkType = TypeList
	}
	if meta.ChunkType != TypeCode {
		meta.Language = ""
	}

	for kind := range kinds {
		meta.ASTNodeTypes = append(meta.ASTNodeTypes, kind)
	}
	sort.Strings(meta.ASTNodeTypes)

	return meta
}
