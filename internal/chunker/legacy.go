package chunker

import (
	"log"
	"regexp"
	"strings"
)

var (
	legacyHeadingRe = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	// Нежадный матч fenced-блока через переносы строк. Непарная тройка
	// кавычек не матчится - остаток обрабатывается как обычный текст.
	fencedCodeRe = regexp.MustCompile("(?s)```([a-zA-Z0-9_+#.-]*)[ \t]*\n(.*?)```")
	bulletLineRe = regexp.MustCompile(`^\s*(?:[-*+]|\d+\.)\s`)
)

// Минимальная длина текста между code-блоками, короче - отбрасываем
const minTextLen = 50

// LegacyChunker разбивает markdown построчным regex-сканированием,
// без построения дерева. Сознательно простой и дубовый - это
// контрольный вариант для сравнения с AST chunker'ом.
type LegacyChunker struct {
	config Config
}

// NewLegacyChunker создаёт новый legacy chunker
func NewLegacyChunker(config Config) *LegacyChunker {
	return &LegacyChunker{config: config.Normalize()}
}

func (l *LegacyChunker) Name() string {
	return "legacy"
}

// rawSection - секция из сырого текста: иерархия заголовков + контент
type rawSection struct {
	hierarchy []string
	content   string
}

func (l *LegacyChunker) Chunk(content, source string) ([]Chunk, error) {
	sections := l.splitSections(content)

	var chunks []Chunk
	index := 0
	for _, sec := range sections {
		chunks = l.chunkSection(chunks, sec, source, &index)
	}

	log.Printf("✅ [%s] Created %d chunks from %d sections", l.Name(), len(chunks), len(sections))
	return chunks, nil
}

// splitSections сканирует строки: заголовок открывает новую секцию,
// остальные строки копятся в контент текущей
func (l *LegacyChunker) splitSections(content string) []rawSection {
	var sections []rawSection
	var stack headingStack
	var buffer []string

	flush := func() {
		text := strings.Join(buffer, "\n")
		buffer = nil
		if strings.TrimSpace(text) == "" {
			return
		}
		sections = append(sections, rawSection{
			hierarchy: stack.Hierarchy(),
			content:   text,
		})
	}

	for _, line := range strings.Split(content, "\n") {
		if m := legacyHeadingRe.FindStringSubmatch(line); m != nil {
			flush()
			stack.Set(len(m[1]), strings.TrimSpace(m[2]))
			continue
		}
		buffer = append(buffer, line)
	}
	flush()

	return sections
}

// chunkSection вырезает code-блоки в отдельные чанки, остальное
// прогоняет через packText
func (l *LegacyChunker) chunkSection(chunks []Chunk, sec rawSection, source string, index *int) []Chunk {
	meta := l.sectionMeta(sec)

	pos := 0
	for _, m := range fencedCodeRe.FindAllStringSubmatchIndex(sec.content, -1) {
		if before := sec.content[pos:m[0]]; len(strings.TrimSpace(before)) > minTextLen {
			chunks = l.packText(chunks, before, sec, source, index)
		}

		lang := sec.content[m[2]:m[3]]
		if lang == "" {
			lang = "text"
		}

		codeMeta := meta
		codeMeta.ChunkType = TypeCode
		codeMeta.Language = lang
		chunks = append(chunks, NewChunk(sec.content[m[0]:m[1]], source, *index, codeMeta))
		*index++

		pos = m[1]
	}

	if rest := sec.content[pos:]; len(strings.TrimSpace(rest)) > minTextLen {
		chunks = l.packText(chunks, rest, sec, source, index)
	} else if pos == 0 && strings.TrimSpace(rest) != "" {
		// секция вообще без code-блоков: порог не применяем,
		// иначе короткие секции пропадут целиком
		chunks = l.packText(chunks, rest, sec, source, index)
	}

	return chunks
}

func (l *LegacyChunker) sectionMeta(sec rawSection) Metadata {
	meta := Metadata{
		HeaderHierarchy: sec.hierarchy,
		ChunkType:       TypeText,
	}
	if len(sec.hierarchy) > 0 {
		meta.Section = sec.hierarchy[len(sec.hierarchy)-1]
	}
	return meta
}

// detectContentType классифицирует текст без code-блоков:
// list если >=50% непустых строк начинаются с маркера,
// table если больше двух строк содержат '|'
func detectContentType(text string) string {
	var total, bullets, pipes int
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		total++
		if bulletLineRe.MatchString(line) {
			bullets++
		}
		if strings.Contains(line, "|") {
			pipes++
		}
	}

	if total > 0 && bullets*2 >= total {
		return TypeList
	}
	if pipes > 2 {
		return TypeTable
	}
	return TypeText
}

// packUnit - единица жадной упаковки: параграф или предложение
type packUnit struct {
	text string
	sep  string
}

// packText упаковывает текст в чанки с бюджетом размера и overlap
func (l *LegacyChunker) packText(chunks []Chunk, text string, sec rawSection, source string, index *int) []Chunk {
	text = strings.TrimSpace(text)
	meta := l.sectionMeta(sec)
	contentType := detectContentType(text)

	// список или таблица в пределах бюджета - один чанк как есть
	if contentType != TypeText && len(text) <= l.config.MaxChunkSize {
		meta.ChunkType = contentType
		chunks = append(chunks, NewChunk(text, source, *index, meta))
		*index++
		return chunks
	}
	meta.ChunkType = contentType

	// параграфы как единицы, слишком длинные - по предложениям
	var units []packUnit
	for _, para := range SplitByParagraphs(text) {
		if len(para) > l.config.MaxChunkSize {
			for _, s := range SplitSentences(para) {
				units = append(units, packUnit{text: s, sep: " "})
			}
		} else {
			units = append(units, packUnit{text: para, sep: "\n\n"})
		}
	}

	var buf strings.Builder
	flush := func() {
		chunkText := buf.String()
		chunks = append(chunks, NewChunk(chunkText, source, *index, meta))
		*index++

		buf.Reset()
		// хвост из 1-2 предложений переносится в следующий чанк,
		// разделитель допишет обычный путь добавления единицы
		if tail := OverlapTail(chunkText, l.config.Overlap); tail != "" {
			buf.WriteString(tail)
		}
	}

	for _, u := range units {
		if buf.Len() > 0 && buf.Len()+len(u.text) > l.config.MaxChunkSize {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteString(u.sep)
		}
		buf.WriteString(u.text)
	}
	if strings.TrimSpace(buf.String()) != "" {
		chunkText := buf.String()
		chunks = append(chunks, NewChunk(chunkText, source, *index, meta))
		*index++
	}

	return chunks
}
