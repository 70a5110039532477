package chunker

import (
	"fmt"
	"regexp"
	"strings"
)

var sentenceEndRe = regexp.MustCompile(`[.!?]+(?:\s+|$)`)

// NewChunk создаёт чанк с детерминированным ID из имени файла и индекса
func NewChunk(content, source string, index int, meta Metadata) Chunk {
	return Chunk{
		ID:         fmt.Sprintf("%s-chunk-%d", source, index),
		Content:    strings.TrimSpace(content),
		SourceFile: source,
		ChunkIndex: index,
		Metadata:   meta,
	}
}

// SplitByParagraphs разбивает текст на параграфы по пустым строкам
func SplitByParagraphs(text string) []string {
	paragraphs := strings.Split(text, "\n\n")
	var result []string
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// SplitSentences разбивает текст на предложения по границам . ! ?
// с последующим пробелом. Разделитель остаётся в конце предложения.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		s := strings.TrimSpace(text[start:loc[1]])
		if s != "" {
			sentences = append(sentences, s)
		}
		start = loc[1]
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// OverlapTail возвращает хвост для переноса в следующий чанк:
// последние 1-2 предложения, если влезают в maxOverlap. Хвост -
// дословный суффикс исходного текста (разделители между предложениями
// сохраняются). Предложение никогда не режется посередине - если не
// влезает, хвоста нет.
func OverlapTail(text string, maxOverlap int) string {
	if maxOverlap <= 0 {
		return ""
	}

	// стартовые позиции предложений: начало текста и конец каждой
	// границы, кроме завершающей текст
	starts := []int{0}
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		if loc[1] < len(text) {
			starts = append(starts, loc[1])
		}
	}

	for _, n := range []int{2, 1} {
		if len(starts) < n {
			continue
		}
		tail := strings.TrimSpace(text[starts[len(starts)-n]:])
		if tail != "" && len(tail) <= maxOverlap {
			return tail
		}
	}
	return ""
}
