package chunker

import (
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Section - группа узлов под ближайшим заголовком. Живёт только
// внутри одного прогона chunker'а, никуда не сохраняется.
type Section struct {
	Hierarchy []string   // Заголовки от корня к родителю, без дыр
	Nodes     []ast.Node // Контентные узлы секции в порядке документа
}

// headingLevel - один уровень стека заголовков
type headingLevel struct {
	text    string
	present bool
}

// headingStack отслеживает иерархию заголовков по глубине (1-based).
// Заголовок глубины d обрезает стек до d-1 уровней и занимает позицию d.
// Пропущенные уровни (## без #) остаются дырами и фильтруются в Hierarchy.
type headingStack struct {
	levels []headingLevel
}

// Set регистрирует заголовок глубины depth (1..6)
func (s *headingStack) Set(depth int, text string) {
	if len(s.levels) > depth-1 {
		s.levels = s.levels[:depth-1]
	}
	for len(s.levels) < depth-1 {
		s.levels = append(s.levels, headingLevel{})
	}
	s.levels = append(s.levels, headingLevel{text: text, present: true})
}

// Hierarchy возвращает снимок иерархии без дыр
func (s *headingStack) Hierarchy() []string {
	var out []string
	for _, lvl := range s.levels {
		if lvl.present && lvl.text != "" {
			out = append(out, lvl.text)
		}
	}
	return out
}

// ExtractSections группирует узлы верхнего уровня по заголовкам.
// Секция закрывается заголовком равного или более высокого уровня;
// пустые секции не эмитятся.
func ExtractSections(root ast.Node, source []byte) []Section {
	var sections []Section
	var stack headingStack
	var buffer []ast.Node

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		sections = append(sections, Section{
			Hierarchy: stack.Hierarchy(),
			Nodes:     buffer,
		})
		buffer = nil
	}

	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		heading, ok := node.(*ast.Heading)
		if !ok {
			buffer = append(buffer, node)
			continue
		}
		flush()
		stack.Set(heading.Level, flattenInline(heading, source))
	}
	flush()

	return sections
}

// flattenInline рекурсивно извлекает plain text из inline разметки:
// emphasis, ссылки, inline code, alt-текст картинок и т.д.
func flattenInline(node ast.Node, source []byte) string {
	var buf strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			buf.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(n.Value)
		default:
			buf.WriteString(flattenInline(child, source))
		}
	}
	return strings.TrimSpace(buf.String())
}
