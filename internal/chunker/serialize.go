package chunker

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// serializeNode рендерит блочный узел обратно в markdown.
// Неизвестные типы узлов дают пустую строку и молча выпадают.
func serializeNode(node ast.Node, source []byte) string {
	switch n := node.(type) {
	case *ast.Heading:
		return strings.Repeat("#", n.Level) + " " + renderInline(n, source)
	case *ast.Paragraph:
		return renderInline(n, source)
	case *ast.TextBlock:
		return renderInline(n, source)
	case *ast.FencedCodeBlock:
		return serializeFencedCode(n, source)
	case *ast.CodeBlock:
		return "```\n" + nodeLines(n, source) + "```"
	case *ast.List:
		return serializeList(n, source, 0)
	case *east.Table:
		return serializeTable(n, source)
	case *ast.Blockquote:
		return serializeBlockquote(n, source)
	case *ast.ThematicBreak:
		return "---"
	case *ast.HTMLBlock:
		return serializeHTMLBlock(n, source)
	default:
		return ""
	}
}

// serializeGroup рендерит группу узлов, разделяя блоки пустой строкой
func serializeGroup(nodes []ast.Node, source []byte) string {
	var parts []string
	for _, node := range nodes {
		if s := strings.TrimRight(serializeNode(node, source), "\n"); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

// nodeLines собирает сырые строки узла из его сегментов
func nodeLines(node ast.Node, source []byte) string {
	var buf strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

func serializeFencedCode(n *ast.FencedCodeBlock, source []byte) string {
	lang := string(n.Language(source))
	body := nodeLines(n, source)
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return "```" + lang + "\n" + body + "```"
}

// codeLanguage возвращает язык fenced-блока, "text" если тег не указан
func codeLanguage(n *ast.FencedCodeBlock, source []byte) string {
	if lang := string(n.Language(source)); lang != "" {
		return lang
	}
	return "text"
}

// serializeList рендерит список с вложенностью, 2 пробела на уровень
func serializeList(list *ast.List, source []byte, depth int) string {
	indent := strings.Repeat("  ", depth)
	var lines []string

	num := list.Start
	if num == 0 {
		num = 1
	}

	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "- "
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}

		first := true
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if nested, ok := child.(*ast.List); ok {
				lines = append(lines, serializeList(nested, source, depth+1))
				continue
			}
			text := renderInline(child, source)
			if text == "" {
				continue
			}
			if first {
				lines = append(lines, indent+marker+text)
				first = false
			} else {
				lines = append(lines, indent+strings.Repeat(" ", len(marker))+text)
			}
		}
	}

	return strings.Join(lines, "\n")
}

// serializeTable рендерит GFM таблицу с разделительной строкой
func serializeTable(table *east.Table, source []byte) string {
	var lines []string

	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(renderInline(cell, source)))
		}
		line := "| " + strings.Join(cells, " | ") + " |"
		lines = append(lines, line)

		if _, ok := row.(*east.TableHeader); ok {
			var seps []string
			for range cells {
				seps = append(seps, "---")
			}
			lines = append(lines, "| "+strings.Join(seps, " | ")+" |")
		}
	}

	return strings.Join(lines, "\n")
}

// serializeBlockquote рендерит цитату с префиксом "> " на каждой строке
func serializeBlockquote(quote *ast.Blockquote, source []byte) string {
	var inner []string
	for child := quote.FirstChild(); child != nil; child = child.NextSibling() {
		if s := serializeNode(child, source); s != "" {
			inner = append(inner, s)
		}
	}

	var lines []string
	for _, line := range strings.Split(strings.Join(inner, "\n\n"), "\n") {
		lines = append(lines, strings.TrimRight("> "+line, " "))
	}
	return strings.Join(lines, "\n")
}

func serializeHTMLBlock(n *ast.HTMLBlock, source []byte) string {
	body := nodeLines(n, source)
	if n.HasClosure() {
		body += string(n.ClosureLine.Value(source))
	}
	return strings.TrimRight(body, "\n")
}

// renderInline рендерит inline содержимое узла обратно в markdown
func renderInline(node ast.Node, source []byte) string {
	var buf strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			buf.Write(n.Segment.Value(source))
			if n.HardLineBreak() {
				buf.WriteByte('\n')
			} else if n.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(n.Value)
		case *ast.CodeSpan:
			buf.WriteByte('`')
			buf.WriteString(renderInline(n, source))
			buf.WriteByte('`')
		case *ast.Emphasis:
			delim := strings.Repeat("*", n.Level)
			buf.WriteString(delim)
			buf.WriteString(renderInline(n, source))
			buf.WriteString(delim)
		case *east.Strikethrough:
			buf.WriteString("~~")
			buf.WriteString(renderInline(n, source))
			buf.WriteString("~~")
		case *ast.Link:
			buf.WriteByte('[')
			buf.WriteString(renderInline(n, source))
			buf.WriteString("](")
			buf.Write(n.Destination)
			buf.WriteByte(')')
		case *ast.Image:
			buf.WriteString("![")
			buf.WriteString(renderInline(n, source))
			buf.WriteString("](")
			buf.Write(n.Destination)
			buf.WriteByte(')')
		case *ast.AutoLink:
			buf.WriteByte('<')
			buf.Write(n.URL(source))
			buf.WriteByte('>')
		case *ast.RawHTML:
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				buf.Write(seg.Value(source))
			}
		default:
			buf.WriteString(renderInline(child, source))
		}
	}
	return buf.String()
}
