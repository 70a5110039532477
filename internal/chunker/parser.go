package chunker

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// ParseError - ошибка разбора markdown. Несёт превью входа и причину.
type ParseError struct {
	Preview string // Первые 100 символов входа, переносы строк заменены пробелами
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("markdown parse failed: %v (input: %q)", e.Err, e.Preview)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// inputPreview готовит короткое превью входа для сообщения об ошибке
func inputPreview(content string) string {
	preview := strings.Join(strings.Fields(strings.ReplaceAll(content, "\n", " ")), " ")
	runes := []rune(preview)
	if len(runes) > 100 {
		preview = string(runes[:100])
	}
	return preview
}

// Parse разбирает markdown в дерево блоков. Поддерживает GFM
// (таблицы, strikethrough). Возвращает корень дерева и исходные байты,
// нужные для чтения сегментов узлов.
func Parse(content string) (root ast.Node, source []byte, err error) {
	source = []byte(content)

	// goldmark тотален для любой строки, но парсер может паниковать
	// на патологическом входе - превращаем панику в ParseError
	defer func() {
		if r := recover(); r != nil {
			root = nil
			err = &ParseError{Preview: inputPreview(content), Err: fmt.Errorf("%v", r)}
		}
	}()

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root = md.Parser().Parse(text.NewReader(source))
	return root, source, nil
}
