package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"
)

func TestParseIsTotal(t *testing.T) {
	// парсер тотален: любой вход даёт дерево, даже невалидный markdown
	inputs := []string{
		"",
		"plain text",
		"# heading only",
		"```unclosed fence",
		"| broken | table",
		strings.Repeat("*", 500),
	}

	for _, in := range inputs {
		root, _, err := Parse(in)
		require.NoError(t, err, "input %q", in)
		require.NotNil(t, root)
	}
}

func topLevelNodes(root ast.Node) []ast.Node {
	var nodes []ast.Node
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		nodes = append(nodes, n)
	}
	return nodes
}

func TestParseDeterministic(t *testing.T) {
	input := "# A\n\nsome *text* here\n\n- l1\n- l2"

	root1, src1, err := Parse(input)
	require.NoError(t, err)
	root2, src2, err := Parse(input)
	require.NoError(t, err)

	assert.Equal(t, serializeGroup(topLevelNodes(root1), src1), serializeGroup(topLevelNodes(root2), src2))
}

func TestInputPreview(t *testing.T) {
	// переносы строк схлопываются в пробелы, максимум 100 символов
	in := strings.Repeat("abcde\n", 40)
	got := inputPreview(in)

	assert.NotContains(t, got, "\n")
	assert.LessOrEqual(t, len([]rune(got)), 100)
	assert.True(t, strings.HasPrefix(got, "abcde abcde"))
}

func TestParseErrorMessage(t *testing.T) {
	cause := errors.New("boom")
	err := &ParseError{Preview: "# bad input", Err: cause}

	assert.Contains(t, err.Error(), "# bad input")
	assert.Contains(t, err.Error(), "boom")
	assert.ErrorIs(t, err, cause)
}
