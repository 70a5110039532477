package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSectionsHierarchy(t *testing.T) {
	root, src, err := Parse("# A\n\ntext1\n\n## B\n\ntext2")
	require.NoError(t, err)

	sections := ExtractSections(root, src)
	require.Len(t, sections, 2)

	assert.Equal(t, []string{"A"}, sections[0].Hierarchy)
	require.Len(t, sections[0].Nodes, 1)

	assert.Equal(t, []string{"A", "B"}, sections[1].Hierarchy)
	require.Len(t, sections[1].Nodes, 1)
}

func TestExtractSectionsGapFiltering(t *testing.T) {
	// ## без родительского # - дыра фильтруется, не остаётся пустого слота
	root, src, err := Parse("## Sub\n\ntext")
	require.NoError(t, err)

	sections := ExtractSections(root, src)
	require.Len(t, sections, 1)
	assert.Equal(t, []string{"Sub"}, sections[0].Hierarchy)
}

func TestExtractSectionsSiblingResetsStack(t *testing.T) {
	// второй H1 обрезает стек, H2 под ним не видит прошлую ветку
	root, src, err := Parse("# A\n\n## B\n\none\n\n# C\n\n## D\n\ntwo")
	require.NoError(t, err)

	sections := ExtractSections(root, src)
	require.Len(t, sections, 2)
	assert.Equal(t, []string{"A", "B"}, sections[0].Hierarchy)
	assert.Equal(t, []string{"C", "D"}, sections[1].Hierarchy)
}

func TestExtractSectionsNoEmptySections(t *testing.T) {
	// заголовки без контента не порождают секций
	root, src, err := Parse("# A\n\n## B\n\n### C")
	require.NoError(t, err)

	sections := ExtractSections(root, src)
	assert.Empty(t, sections)
}

func TestExtractSectionsPreamble(t *testing.T) {
	// контент до первого заголовка - секция с пустой иерархией
	root, src, err := Parse("intro text\n\n# A\n\nbody")
	require.NoError(t, err)

	sections := ExtractSections(root, src)
	require.Len(t, sections, 2)
	assert.Empty(t, sections[0].Hierarchy)
	assert.Equal(t, []string{"A"}, sections[1].Hierarchy)
}

func TestHeadingStackTruncateThenSet(t *testing.T) {
	var s headingStack
	s.Set(1, "A")
	s.Set(3, "C") // пропущен уровень 2
	assert.Equal(t, []string{"A", "C"}, s.Hierarchy())

	s.Set(2, "B") // обрезает глубже лежащие уровни
	assert.Equal(t, []string{"A", "B"}, s.Hierarchy())
}

func TestFlattenInlineFormatting(t *testing.T) {
	root, src, err := Parse("# *Bold* `code` [link](http://x) ~~gone~~")
	require.NoError(t, err)

	sectionsRoot := root.FirstChild()
	require.NotNil(t, sectionsRoot)
	assert.Equal(t, "Bold code link gone", flattenInline(sectionsRoot, src))
}
