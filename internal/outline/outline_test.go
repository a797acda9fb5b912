package outline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = "# auth Specification\n" +
	"\n" +
	"## Purpose\n" +
	"Authentication.\n" +
	"\n" +
	"## Requirements\n" +
	"### Requirement: Login\n" +
	"Users log in.\n" +
	"\n" +
	"#### Scenario: Valid credentials\n" +
	"- **WHEN** valid\n" +
	"\n" +
	"```json\n" +
	"{\"note\": \"## Not a heading\"}\n" +
	"```\n" +
	"\n" +
	"### Requirement: Logout\n" +
	"Users log out.\n"

func TestParseBuildsHeadingTree(t *testing.T) {
	out, err := NewParser().Parse(context.Background(), []byte(sample))
	require.NoError(t, err)

	require.Len(t, out.Headings, 1)
	root := out.Headings[0]
	require.Equal(t, "auth Specification", root.Title)
	require.Equal(t, 1, root.Line)
	require.Len(t, root.Children, 2)

	requirements := root.Children[1]
	require.Equal(t, "Requirements", requirements.Title)
	require.Len(t, requirements.Children, 2)
	require.Equal(t, KindRequirement, requirements.Children[0].Kind)
	require.Equal(t, "Scenario: Valid credentials", requirements.Children[0].Children[0].Title)
	require.Equal(t, 10, requirements.Children[0].Children[0].Line)

	require.Equal(t, []CodeBlock{{Language: "json", Line: 13}}, out.CodeBlocks)
	require.Equal(t, 2, out.Count(KindRequirement))
	require.Equal(t, 1, out.Count(KindScenario))
}

func TestRender(t *testing.T) {
	out, err := NewParser().Parse(context.Background(), []byte("# T\n\n## Why\nx\n\n## What Changes\ny\n"))
	require.NoError(t, err)
	require.Equal(t, "# T (line 1)\n  ## Why (line 3)\n  ## What Changes (line 6)\n", out.Render())
}

func TestNestHandlesSkippedLevels(t *testing.T) {
	tree := nest([]Heading{
		{Level: 3, Title: "a"},
		{Level: 2, Title: "b"},
		{Level: 4, Title: "c"},
		{Level: 4, Title: "d"},
		{Level: 1, Title: "e"},
	})
	require.Len(t, tree, 3)
	require.Equal(t, "a", tree[0].Title)
	require.Equal(t, []string{"c", "d"}, []string{tree[1].Children[0].Title, tree[1].Children[1].Title})
	require.Equal(t, "e", tree[2].Title)
}
