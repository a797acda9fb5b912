package tools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpsertManagedBlock(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		want     string
	}{
		{
			name: "empty file",
			want: StartMarker + "\nbody\n" + EndMarker + "\n",
		},
		{
			name:     "appends after user content",
			existing: "# Notes\nmine",
			want:     "# Notes\nmine\n\n" + StartMarker + "\nbody\n" + EndMarker + "\n",
		},
		{
			name:     "replaces between markers",
			existing: "before\n" + StartMarker + "\nold\n" + EndMarker + "\nafter\n",
			want:     "before\n" + StartMarker + "\nbody\n" + EndMarker + "\nafter\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UpsertManagedBlock(tt.existing, "  body\n")
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestUpsertManagedBlockRejectsBrokenMarkers(t *testing.T) {
	_, err := UpsertManagedBlock(EndMarker+"\n"+StartMarker+"\n", "x")
	require.ErrorIs(t, err, ErrMalformedBlock)

	_, err = UpsertManagedBlock("text\n"+StartMarker+"\n", "x")
	require.ErrorContains(t, err, "missing its end marker")
}

func TestExtractManagedBlock(t *testing.T) {
	body, ok := ExtractManagedBlock("a\n" + ManagedBlock("hello") + "\nb")
	require.True(t, ok)
	require.Equal(t, "hello", body)

	_, ok = ExtractManagedBlock("nothing here")
	require.False(t, ok)
}

func TestParse(t *testing.T) {
	registry := DefaultRegistry()

	ids, err := registry.Parse("cursor, claude claude")
	require.NoError(t, err)
	require.Equal(t, []string{"claude", "cursor"}, ids)

	ids, err = registry.Parse("none")
	require.NoError(t, err)
	require.Empty(t, ids)

	ids, err = registry.Parse("all")
	require.NoError(t, err)
	require.Equal(t, registry.IDs(), ids)

	_, err = registry.Parse("emacs")
	require.ErrorContains(t, err, `unsupported tool "emacs"`)
	require.ErrorContains(t, err, "github-copilot")
}

func TestParseSkipsUnavailableTools(t *testing.T) {
	registry := NewRegistry(
		Tool{ID: "one", Name: "One", ConfigFile: "ONE.md", Available: true},
		Tool{ID: "two", Name: "Two", ConfigFile: "TWO.md"},
	)

	ids, err := registry.Parse("all")
	require.NoError(t, err)
	require.Equal(t, []string{"one"}, ids)

	_, err = registry.Parse("two")
	require.ErrorContains(t, err, "not available")
}

func TestConfigureWritesToolFiles(t *testing.T) {
	root := t.TempDir()
	registry := DefaultRegistry()

	changed, err := registry.Configure(root, []string{"claude", "codex"})
	require.NoError(t, err)
	require.Equal(t, []string{
		".claude/commands/openspec/apply.md",
		".claude/commands/openspec/archive.md",
		".claude/commands/openspec/proposal.md",
		"AGENTS.md",
		"CLAUDE.md",
	}, changed)

	data, err := os.ReadFile(filepath.Join(root, ".claude", "commands", "openspec", "proposal.md"))
	require.NoError(t, err)
	meta, ok := ParseFrontmatter(string(data))
	require.True(t, ok)
	require.Equal(t, "OpenSpec: Proposal", meta["name"])
	require.Equal(t, "OpenSpec", meta["category"])
	require.Equal(t, []any{"openspec", "change"}, meta["tags"])

	changed, err = registry.Configure(root, []string{"claude", "codex"})
	require.NoError(t, err)
	require.Empty(t, changed)
	require.Empty(t, registry.Missing(root, []string{"claude", "codex"}))
}

func TestRefreshKeepsUserEditsAndSkipsMissingFiles(t *testing.T) {
	root := t.TempDir()
	registry := DefaultRegistry()
	_, err := registry.Configure(root, []string{"cursor"})
	require.NoError(t, err)

	path := filepath.Join(root, ".cursor", "commands", "openspec-apply.md")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	edited := strings.Replace(string(data), "category: OpenSpec", "category: Mine", 1)
	edited = strings.Replace(edited, "**Steps**", "stale", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0644))
	require.NoError(t, os.Remove(filepath.Join(root, ".cursor", "commands", "openspec-archive.md")))

	changed, err := registry.Refresh(root, []string{"cursor"})
	require.NoError(t, err)
	require.Equal(t, []string{".cursor/commands/openspec-apply.md"}, changed)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "category: Mine")
	require.Contains(t, string(data), "**Steps**")
	require.NoFileExists(t, filepath.Join(root, ".cursor", "commands", "openspec-archive.md"))
	require.Equal(t, []string{".cursor/commands/openspec-archive.md"}, registry.Missing(root, []string{"cursor"}))
}

func TestDetect(t *testing.T) {
	root := t.TempDir()
	registry := DefaultRegistry()
	_, err := registry.Configure(root, []string{"windsurf", "cline", "codex"})
	require.NoError(t, err)

	require.Equal(t, []string{"cline", "windsurf"}, registry.Detect(root))
}
