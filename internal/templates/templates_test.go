package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openspec-dev/openspec/internal/markdown"
	"github.com/openspec-dev/openspec/internal/validation"
)

func TestProposalValidates(t *testing.T) {
	result := validation.ValidateChangeDocument(Proposal("add-login"))
	require.True(t, result.Valid, "errors: %v", result.Errors)

	config, ok := markdown.ExtractJSONBlock(Proposal("add-login"))
	require.True(t, ok)
	require.Equal(t, "add-login", config.(map[string]any)["name"])
}

func TestSpecValidatesAndParses(t *testing.T) {
	text := Spec("user-auth")
	require.True(t, validation.ValidateSpecDocument(text).Valid)

	spec := markdown.ParseSpec(text)
	require.Equal(t, "user-auth Specification", spec.Title)
	require.Len(t, spec.Requirements, 1)
	require.Equal(t, "User Auth baseline", spec.Requirements[0].Title)
	require.Len(t, spec.Requirements[0].Scenarios, 1)
}

func TestSlashCommandsHaveBodies(t *testing.T) {
	for _, id := range SlashCommands {
		require.NotEmpty(t, SlashDescription(id), id)
		require.True(t, strings.HasPrefix(SlashBody(id), "**Steps**"), id)
	}
	require.Empty(t, SlashBody("unknown"))
}

func TestTasksChecklist(t *testing.T) {
	text := Tasks("add-login")
	require.True(t, strings.HasPrefix(text, "# add-login - Tasks\n"))
	require.Equal(t, 4, strings.Count(text, "- [ ] "))
}
