package merge

import (
	"strings"

	"github.com/openspec-dev/openspec/internal/markdown"
)

// Render serializes a spec back to markdown. The same spec always renders to
// the same bytes.
func Render(spec markdown.Spec) string {
	var b strings.Builder
	b.WriteString("# " + spec.Title + "\n")
	b.WriteString("\n")
	b.WriteString("## Purpose\n")
	b.WriteString(spec.Purpose + "\n")
	b.WriteString("\n")
	b.WriteString("## Requirements\n")
	for _, req := range spec.Requirements {
		b.WriteString("### Requirement: " + req.Title + "\n")
		if req.Description != "" {
			b.WriteString(req.Description + "\n")
		}
		b.WriteString("\n")
		for _, scenario := range req.Scenarios {
			b.WriteString("#### Scenario: " + scenario.Title + "\n")
			for _, step := range scenario.Steps {
				b.WriteString(step + "\n")
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
