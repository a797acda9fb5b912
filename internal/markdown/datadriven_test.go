package markdown

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"
)

func TestDataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "sections":
				return formatSections(ParseSections(d.Input))
			case "spec-sections":
				return formatSections(ParseSpecSections(d.Input))
			case "requirements":
				return formatRequirements(ParseRequirements(d.Input), "")
			case "delta":
				return formatDelta(ParseDelta(d.Input))
			case "spec":
				return formatSpec(ParseSpec(d.Input))
			case "title":
				return orEmpty(ParseTitle(d.Input))
			case "json":
				return formatJSON(t, d.Input)
			default:
				t.Fatalf("unknown command: %s", d.Cmd)
				return ""
			}
		})
	})
}

func formatSections(sections *Sections) string {
	if sections.Len() == 0 {
		return "<empty>"
	}
	var b strings.Builder
	for _, section := range sections.All() {
		fmt.Fprintf(&b, "section %q\n", section.Title)
		if section.Body == "" {
			continue
		}
		for _, line := range strings.Split(section.Body, "\n") {
			fmt.Fprintf(&b, "  |%s\n", line)
		}
	}
	return b.String()
}

func formatRequirements(requirements []Requirement, indent string) string {
	if len(requirements) == 0 {
		return indent + "<none>\n"
	}
	var b strings.Builder
	for _, req := range requirements {
		fmt.Fprintf(&b, "%srequirement %q\n", indent, req.Title)
		if req.Description != "" {
			fmt.Fprintf(&b, "%s  description: %s\n", indent, req.Description)
		}
		if req.ChangeDescription != "" {
			fmt.Fprintf(&b, "%s  change: %s\n", indent, req.ChangeDescription)
		}
		if req.RemovalReason != "" {
			fmt.Fprintf(&b, "%s  reason: %s\n", indent, req.RemovalReason)
		}
		for _, scenario := range req.Scenarios {
			fmt.Fprintf(&b, "%s  scenario %q\n", indent, scenario.Title)
			for _, step := range scenario.Steps {
				fmt.Fprintf(&b, "%s    %s\n", indent, step)
			}
		}
	}
	return b.String()
}

func formatDelta(delta Delta) string {
	var b strings.Builder
	b.WriteString("added:\n")
	b.WriteString(formatRequirements(delta.Added, "  "))
	b.WriteString("modified:\n")
	b.WriteString(formatRequirements(delta.Modified, "  "))
	b.WriteString("removed:\n")
	b.WriteString(formatRequirements(delta.Removed, "  "))
	return b.String()
}

func formatSpec(spec Spec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "title: %s\n", orEmpty(spec.Title))
	fmt.Fprintf(&b, "purpose: %s\n", orEmpty(spec.Purpose))
	b.WriteString(formatRequirements(spec.Requirements, ""))
	return b.String()
}

func formatJSON(t *testing.T, input string) string {
	value, ok := ExtractJSONBlock(input)
	if !ok {
		return "<none>"
	}
	data, err := json.Marshal(value)
	require.NoError(t, err)
	return string(data)
}

func orEmpty(value string) string {
	if value == "" {
		return "<empty>"
	}
	return value
}
