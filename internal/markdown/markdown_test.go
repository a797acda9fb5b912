package markdown

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const sampleSpec = `# Notifications Specification

## Purpose
Deliver notifications to users.

## Requirements
### Requirement: Email delivery
The system SHALL send email.

#### Scenario: Sent
- **WHEN** an event fires
- **THEN** an email is queued

### Requirement: Retry
Failed sends SHALL be retried.

### Requirement: Digest
A daily digest SHALL be sent.
`

func TestParseSpecKeepsRequirementOrder(t *testing.T) {
	spec := ParseSpec(sampleSpec)

	require.Equal(t, "Notifications Specification", spec.Title)
	require.Equal(t, "Deliver notifications to users.", spec.Purpose)
	require.Len(t, spec.Requirements, 3)
	require.Equal(t, []string{"Email delivery", "Retry", "Digest"}, requirementTitles(spec.Requirements))
	require.Equal(t, []Scenario{{
		Title: "Sent",
		Steps: []string{"- **WHEN** an event fires", "- **THEN** an email is queued"},
	}}, spec.Requirements[0].Scenarios)
}

func TestSectionsLastWinsKeepsFirstPosition(t *testing.T) {
	sections := ParseSections("## Why\none\n## What Changes\nx\n## Why\ntwo\n")

	require.Equal(t, []string{"why", "what changes"}, sections.Titles())
	require.Equal(t, "two", sections.Body("WHY"))
	_, ok := sections.Get("missing")
	require.False(t, ok)
}

func TestExtractJSONBlockNeverFailsOnMalformedInput(t *testing.T) {
	value, ok := ExtractJSONBlock("```json\n{bad\n```")
	require.False(t, ok)
	require.Nil(t, value)

	_, ok = ExtractJSONBlock("")
	require.False(t, ok)
}

func TestParseDeltaEmpty(t *testing.T) {
	require.True(t, ParseDelta("# Nothing here\n\nJust prose.\n").Empty())
	require.False(t, ParseDelta("## REMOVED Requirements\n### Requirement: Old\n").Empty())
}

func TestParseIsLineEndingInvariant(t *testing.T) {
	line := rapid.OneOf(
		rapid.StringMatching(`#{1,5} [A-Za-z ]{0,12}`),
		rapid.StringMatching(`#{3,4} Requirement: [A-Za-z]{1,8}`),
		rapid.StringMatching(`#{4,5} Scenario: [A-Za-z]{1,8}`),
		rapid.StringMatching(`- \*\*(WHEN|THEN|GIVEN)\*\* [a-z ]{0,10}`),
		rapid.StringMatching(`\*\*(CHANGE|REASON):\*\* [a-z ]{0,10}`),
		rapid.StringMatching(`[a-z ]{0,20}`),
		rapid.Just("```json"),
		rapid.Just(`{"name": "x"}`),
		rapid.Just("```"),
	)

	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.SliceOfN(line, 0, 30).Draw(t, "lines")
		lf := strings.Join(lines, "\n")
		crlf := strings.Join(lines, "\r\n")

		if got, want := ParseSections(crlf).All(), ParseSections(lf).All(); !equalSections(got, want) {
			t.Fatalf("loose sections differ: %v vs %v", got, want)
		}
		if got, want := ParseSpecSections(crlf).All(), ParseSpecSections(lf).All(); !equalSections(got, want) {
			t.Fatalf("spec sections differ: %v vs %v", got, want)
		}
		if got, want := fmt.Sprint(ParseRequirements(crlf)), fmt.Sprint(ParseRequirements(lf)); got != want {
			t.Fatalf("requirements differ: %s vs %s", got, want)
		}
		if got, want := fmt.Sprint(ParseDelta(crlf)), fmt.Sprint(ParseDelta(lf)); got != want {
			t.Fatalf("deltas differ: %s vs %s", got, want)
		}
		if ParseTitle(crlf) != ParseTitle(lf) {
			t.Fatalf("titles differ")
		}
		gotJSON, gotOK := ExtractJSONBlock(crlf)
		wantJSON, wantOK := ExtractJSONBlock(lf)
		if gotOK != wantOK || fmt.Sprint(gotJSON) != fmt.Sprint(wantJSON) {
			t.Fatalf("json blocks differ: %v vs %v", gotJSON, wantJSON)
		}
	})
}

func TestExtractJSONBlockLastBlockWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		first := rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "first")
		second := rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "second")
		doc := fmt.Sprintf("intro\n```json\n{\"v\": %q}\n```\nmiddle\n```json\n{\"v\": %q}\n```\n", first, second)

		value, ok := ExtractJSONBlock(doc)
		if !ok {
			t.Fatalf("expected a JSON block")
		}
		if got := value.(map[string]any)["v"]; got != second {
			t.Fatalf("expected %q, got %v", second, got)
		}
	})
}

func TestParseRequirementsPreservesSourceOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		titles := rapid.SliceOfNDistinct(rapid.StringMatching(`[A-Z][a-z]{2,8}`), 1, 10, rapid.ID[string]).Draw(t, "titles")
		var b strings.Builder
		for i, title := range titles {
			rank := "###"
			if i%2 == 1 {
				rank = "####"
			}
			fmt.Fprintf(&b, "%s Requirement: %s\nbody %d\n\n", rank, title, i)
		}

		got := requirementTitles(ParseRequirements(b.String()))
		if strings.Join(got, ",") != strings.Join(titles, ",") {
			t.Fatalf("expected %v, got %v", titles, got)
		}
	})
}

func requirementTitles(requirements []Requirement) []string {
	out := make([]string, 0, len(requirements))
	for _, req := range requirements {
		out = append(out, req.Title)
	}
	return out
}

func equalSections(a, b []Section) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
