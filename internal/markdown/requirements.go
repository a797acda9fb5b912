package markdown

import (
	"regexp"
	"strings"
)

const (
	changeMarker = "**CHANGE:**"
	reasonMarker = "**REASON:**"
	stepPrefix   = "- **"
)

var (
	requirementHeaderPattern = regexp.MustCompile(`^#{3,4}\s+Requirement:\s*(.*?)\s*$`)
	scenarioHeaderPattern    = regexp.MustCompile(`^#{4,5}\s+Scenario:\s*(.*?)\s*$`)
)

// Requirement is a named behavioral clause with its example scenarios.
type Requirement struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Scenarios   []Scenario `json:"scenarios,omitempty"`

	// ChangeDescription and RemovalReason are only set by MODIFIED and REMOVED
	// delta blocks.
	ChangeDescription string `json:"change_description,omitempty"`
	RemovalReason     string `json:"removal_reason,omitempty"`
}

// Scenario steps are stored verbatim, GIVEN/WHEN/THEN keywords included.
type Scenario struct {
	Title string   `json:"title"`
	Steps []string `json:"steps,omitempty"`
}

// ParseRequirements scans a section body (or a whole document) for
// "### Requirement:" and "#### Requirement:" headers and returns the
// requirements in source order.
func ParseRequirements(body string) []Requirement {
	var (
		requirements []Requirement
		current      *Requirement
		description  []string
		scenario     *Scenario
	)

	closeScenario := func() {
		if current != nil && scenario != nil {
			current.Scenarios = append(current.Scenarios, *scenario)
		}
		scenario = nil
	}
	closeRequirement := func() {
		closeScenario()
		if current == nil {
			return
		}
		current.Description = strings.Join(description, " ")
		requirements = append(requirements, *current)
		current = nil
		description = nil
	}

	for _, raw := range strings.Split(NormalizeLineEndings(body), "\n") {
		line := strings.TrimSpace(raw)

		if m := requirementHeaderPattern.FindStringSubmatch(line); m != nil && m[1] != "" {
			closeRequirement()
			current = &Requirement{Title: m[1]}
			continue
		}
		if current == nil {
			continue
		}
		if m := scenarioHeaderPattern.FindStringSubmatch(line); m != nil && m[1] != "" {
			closeScenario()
			scenario = &Scenario{Title: m[1]}
			continue
		}

		switch {
		case line == "":
		case headerRank(line) > 0:
		case strings.HasPrefix(line, changeMarker):
			current.ChangeDescription = strings.TrimSpace(strings.TrimPrefix(line, changeMarker))
		case strings.HasPrefix(line, reasonMarker):
			current.RemovalReason = strings.TrimSpace(strings.TrimPrefix(line, reasonMarker))
		case strings.HasPrefix(line, stepPrefix) && scenario != nil:
			scenario.Steps = append(scenario.Steps, line)
		default:
			description = append(description, line)
		}
	}
	closeRequirement()
	return requirements
}
