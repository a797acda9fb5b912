package markdown

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Delta section headings are matched with their exact casing.
const (
	AddedHeading    = "ADDED Requirements"
	ModifiedHeading = "MODIFIED Requirements"
	RemovedHeading  = "REMOVED Requirements"
)

var jsonBlockPattern = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n```")

// Spec is a cumulative specification: a title, a purpose and ordered
// requirements.
type Spec struct {
	Title        string        `json:"title"`
	Purpose      string        `json:"purpose"`
	Requirements []Requirement `json:"requirements"`
}

// Delta holds the requirement operations one change carries for one spec.
type Delta struct {
	Added    []Requirement `json:"added,omitempty"`
	Modified []Requirement `json:"modified,omitempty"`
	Removed  []Requirement `json:"removed,omitempty"`
}

func (d Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Modified) == 0 && len(d.Removed) == 0
}

// ExtractJSONBlock decodes the last ```json fenced block in text. It returns
// false when there is no block or the last block is not valid JSON.
func ExtractJSONBlock(text string) (any, bool) {
	matches := jsonBlockPattern.FindAllStringSubmatch(NormalizeLineEndings(text), -1)
	if len(matches) == 0 {
		return nil, false
	}
	var value any
	if err := json.Unmarshal([]byte(strings.TrimSpace(matches[len(matches)-1][1])), &value); err != nil {
		return nil, false
	}
	return value, true
}

// ParseSpec reads the title, the "## Purpose" body and the requirements of the
// "## Requirements" section.
func ParseSpec(text string) Spec {
	sections := ParseSpecSections(text)
	return Spec{
		Title:        ParseTitle(text),
		Purpose:      sections.Body("purpose"),
		Requirements: ParseRequirements(sections.Body("requirements")),
	}
}

// ParseDelta collects requirements from the ADDED, MODIFIED and REMOVED
// sections of a change's per-spec delta document.
func ParseDelta(text string) Delta {
	var delta Delta
	for _, section := range scanSections(text, isSecondRankHeader) {
		switch section.Heading {
		case AddedHeading:
			delta.Added = append(delta.Added, ParseRequirements(section.Body)...)
		case ModifiedHeading:
			delta.Modified = append(delta.Modified, ParseRequirements(section.Body)...)
		case RemovedHeading:
			delta.Removed = append(delta.Removed, ParseRequirements(section.Body)...)
		}
	}
	return delta
}
