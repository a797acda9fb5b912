// Package validation checks change proposals, specs and delta documents.
// Every check runs to completion so callers receive the full error list.
package validation

import (
	"regexp"
	"strings"

	"github.com/openspec-dev/openspec/internal/markdown"
)

// Result is the outcome of validating one document.
type Result struct {
	Valid  bool
	Errors []string
}

func newResult(errs []string) Result {
	if errs == nil {
		errs = []string{}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

type sectionRequirement struct {
	name         string
	alternatives []*regexp.Regexp
}

func headingPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?mi)^##[ \t]+` + regexp.QuoteMeta(name) + `\b`)
}

var (
	configurationHeading = headingPattern("Configuration")

	changeSections = []sectionRequirement{
		{name: "Why", alternatives: []*regexp.Regexp{headingPattern("Why"), configurationHeading}},
		{name: "What Changes", alternatives: []*regexp.Regexp{headingPattern("What Changes"), configurationHeading}},
	}
	specSections = []sectionRequirement{
		{name: "Purpose", alternatives: []*regexp.Regexp{headingPattern("Purpose"), configurationHeading}},
		{name: "Requirements", alternatives: []*regexp.Regexp{headingPattern("Requirements"), configurationHeading}},
	}
)

// ValidateChangeDocument checks a proposal: required sections, then the
// optional JSON configuration block against ChangeSchema and change rules.
func ValidateChangeDocument(text string) Result {
	return validateDocument(text, changeSections, ChangeSchema, changeRules)
}

// ValidateSpecDocument checks a spec: required sections, then the optional
// JSON configuration block against SpecSchema and duplicate requirement IDs.
func ValidateSpecDocument(text string) Result {
	return validateDocument(text, specSections, SpecSchema, specRules)
}

// ValidateDeltaDocument checks a change's per-spec delta document.
func ValidateDeltaDocument(text string) Result {
	text = markdown.NormalizeLineEndings(text)
	if strings.TrimSpace(text) == "" {
		return newResult([]string{"File is empty"})
	}
	var errs []string
	if markdown.ParseDelta(text).Empty() {
		errs = append(errs, "No delta operations found (expected ## ADDED, ## MODIFIED or ## REMOVED Requirements)")
	}
	return newResult(errs)
}

func validateDocument(text string, required []sectionRequirement, schema Schema, rules func(map[string]any) []string) Result {
	text = markdown.NormalizeLineEndings(text)
	if strings.TrimSpace(text) == "" {
		return newResult([]string{"File is empty"})
	}

	var errs []string
	for _, section := range required {
		if !matchesAny(text, section.alternatives) {
			errs = append(errs, "Missing required section: ## "+section.name)
		}
	}

	config, ok := markdown.ExtractJSONBlock(text)
	if ok && !emptyConfig(config) {
		errs = append(errs, schema.Validate(config)...)
		if obj, isObject := config.(map[string]any); isObject {
			errs = append(errs, rules(obj)...)
		}
	}
	return newResult(errs)
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// emptyConfig reports whether a decoded block carries nothing to validate:
// null, {}, [], "", 0 or false.
func emptyConfig(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case string:
		return v == ""
	case float64:
		return v == 0
	case bool:
		return !v
	default:
		return false
	}
}
