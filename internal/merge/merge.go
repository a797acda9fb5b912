// Package merge folds a change's requirement delta into a cumulative spec.
package merge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/openspec-dev/openspec/internal/markdown"
)

// ErrUnmatchedModified is returned in strict mode when a MODIFIED requirement
// names a title the base spec does not contain.
var ErrUnmatchedModified = errors.New("modified requirement not found in base spec")

type Options struct {
	// StrictModified rejects unmatched MODIFIED entries instead of appending
	// them as new requirements.
	StrictModified bool
}

type Result struct {
	Spec markdown.Spec

	Added    int
	Modified int
	Removed  int

	// ModifiedAsAdded lists MODIFIED titles that had no match and were appended.
	ModifiedAsAdded []string
	// RemovedMissing lists REMOVED titles that matched nothing.
	RemovedMissing []string
}

// Skeleton is the base used when a spec is first created by an archive.
func Skeleton(specName, changeName string) markdown.Spec {
	return markdown.Spec{
		Title:   specName + " Specification",
		Purpose: "Specification created by archiving change " + changeName,
	}
}

// Apply merges delta into base in a fixed order: ADDED, then MODIFIED, then
// REMOVED. The base value is not modified.
func Apply(base markdown.Spec, delta markdown.Delta, opts Options) (Result, error) {
	result := Result{
		Spec: markdown.Spec{
			Title:        base.Title,
			Purpose:      base.Purpose,
			Requirements: cloneRequirements(base.Requirements),
		},
	}
	reqs := result.Spec.Requirements

	for _, added := range delta.Added {
		reqs = append(reqs, cloneRequirement(added))
		result.Added++
	}

	for _, modified := range delta.Modified {
		idx := indexOfTitle(reqs, modified.Title)
		if idx < 0 {
			if opts.StrictModified {
				return Result{}, fmt.Errorf("%w: %s", ErrUnmatchedModified, modified.Title)
			}
			reqs = append(reqs, cloneRequirement(modified))
			result.ModifiedAsAdded = append(result.ModifiedAsAdded, modified.Title)
			continue
		}
		if description := modifiedDescription(modified); description != "" {
			reqs[idx].Description = description
		}
		if len(modified.Scenarios) > 0 {
			reqs[idx].Scenarios = cloneScenarios(modified.Scenarios)
		}
		result.Modified++
	}

	for _, removed := range delta.Removed {
		kept := reqs[:0]
		matched := false
		for _, req := range reqs {
			if req.Title == removed.Title {
				matched = true
				result.Removed++
				continue
			}
			kept = append(kept, req)
		}
		reqs = kept
		if !matched {
			result.RemovedMissing = append(result.RemovedMissing, removed.Title)
		}
	}

	result.Spec.Requirements = reqs
	return result, nil
}

func modifiedDescription(req markdown.Requirement) string {
	if strings.TrimSpace(req.Description) != "" {
		return req.Description
	}
	return strings.TrimSpace(req.ChangeDescription)
}

func indexOfTitle(reqs []markdown.Requirement, title string) int {
	for i, req := range reqs {
		if req.Title == title {
			return i
		}
	}
	return -1
}

func cloneRequirements(in []markdown.Requirement) []markdown.Requirement {
	out := make([]markdown.Requirement, 0, len(in))
	for _, req := range in {
		out = append(out, cloneRequirement(req))
	}
	return out
}

func cloneRequirement(req markdown.Requirement) markdown.Requirement {
	req.Scenarios = cloneScenarios(req.Scenarios)
	return req
}

func cloneScenarios(in []markdown.Scenario) []markdown.Scenario {
	if in == nil {
		return nil
	}
	out := make([]markdown.Scenario, len(in))
	for i, scenario := range in {
		out[i] = markdown.Scenario{
			Title: scenario.Title,
			Steps: append([]string(nil), scenario.Steps...),
		}
	}
	return out
}
