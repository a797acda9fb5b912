package validation

import (
	"fmt"
	"strings"
)

const (
	MinWhyLength       = 50
	MaxWhyLength       = 2000
	MaxDeltasPerChange = 50
)

// Delta operations accepted in a change configuration.
var DeltaOperations = []string{"ADDED", "MODIFIED", "REMOVED", "RENAMED"}

var requirementFields = []Field{
	{Name: "id", Type: FieldTypeString, Required: true, MinLength: 1},
	{Name: "description", Type: FieldTypeString, Required: true, MinLength: 1},
	{Name: "priority", Type: FieldTypeString},
}

// ChangeSchema describes the JSON configuration block of a proposal.
var ChangeSchema = Schema{
	Name: "change",
	Fields: []Field{
		{Name: "name", Type: FieldTypeString, Required: true, MinLength: 1},
		{Name: "why", Type: FieldTypeString, Required: true, MinLength: MinWhyLength, MaxLength: MaxWhyLength},
		{Name: "whatChanges", Type: FieldTypeString, Required: true, MinLength: 1},
		{
			Name:     "deltas",
			Type:     FieldTypeArray,
			Required: true,
			MinItems: 1,
			MaxItems: MaxDeltasPerChange,
			Children: []Field{
				{Name: "spec", Type: FieldTypeString, Required: true, MinLength: 1},
				{Name: "operation", Type: FieldTypeString, Required: true, Enum: DeltaOperations},
				{Name: "description", Type: FieldTypeString, Required: true, MinLength: 1},
				{Name: "requirement", Type: FieldTypeObject, Children: requirementFields},
				{Name: "requirements", Type: FieldTypeArray, Children: requirementFields},
				{
					Name: "rename",
					Type: FieldTypeObject,
					Children: []Field{
						{Name: "from", Type: FieldTypeString, Required: true},
						{Name: "to", Type: FieldTypeString, Required: true},
					},
				},
			},
		},
		{
			Name: "metadata",
			Type: FieldTypeObject,
			Children: []Field{
				{Name: "version", Type: FieldTypeString},
				{Name: "format", Type: FieldTypeString, Enum: []string{"openspec-change"}},
				{Name: "sourcePath", Type: FieldTypeString},
			},
		},
	},
}

// SpecSchema describes the JSON configuration block of a spec.
var SpecSchema = Schema{
	Name: "spec",
	Fields: []Field{
		{Name: "name", Type: FieldTypeString, Required: true, MinLength: 1},
		{Name: "purpose", Type: FieldTypeString, Required: true, MinLength: 1},
		{Name: "requirements", Type: FieldTypeArray, Required: true, Children: requirementFields},
		{
			Name: "metadata",
			Type: FieldTypeObject,
			Children: []Field{
				{Name: "version", Type: FieldTypeString},
				{Name: "format", Type: FieldTypeString, Enum: []string{"openspec-spec"}},
				{Name: "sourcePath", Type: FieldTypeString},
			},
		},
	},
}

// changeRules checks the delta entries for rules a field schema cannot
// express. Entries with the wrong shape are skipped; the schema already
// reported them.
func changeRules(config map[string]any) []string {
	var errs []string
	deltas, _ := config["deltas"].([]any)
	for _, raw := range deltas {
		delta, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		spec, _ := delta["spec"].(string)
		if op, _ := delta["operation"].(string); op == "RENAMED" && delta["rename"] == nil {
			errs = append(errs, fmt.Sprintf("Delta with RENAMED operation must include rename information: %s", spec))
		}
		if delta["requirement"] != nil && delta["requirements"] != nil {
			errs = append(errs, fmt.Sprintf("Delta cannot have both 'requirement' and 'requirements': %s", spec))
		}
	}
	return errs
}

func specRules(config map[string]any) []string {
	requirements, _ := config["requirements"].([]any)
	seen := make(map[string]int, len(requirements))
	var duplicates []string
	for _, raw := range requirements {
		req, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		id, ok := req["id"].(string)
		if !ok || id == "" {
			continue
		}
		seen[id]++
		if seen[id] == 2 {
			duplicates = append(duplicates, id)
		}
	}
	if len(duplicates) == 0 {
		return nil
	}
	return []string{"Duplicate requirement IDs found: " + strings.Join(duplicates, ", ")}
}
