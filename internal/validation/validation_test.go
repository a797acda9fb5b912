package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var longWhy = strings.Repeat("Because the current flow loses data. ", 3)

func proposal(config string) string {
	doc := "# T\n\n## Why\n" + longWhy + "\n\n## What Changes\n- x\n"
	if config != "" {
		doc += "\n## Configuration\n```json\n" + config + "\n```\n"
	}
	return doc
}

func TestValidateChangeDocumentStructuralOnly(t *testing.T) {
	result := ValidateChangeDocument(proposal(""))
	require.True(t, result.Valid, "errors: %v", result.Errors)
	require.Empty(t, result.Errors)
}

func TestValidateChangeDocumentShortWhy(t *testing.T) {
	config := `{"name": "t", "why": "too short.", "whatChanges": "x",
  "deltas": [{"spec": "auth", "operation": "ADDED", "description": "d"}]}`
	result := ValidateChangeDocument(proposal(config))

	require.False(t, result.Valid)
	require.Equal(t, []string{"why: must be at least 50 characters (got 10)"}, result.Errors)
}

func TestValidateChangeDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "empty file",
			doc:  "  \n\r\n",
			want: []string{"File is empty"},
		},
		{
			name: "missing sections",
			doc:  "# Title\n\nSome prose.\n",
			want: []string{
				"Missing required section: ## Why",
				"Missing required section: ## What Changes",
			},
		},
		{
			name: "configuration satisfies both sections",
			doc:  "# Title\n\n## Configuration\nnothing yet\n",
		},
		{
			name: "deeper headers do not count",
			doc:  "# Title\n\n### Why\ntext\n\n### What Changes\ntext\n",
			want: []string{
				"Missing required section: ## Why",
				"Missing required section: ## What Changes",
			},
		},
		{
			name: "empty json block is ignored",
			doc:  proposal("{}"),
		},
		{
			name: "zero block is ignored",
			doc:  proposal("0"),
		},
		{
			name: "empty string block is ignored",
			doc:  proposal(`""`),
		},
		{
			name: "false block is ignored",
			doc:  proposal("false"),
		},
		{
			name: "non-empty scalar must be an object",
			doc:  proposal("1"),
			want: []string{"change configuration must be a JSON object"},
		},
		{
			name: "malformed json is ignored",
			doc:  proposal("{not json"),
		},
		{
			name: "renamed without rename",
			doc: proposal(`{"name": "t", "why": "` + longWhy + `", "whatChanges": "x",
  "deltas": [{"spec": "auth", "operation": "RENAMED", "description": "d"}]}`),
			want: []string{"Delta with RENAMED operation must include rename information: auth"},
		},
		{
			name: "requirement and requirements together",
			doc: proposal(`{"name": "t", "why": "` + longWhy + `", "whatChanges": "x",
  "deltas": [{"spec": "auth", "operation": "ADDED", "description": "d",
    "requirement": {"id": "r1", "description": "one"},
    "requirements": [{"id": "r2", "description": "two"}]}]}`),
			want: []string{"Delta cannot have both 'requirement' and 'requirements': auth"},
		},
		{
			name: "every schema error is reported",
			doc: proposal(`{"name": "", "why": "` + longWhy + `",
  "deltas": [{"spec": "auth", "operation": "CHANGED", "description": "d", "rename": {"from": "a"}}]}`),
			want: []string{
				"name: must not be empty",
				"whatChanges: field required",
				`deltas[0].operation: must be one of ADDED, MODIFIED, REMOVED, RENAMED (got "CHANGED")`,
				"deltas[0].rename.to: field required",
			},
		},
		{
			name: "no deltas",
			doc:  proposal(`{"name": "t", "why": "` + longWhy + `", "whatChanges": "x", "deltas": []}`),
			want: []string{"deltas: must contain at least 1 item(s) (got 0)"},
		},
		{
			name: "configuration must be an object",
			doc:  proposal(`["a"]`),
			want: []string{"change configuration must be a JSON object"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateChangeDocument(tt.doc)
			if len(tt.want) == 0 {
				require.True(t, result.Valid, "errors: %v", result.Errors)
				return
			}
			require.False(t, result.Valid)
			require.Equal(t, tt.want, result.Errors)
		})
	}
}

func TestValidateChangeDocumentTooManyDeltas(t *testing.T) {
	deltas := make([]string, 51)
	for i := range deltas {
		deltas[i] = fmt.Sprintf(`{"spec": "s%d", "operation": "ADDED", "description": "d"}`, i)
	}
	config := `{"name": "t", "why": "` + longWhy + `", "whatChanges": "x", "deltas": [` + strings.Join(deltas, ",") + `]}`

	result := ValidateChangeDocument(proposal(config))
	require.Equal(t, []string{"deltas: must contain at most 50 item(s) (got 51)"}, result.Errors)
}

func TestValidateChangeDocumentWhyTooLong(t *testing.T) {
	config := `{"name": "t", "why": "` + strings.Repeat("a", 2001) + `", "whatChanges": "x",
  "deltas": [{"spec": "auth", "operation": "ADDED", "description": "d"}]}`

	result := ValidateChangeDocument(proposal(config))
	require.Equal(t, []string{"why: must be at most 2000 characters (got 2001)"}, result.Errors)
}

func TestValidateSpecDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "structural spec",
			doc:  "# auth\n\n## Purpose\nAuth.\n\n## Requirements\n### Requirement: Login\nx\n",
		},
		{
			name: "missing requirements",
			doc:  "# auth\n\n## Purpose\nAuth.\n",
			want: []string{"Missing required section: ## Requirements"},
		},
		{
			name: "duplicate ids",
			doc: "# auth\n\n## Configuration\n```json\n" + `{"name": "auth", "purpose": "Auth.", "requirements": [
  {"id": "req-1", "description": "one"},
  {"id": "req-2", "description": "two"},
  {"id": "req-1", "description": "again"}]}` + "\n```\n",
			want: []string{"Duplicate requirement IDs found: req-1"},
		},
		{
			name: "empty purpose and requirement fields",
			doc: "# auth\n\n## Configuration\n```json\n" + `{"name": "auth", "purpose": "", "requirements": [
  {"id": "", "description": ""}]}` + "\n```\n",
			want: []string{
				"purpose: must not be empty",
				"requirements[0].id: must not be empty",
				"requirements[0].description: must not be empty",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateSpecDocument(tt.doc)
			if len(tt.want) == 0 {
				require.True(t, result.Valid, "errors: %v", result.Errors)
				return
			}
			require.False(t, result.Valid)
			require.Equal(t, tt.want, result.Errors)
		})
	}
}

func TestValidationIsLineEndingInvariant(t *testing.T) {
	docs := []string{
		proposal(""),
		proposal(`{"name": "t", "why": "short", "whatChanges": "x", "deltas": []}`),
		"# auth\n\n## Purpose\nAuth.\n",
	}
	for _, doc := range docs {
		crlf := strings.ReplaceAll(doc, "\n", "\r\n")
		require.Equal(t, ValidateChangeDocument(doc), ValidateChangeDocument(crlf))
		require.Equal(t, ValidateSpecDocument(doc), ValidateSpecDocument(crlf))
	}
}

func TestValidateDeltaDocument(t *testing.T) {
	require.True(t, ValidateDeltaDocument("## ADDED Requirements\n### Requirement: A\ntext\n").Valid)
	require.Equal(t,
		[]string{"No delta operations found (expected ## ADDED, ## MODIFIED or ## REMOVED Requirements)"},
		ValidateDeltaDocument("# Notes\n\nnothing\n").Errors,
	)
	require.Equal(t, []string{"File is empty"}, ValidateDeltaDocument("").Errors)
}

func TestRunKeepsTargetOrder(t *testing.T) {
	dir := t.TempDir()
	var targets []Target
	for i := 0; i < 12; i++ {
		path := filepath.Join(dir, fmt.Sprintf("spec-%02d.md", i))
		content := "# s\n\n## Purpose\np\n\n## Requirements\n"
		if i%3 == 0 {
			content = "# s\n"
		}
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		targets = append(targets, Target{Name: fmt.Sprintf("s%d", i), Kind: KindSpec, Path: path, Display: filepath.Base(path)})
	}

	var calls int
	items, err := Run(context.Background(), targets, RunOptions{
		Concurrency: 3,
		OnItem: func(done, total int, item Item) {
			calls++
			require.Equal(t, 12, total)
		},
	})
	require.NoError(t, err)
	require.Equal(t, 12, calls)
	require.Len(t, items, 12)
	for i, item := range items {
		require.Equal(t, targets[i].Display, item.Path)
		require.Equal(t, i%3 != 0, item.Valid, "item %s", item.Path)
	}
}

func TestRunReportsDeltaErrorsOnChange(t *testing.T) {
	dir := t.TempDir()
	proposalPath := filepath.Join(dir, "proposal.md")
	deltaPath := filepath.Join(dir, "spec.md")
	require.NoError(t, os.WriteFile(proposalPath, []byte(proposal("")), 0644))
	require.NoError(t, os.WriteFile(deltaPath, []byte("# nothing\n"), 0644))

	items, err := Run(context.Background(), []Target{{
		Name:    "c",
		Kind:    KindChange,
		Path:    proposalPath,
		Display: "changes/c/proposal.md",
		Deltas:  map[string]string{"changes/c/specs/auth/spec.md": deltaPath},
	}, {
		Name: "missing",
		Kind: KindSpec,
		Path: filepath.Join(dir, "missing.md"),
	}}, RunOptions{Concurrency: 8})

	require.NoError(t, err)
	require.False(t, items[0].Valid)
	require.Equal(t, []string{
		"changes/c/specs/auth/spec.md: No delta operations found (expected ## ADDED, ## MODIFIED or ## REMOVED Requirements)",
	}, items[0].Errors)
	require.False(t, items[1].Valid)
	require.Contains(t, items[1].Errors[0], "Failed to read file")
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, []Target{{Kind: KindSpec, Path: "x"}}, RunOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestReportShape(t *testing.T) {
	report := NewReport([]Item{
		{Path: "a", Type: KindChange, Valid: true},
		{Path: "b", Type: KindSpec, Valid: false, Errors: []string{"boom"}},
	})
	require.True(t, report.Failed())

	data, err := json.Marshal(report)
	require.NoError(t, err)
	require.JSONEq(t, `{
  "version": "1.0",
  "summary": {"totals": {"total": 2, "valid": 1, "invalid": 1}},
  "items": [
    {"path": "a", "type": "change", "valid": true, "errors": []},
    {"path": "b", "type": "spec", "valid": false, "errors": ["boom"]}
  ]
}`, string(data))
}
