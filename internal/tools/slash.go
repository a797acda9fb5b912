package tools

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openspec-dev/openspec/internal/fileutil"
	"github.com/openspec-dev/openspec/internal/templates"
)

type frontmatter struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags,flow"`
}

func slashFrontmatter(id CommandID) frontmatter {
	tag := string(id)
	if id == templates.CommandProposal {
		tag = "change"
	}
	return frontmatter{
		Name:        "OpenSpec: " + strings.ToUpper(string(id[:1])) + string(id[1:]),
		Description: templates.SlashDescription(string(id)),
		Category:    "OpenSpec",
		Tags:        []string{"openspec", tag},
	}
}

// RenderSlashCommand returns the full content of a new slash command file.
func RenderSlashCommand(id CommandID) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(slashFrontmatter(id)); err != nil {
		return "", fmt.Errorf("failed to encode frontmatter for %s: %w", id, err)
	}
	if err := encoder.Close(); err != nil {
		return "", err
	}
	return "---\n" + buf.String() + "---\n\n" + ManagedBlock(templates.SlashBody(string(id))) + "\n", nil
}

// writeSlashCommand creates the file with frontmatter, or refreshes only the
// managed body of an existing file.
func writeSlashCommand(path string, id CommandID) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return UpsertManagedFile(path, templates.SlashBody(string(id)))
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to inspect %s: %w", path, err)
	}

	content, err := RenderSlashCommand(id)
	if err != nil {
		return false, err
	}
	return fileutil.WriteIfChanged(path, []byte(content))
}

// ParseFrontmatter decodes the leading YAML block of a slash command file.
func ParseFrontmatter(text string) (map[string]any, bool) {
	if !strings.HasPrefix(text, "---\n") {
		return nil, false
	}
	rest := text[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, false
	}
	var out map[string]any
	if err := yaml.Unmarshal([]byte(rest[:end]), &out); err != nil {
		return nil, false
	}
	return out, true
}
