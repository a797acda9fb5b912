// Package tools configures AI assistants to follow the OpenSpec workflow:
// root instruction files with a managed block and slash command files.
package tools

import (
	"fmt"
	"strings"

	"github.com/openspec-dev/openspec/internal/templates"
)

const (
	idAll  = "all"
	idNone = "none"

	agentsFile = "AGENTS.md"
)

type CommandID string

// Tool describes one assistant integration.
type Tool struct {
	ID   string
	Name string
	// ConfigFile is the instruction file, relative to the project root, that
	// receives the managed OpenSpec block.
	ConfigFile string
	Available  bool
	// SlashCommands maps each command to its file, relative to the root.
	SlashCommands map[CommandID]string
}

// Registry is an ordered set of tools.
type Registry struct {
	tools []Tool
	byID  map[string]int
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{byID: make(map[string]int, len(tools))}
	for _, tool := range tools {
		if idx, ok := r.byID[tool.ID]; ok {
			r.tools[idx] = tool
			continue
		}
		r.byID[tool.ID] = len(r.tools)
		r.tools = append(r.tools, tool)
	}
	return r
}

// DefaultRegistry returns the built-in assistant integrations.
func DefaultRegistry() *Registry {
	return NewRegistry(
		rootTool("auggie", "Auggie (Augment CLI)", agentsFile),
		withSlash(rootTool("claude", "Claude Code", "CLAUDE.md"), ".claude/commands/openspec/{id}.md"),
		rootTool("cline", "Cline", "CLINE.md"),
		rootTool("codebuddy", "CodeBuddy Code (CLI)", agentsFile),
		rootTool("costrict", "CoStrict", agentsFile),
		rootTool("crush", "Crush", agentsFile),
		withSlash(rootTool("cursor", "Cursor", agentsFile), ".cursor/commands/openspec-{id}.md"),
		rootTool("factory", "Factory Droid", agentsFile),
		rootTool("opencode", "OpenCode", agentsFile),
		rootTool("kilocode", "Kilo Code", agentsFile),
		rootTool("qoder", "Qoder (CLI)", agentsFile),
		withSlash(rootTool("windsurf", "Windsurf", agentsFile), ".windsurf/workflows/openspec-{id}.md"),
		rootTool("codex", "Codex", agentsFile),
		withSlash(rootTool("github-copilot", "GitHub Copilot", agentsFile), ".github/prompts/openspec-{id}.prompt.md"),
		rootTool("amazon-q", "Amazon Q Developer", agentsFile),
		rootTool("qwen", "Qwen Code", agentsFile),
		rootTool("agents", "AGENTS.md (works with most assistants)", agentsFile),
	)
}

func rootTool(id, name, configFile string) Tool {
	return Tool{ID: id, Name: name, ConfigFile: configFile, Available: true}
}

func withSlash(tool Tool, pattern string) Tool {
	tool.SlashCommands = make(map[CommandID]string, len(templates.SlashCommands))
	for _, id := range templates.SlashCommands {
		tool.SlashCommands[CommandID(id)] = strings.ReplaceAll(pattern, "{id}", id)
	}
	return tool
}

func (r *Registry) Get(id string) (Tool, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Tool{}, false
	}
	return r.tools[idx], true
}

// All returns the tools in registration order.
func (r *Registry) All() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.tools))
	for _, tool := range r.tools {
		ids = append(ids, tool.ID)
	}
	return ids
}

// Parse reads a comma or space separated tool list. "all" selects every
// available tool and "none" selects nothing. The result keeps registry order.
func (r *Registry) Parse(raw string) ([]string, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return nil, nil
	}

	selected := make(map[string]bool)
	for _, chunk := range strings.Split(raw, ",") {
		for _, value := range strings.Fields(chunk) {
			switch value {
			case idNone:
				continue
			case idAll:
				for _, tool := range r.tools {
					if tool.Available {
						selected[tool.ID] = true
					}
				}
				continue
			}
			tool, ok := r.Get(value)
			if !ok {
				return nil, fmt.Errorf("unsupported tool %q (supported: %s, %s, %s)", value, strings.Join(r.IDs(), ", "), idAll, idNone)
			}
			if !tool.Available {
				return nil, fmt.Errorf("tool %q is not available yet", value)
			}
			selected[tool.ID] = true
		}
	}

	out := make([]string, 0, len(selected))
	for _, tool := range r.tools {
		if selected[tool.ID] {
			out = append(out, tool.ID)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// Lookup resolves ids to tools, failing on the first unknown id.
func (r *Registry) Lookup(ids []string) ([]Tool, error) {
	out := make([]Tool, 0, len(ids))
	for _, id := range ids {
		tool, ok := r.Get(id)
		if !ok {
			return nil, fmt.Errorf("unsupported tool %q", id)
		}
		out = append(out, tool)
	}
	return out, nil
}
