package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/openspec-dev/openspec/internal/fileutil"
	"github.com/openspec-dev/openspec/internal/templates"
)

// Configure writes the instruction file and slash commands of each tool under
// root, creating missing files. It returns the sorted relative paths that
// changed.
func (r *Registry) Configure(root string, ids []string) ([]string, error) {
	return r.apply(root, ids, true)
}

// Refresh rewrites the managed content of files that already exist and
// leaves missing files alone.
func (r *Registry) Refresh(root string, ids []string) ([]string, error) {
	return r.apply(root, ids, false)
}

func (r *Registry) apply(root string, ids []string, create bool) ([]string, error) {
	selected, err := r.Lookup(ids)
	if err != nil {
		return nil, err
	}

	changed := make([]string, 0)
	for _, tool := range selected {
		if rel := tool.ConfigFile; rel != "" {
			path := filepath.Join(root, filepath.FromSlash(rel))
			if create || fileutil.Exists(path) {
				wrote, err := UpsertManagedFile(path, templates.RootAgentsBlock())
				if err != nil {
					return nil, err
				}
				if wrote {
					changed = append(changed, rel)
				}
			}
		}

		for _, id := range sortedCommands(tool.SlashCommands) {
			rel := tool.SlashCommands[id]
			path := filepath.Join(root, filepath.FromSlash(rel))
			if !create && !fileutil.Exists(path) {
				continue
			}
			wrote, err := writeSlashCommand(path, id)
			if err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", rel, err)
			}
			if wrote {
				changed = append(changed, rel)
			}
		}
	}

	return fileutil.SortedUnique(changed), nil
}

// Missing returns the relative paths of files the tools should have but that
// are absent or lack a managed block.
func (r *Registry) Missing(root string, ids []string) []string {
	missing := make([]string, 0)
	for _, id := range ids {
		tool, ok := r.Get(id)
		if !ok {
			continue
		}
		paths := make([]string, 0, len(tool.SlashCommands)+1)
		if tool.ConfigFile != "" {
			paths = append(paths, tool.ConfigFile)
		}
		for _, cmd := range sortedCommands(tool.SlashCommands) {
			paths = append(paths, tool.SlashCommands[cmd])
		}
		for _, rel := range paths {
			if !ContainsManagedBlock(filepath.Join(root, filepath.FromSlash(rel))) {
				missing = append(missing, rel)
			}
		}
	}
	return fileutil.SortedUnique(missing)
}

// Detect returns the ids of tools that left files under root. Tools whose
// only file is the shared AGENTS.md cannot be told apart and are skipped.
func (r *Registry) Detect(root string) []string {
	out := make([]string, 0)
	for _, tool := range r.tools {
		if len(tool.SlashCommands) > 0 {
			found := false
			for _, rel := range tool.SlashCommands {
				if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err == nil {
					found = true
					break
				}
			}
			if found {
				out = append(out, tool.ID)
			}
			continue
		}
		if tool.ConfigFile != agentsFile && ContainsManagedBlock(filepath.Join(root, tool.ConfigFile)) {
			out = append(out, tool.ID)
		}
	}
	return out
}

func sortedCommands(commands map[CommandID]string) []CommandID {
	out := make([]CommandID, 0, len(commands))
	for id := range commands {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
