package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openspec-dev/openspec/internal/fileutil"
	"github.com/openspec-dev/openspec/internal/project"
	"github.com/openspec-dev/openspec/internal/templates"
	"github.com/openspec-dev/openspec/internal/tools"
)

func (a *App) RunInit(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		rootPath, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", args[0], err)
		}
	}
	force, err := OptionalBoolFlag(cmd, "force", false)
	if err != nil {
		return err
	}
	toolsRaw, err := OptionalStringFlag(cmd, "tools")
	if err != nil {
		return err
	}
	toolIDs, err := a.Tools.Parse(toolsRaw)
	if err != nil {
		return err
	}

	p := project.New(rootPath)
	if p.Initialized() && !force {
		return fmt.Errorf("openspec/ %w in %s (use --force to refresh it)", project.ErrAlreadyExists, rootPath)
	}
	if err := p.EnsureDirectories(); err != nil {
		return err
	}

	cfg, err := a.loadConfig(p)
	if err != nil {
		return err
	}
	if flagChanged(cmd, "tools") || toolsRaw != "" {
		cfg.Tools = toolIDs
	}

	updated, err := a.writeInstructionFiles(p, true)
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	wrote, err := fileutil.WriteIfChanged(p.ConfigFile(), data)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", p.Rel(p.ConfigFile()), err)
	}
	if wrote {
		updated = append(updated, p.Rel(p.ConfigFile()))
	}

	toolFiles, err := a.Tools.Configure(p.Root, cfg.Tools)
	if err != nil {
		return err
	}
	updated = fileutil.SortedUnique(append(updated, toolFiles...))
	a.Logger.Info("project initialized", "root", p.Root, "tools", cfg.Tools, "files", len(updated))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Initialized OpenSpec in %s\n", check(true), p.Dir())
	if len(cfg.Tools) > 0 {
		fmt.Fprintf(out, "Configured AI tools: %s\n", strings.Join(a.toolNames(cfg.Tools), ", "))
	}
	if len(updated) > 0 {
		fmt.Fprintf(out, "Updated files (%d): %s\n", len(updated), SummarizePaths(updated, 8))
	}
	fmt.Fprintln(out, mutedStyle.Render("next: fill in openspec/project.md, then run openspec change create <name>"))
	return nil
}

func (a *App) RunUpdate(cmd *cobra.Command, args []string) error {
	p, err := a.openProject()
	if err != nil {
		return err
	}
	cfg, err := a.loadConfig(p)
	if err != nil {
		return err
	}
	toolIDs := cfg.Tools
	if len(toolIDs) == 0 {
		toolIDs = a.Tools.Detect(p.Root)
	}

	updated, err := a.writeInstructionFiles(p, false)
	if err != nil {
		return err
	}
	toolFiles, err := a.Tools.Refresh(p.Root, toolIDs)
	if err != nil {
		return err
	}
	updated = fileutil.SortedUnique(append(updated, toolFiles...))
	a.Logger.Info("instructions refreshed", "tools", toolIDs, "files", len(updated))

	out := cmd.OutOrStdout()
	if len(updated) == 0 {
		fmt.Fprintln(out, "OpenSpec instructions are up to date")
		return nil
	}
	fmt.Fprintf(out, "%s Updated files (%d): %s\n", check(true), len(updated), SummarizePaths(updated, 8))
	return nil
}

// writeInstructionFiles writes openspec/AGENTS.md, the root AGENTS.md managed
// block and, on init, the project.md template. It returns the changed paths.
func (a *App) writeInstructionFiles(p *project.Project, scaffold bool) ([]string, error) {
	updated := make([]string, 0, 3)

	if scaffold {
		created, err := fileutil.WriteIfMissing(p.ProjectFile(), []byte(templates.ProjectContext()))
		if err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", p.Rel(p.ProjectFile()), err)
		}
		if created {
			updated = append(updated, p.Rel(p.ProjectFile()))
		}
	}

	wrote, err := fileutil.WriteIfChanged(p.AgentsFile(), []byte(templates.Agents()))
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", p.Rel(p.AgentsFile()), err)
	}
	if wrote {
		updated = append(updated, p.Rel(p.AgentsFile()))
	}

	rootAgents := filepath.Join(p.Root, project.AgentsFileName)
	wrote, err = tools.UpsertManagedFile(rootAgents, templates.RootAgentsBlock())
	if err != nil {
		return nil, err
	}
	if wrote {
		updated = append(updated, project.AgentsFileName)
	}
	return updated, nil
}

func (a *App) toolNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if tool, ok := a.Tools.Get(id); ok {
			names = append(names, tool.Name)
		}
	}
	return names
}

// SummarizePaths joins at most max paths and counts the rest.
func SummarizePaths(paths []string, max int) string {
	if len(paths) <= max {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s ... (+%d more)", strings.Join(paths[:max], ", "), len(paths)-max)
}
