package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openspec-dev/openspec/internal/fileutil"
	"github.com/openspec-dev/openspec/internal/project"
	"github.com/openspec-dev/openspec/internal/tools"
	"github.com/openspec-dev/openspec/internal/validation"
)

// DoctorSummary is the result of `openspec doctor`.
type DoctorSummary struct {
	Mode         string   `json:"mode"`
	RootPath     string   `json:"root_path"`
	Initialized  bool     `json:"initialized"`
	Tools        []string `json:"tools"`
	Changes      int      `json:"changes"`
	Specs        int      `json:"specs"`
	InvalidItems []string `json:"invalid_items"`
	Missing      []string `json:"missing"`
	Suggestions  []string `json:"suggestions"`
	Healthy      bool     `json:"healthy"`
}

func (a *App) RunDoctor(cmd *cobra.Command, args []string) error {
	workingDir, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}

	summary, err := a.diagnose(cmd, workingDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return fileutil.WriteJSON(out, summary)
	}

	status := successStyle.Render("ok")
	if !summary.Healthy {
		status = errorStyle.Render("issues")
	}
	fmt.Fprintf(out, "doctor: %s\n", status)
	if summary.Initialized {
		fmt.Fprintf(out, "project: root=%s changes=%d specs=%d\n", summary.RootPath, summary.Changes, summary.Specs)
		configured := "none"
		if len(summary.Tools) > 0 {
			configured = strings.Join(summary.Tools, ", ")
		}
		fmt.Fprintf(out, "tools: %s\n", configured)
	}
	if len(summary.InvalidItems) > 0 {
		fmt.Fprintf(out, "invalid items (%d): %s\n", len(summary.InvalidItems), SummarizePaths(summary.InvalidItems, 5))
	}
	if len(summary.Missing) > 0 {
		fmt.Fprintf(out, "missing (%d): %s\n", len(summary.Missing), strings.Join(summary.Missing, ", "))
	}
	for _, suggestion := range summary.Suggestions {
		fmt.Fprintln(out, mutedStyle.Render("next: "+suggestion))
	}
	return nil
}

func (a *App) diagnose(cmd *cobra.Command, workingDir string) (DoctorSummary, error) {
	summary := DoctorSummary{
		Mode:         "doctor",
		RootPath:     workingDir,
		Tools:        []string{},
		InvalidItems: []string{},
		Missing:      []string{},
		Suggestions:  []string{},
	}

	p, err := project.Open(workingDir)
	if errors.Is(err, project.ErrNotInitialized) {
		summary.Missing = append(summary.Missing, project.DirName+"/")
		summary.Suggestions = append(summary.Suggestions, "run openspec init")
		return summary, nil
	}
	if err != nil {
		return summary, err
	}
	summary.Initialized = true
	summary.RootPath = p.Root

	for _, path := range []string{p.SpecsDir(), p.ChangesDir()} {
		if !fileutil.IsDir(path) {
			summary.Missing = append(summary.Missing, p.Rel(path)+"/")
		}
	}
	for _, path := range []string{p.ProjectFile(), p.AgentsFile()} {
		if !fileutil.Exists(path) {
			summary.Missing = append(summary.Missing, p.Rel(path))
		}
	}
	if !tools.ContainsManagedBlock(filepath.Join(p.Root, project.AgentsFileName)) {
		summary.Missing = append(summary.Missing, project.AgentsFileName+" managed block")
	}

	cfg, err := a.loadConfig(p)
	if err != nil {
		summary.Missing = append(summary.Missing, "valid "+p.Rel(p.ConfigFile()))
		summary.Suggestions = append(summary.Suggestions, fmt.Sprintf("fix %s (%v)", p.Rel(p.ConfigFile()), err))
	} else {
		summary.Tools = append(summary.Tools, cfg.Tools...)
		missingTools := a.Tools.Missing(p.Root, cfg.Tools)
		summary.Missing = append(summary.Missing, missingTools...)
		if len(missingTools) > 0 {
			summary.Suggestions = append(summary.Suggestions, "run openspec init --force --tools "+strings.Join(cfg.Tools, ","))
		}
	}

	items, err := p.AllItems(true, true)
	if err != nil {
		return summary, err
	}
	targets := make([]validation.Target, 0, len(items))
	for _, item := range items {
		if item.Kind == validation.KindChange {
			summary.Changes++
		} else {
			summary.Specs++
		}
		target, err := p.Target(item)
		if err != nil {
			return summary, err
		}
		targets = append(targets, target)
	}
	results, err := validation.Run(commandContext(cmd), targets, validation.RunOptions{
		Concurrency: cfg.Validation.Concurrency,
		Logger:      a.Logger,
	})
	if err != nil {
		return summary, err
	}
	for _, item := range results {
		if !item.Valid {
			summary.InvalidItems = append(summary.InvalidItems, item.Path)
		}
	}
	if len(summary.InvalidItems) > 0 {
		summary.Suggestions = append(summary.Suggestions, "run openspec validate --all")
	}
	if len(missingLayout(summary.Missing)) > 0 {
		summary.Suggestions = append(summary.Suggestions, "run openspec init --force")
	}

	summary.Missing = fileutil.SortedUnique(summary.Missing)
	summary.Suggestions = fileutil.DedupeStrings(summary.Suggestions)
	sort.Strings(summary.Suggestions)
	summary.Healthy = len(summary.Missing) == 0 && len(summary.InvalidItems) == 0
	return summary, nil
}

// missingLayout filters the entries that `openspec init --force` recreates.
func missingLayout(missing []string) []string {
	out := make([]string, 0)
	for _, entry := range missing {
		if strings.HasPrefix(entry, project.DirName+"/") || strings.HasPrefix(entry, project.AgentsFileName) {
			out = append(out, entry)
		}
	}
	return out
}
