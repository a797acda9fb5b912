package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/openspec-dev/openspec/internal/project"
)

const progressBarWidth = 20

// Dashboard is the data behind `openspec view`.
type Dashboard struct {
	Specs          []project.SpecInfo
	Active         []project.Change
	Completed      []project.Change
	Archived       int
	Requirements   int
	TasksTotal     int
	TasksCompleted int
}

func (a *App) RunView(cmd *cobra.Command, args []string) error {
	p, err := a.openProject()
	if err != nil {
		return err
	}
	format, err := OptionalStringFlag(cmd, "format")
	if err != nil {
		return err
	}
	if format == "" {
		format = "table"
	}
	if format != "table" && format != "list" {
		return fmt.Errorf("unsupported --format %q (supported: table, list)", format)
	}

	dash, err := loadDashboard(p)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if format == "list" {
		printDashboardList(out, dash)
	} else {
		printDashboardTable(out, dash)
	}
	return nil
}

func loadDashboard(p *project.Project) (Dashboard, error) {
	var dash Dashboard
	specs, err := p.ListSpecs()
	if err != nil {
		return dash, err
	}
	sort.SliceStable(specs, func(i, j int) bool {
		if specs[i].Requirements != specs[j].Requirements {
			return specs[i].Requirements > specs[j].Requirements
		}
		return specs[i].Name < specs[j].Name
	})
	dash.Specs = specs
	for _, spec := range specs {
		dash.Requirements += spec.Requirements
	}

	changes, err := p.ListChanges()
	if err != nil {
		return dash, err
	}
	for _, change := range changes {
		dash.TasksTotal += change.Progress.Total
		dash.TasksCompleted += change.Progress.Completed
		if change.Progress.Total > 0 && change.Progress.Incomplete() == 0 {
			dash.Completed = append(dash.Completed, change)
		} else {
			dash.Active = append(dash.Active, change)
		}
	}

	archived, err := p.ListArchivedChanges()
	if err != nil {
		return dash, err
	}
	dash.Archived = len(archived)
	return dash, nil
}

func printDashboardTable(out io.Writer, dash Dashboard) {
	fmt.Fprintln(out, headerStyle.Render("OpenSpec Dashboard"))
	fmt.Fprintln(out)

	summary := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("SUMMARY", "")
	summary.Row("Specifications", fmt.Sprintf("%d (%d requirements)", len(dash.Specs), dash.Requirements))
	summary.Row("Active changes", fmt.Sprintf("%d", len(dash.Active)))
	summary.Row("Completed changes", fmt.Sprintf("%d", len(dash.Completed)))
	summary.Row("Archived changes", fmt.Sprintf("%d", dash.Archived))
	summary.Row("Task progress", fmt.Sprintf("%d/%d (%d%%)", dash.TasksCompleted, dash.TasksTotal, percent(dash.TasksCompleted, dash.TasksTotal)))
	fmt.Fprintln(out, summary.String())

	if len(dash.Active) > 0 {
		active := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(borderStyle).
			Headers("ACTIVE CHANGE", "PROGRESS", "DELTAS")
		for _, change := range dash.Active {
			active.Row(change.Name, progressBar(change.Progress), strings.Join(change.Deltas, ", "))
		}
		fmt.Fprintln(out, active.String())
	}

	if len(dash.Completed) > 0 {
		completed := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(borderStyle).
			Headers("COMPLETED CHANGE", "TASKS")
		for _, change := range dash.Completed {
			completed.Row(change.Name, successStyle.Render(change.Progress.String()))
		}
		fmt.Fprintln(out, completed.String())
	}

	if len(dash.Specs) > 0 {
		specs := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(borderStyle).
			Headers("SPECIFICATION", "REQUIREMENTS")
		for _, spec := range dash.Specs {
			specs.Row(spec.Name, fmt.Sprintf("%d", spec.Requirements))
		}
		fmt.Fprintln(out, specs.String())
	}

	fmt.Fprintln(out, mutedStyle.Render("next: openspec validate --all, openspec archive <change>"))
}

func printDashboardList(out io.Writer, dash Dashboard) {
	fmt.Fprintln(out, headerStyle.Render("Summary:"))
	fmt.Fprintf(out, "  specifications: %d (%d requirements)\n", len(dash.Specs), dash.Requirements)
	fmt.Fprintf(out, "  active changes: %d\n", len(dash.Active))
	fmt.Fprintf(out, "  completed changes: %d\n", len(dash.Completed))
	fmt.Fprintf(out, "  archived changes: %d\n", dash.Archived)
	fmt.Fprintf(out, "  task progress: %d/%d (%d%%)\n", dash.TasksCompleted, dash.TasksTotal, percent(dash.TasksCompleted, dash.TasksTotal))

	if len(dash.Active) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, headerStyle.Render("Active Changes:"))
		for _, change := range dash.Active {
			fmt.Fprintf(out, "  ◉ %s %s\n", change.Name, progressBar(change.Progress))
		}
	}
	if len(dash.Completed) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, headerStyle.Render("Completed Changes:"))
		for _, change := range dash.Completed {
			fmt.Fprintf(out, "  %s %s\n", check(true), change.Name)
		}
	}
	if len(dash.Specs) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, headerStyle.Render("Specifications:"))
		for _, spec := range dash.Specs {
			fmt.Fprintf(out, "  ▪ %s %s\n", spec.Name, mutedStyle.Render(fmt.Sprintf("%d requirement(s)", spec.Requirements)))
		}
	}
}

func progressBar(progress project.Progress) string {
	if progress.Total == 0 {
		return mutedStyle.Render(progress.String())
	}
	filled := progress.Completed * progressBarWidth / progress.Total
	bar := successStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", progressBarWidth-filled))
	return fmt.Sprintf("[%s] %d%%", bar, percent(progress.Completed, progress.Total))
}

func percent(done, total int) int {
	if total == 0 {
		return 0
	}
	return done * 100 / total
}
