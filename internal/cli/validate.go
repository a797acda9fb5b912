package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/openspec-dev/openspec/internal/fileutil"
	"github.com/openspec-dev/openspec/internal/project"
	"github.com/openspec-dev/openspec/internal/validation"
)

const validateUsageHint = `Nothing to validate. Try one of:
  openspec validate --all
  openspec validate --changes
  openspec validate --specs
  openspec validate <item-name>`

func (a *App) RunValidate(cmd *cobra.Command, args []string) error {
	p, err := a.openProject()
	if err != nil {
		return err
	}
	cfg, err := a.loadConfig(p)
	if err != nil {
		return err
	}

	all, err := OptionalBoolFlag(cmd, "all", false)
	if err != nil {
		return err
	}
	changes, err := OptionalBoolFlag(cmd, "changes", false)
	if err != nil {
		return err
	}
	specs, err := OptionalBoolFlag(cmd, "specs", false)
	if err != nil {
		return err
	}
	kind, err := ParseKindFlag(cmd)
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	enriched, err := OptionalBoolFlag(cmd, "enriched", false)
	if err != nil {
		return err
	}
	concurrency, err := OptionalIntFlag(cmd, "concurrency", 0)
	if err != nil {
		return err
	}
	if concurrency <= 0 {
		concurrency = cfg.Validation.Concurrency
	}

	items, err := a.selectItems(p, args, kind, all || changes, all || specs)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), validateUsageHint)
		return fmt.Errorf("%w: pass an item name, --all, --changes or --specs", ErrNothingSelected)
	}

	targets := make([]validation.Target, 0, len(items))
	for _, item := range items {
		target, err := p.Target(item)
		if err != nil {
			return err
		}
		targets = append(targets, target)
	}

	progress := newProgressReporter("validate", len(targets), asJSON)
	results, err := validation.Run(commandContext(cmd), targets, validation.RunOptions{
		Concurrency: concurrency,
		Logger:      a.Logger,
		OnItem:      progress.Update,
	})
	if err != nil {
		return err
	}
	progress.Done()

	report := validation.NewReport(results)
	a.Logger.Info("validation finished", "total", report.Summary.Totals.Total, "invalid", report.Summary.Totals.Invalid)
	out := cmd.OutOrStdout()
	if asJSON {
		if err := fileutil.WriteJSON(out, report); err != nil {
			return err
		}
	} else {
		renderReport(out, report, enriched)
	}

	if report.Failed() {
		return ErrValidationFailed
	}
	return nil
}

// selectItems resolves positional names and globs, then appends every change
// and spec requested by the bulk flags. Duplicates keep their first position.
func (a *App) selectItems(p *project.Project, args []string, kind validation.Kind, changes, specs bool) ([]project.Item, error) {
	var items []project.Item
	seen := make(map[project.Item]bool)
	add := func(item project.Item) {
		if !seen[item] {
			seen[item] = true
			items = append(items, item)
		}
	}

	for _, arg := range args {
		if !isGlob(arg) {
			item, err := p.ResolveItem(arg, kind)
			if err != nil {
				return nil, err
			}
			add(item)
			continue
		}
		candidates, err := p.AllItems(kind != validation.KindSpec, kind != validation.KindChange)
		if err != nil {
			return nil, err
		}
		matched := 0
		for _, candidate := range candidates {
			ok, err := doublestar.Match(arg, candidate.Name)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
			}
			if ok {
				matched++
				add(candidate)
			}
		}
		if matched == 0 {
			return nil, fmt.Errorf("item '%s' %w", arg, project.ErrItemNotFound)
		}
	}

	if changes || specs {
		bulk, err := p.AllItems(changes, specs)
		if err != nil {
			return nil, err
		}
		for _, item := range bulk {
			add(item)
		}
	}
	return items, nil
}

func isGlob(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}

func renderReport(out io.Writer, report validation.Report, enriched bool) {
	if len(report.Items) == 0 {
		return
	}

	headers := []string{"ITEM", "TYPE", "STATUS", "ISSUES"}
	if enriched {
		headers = append(headers, "ERRORS")
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
	for _, item := range report.Items {
		status := successStyle.Render("valid")
		if !item.Valid {
			status = errorStyle.Render("invalid")
		}
		row := []string{item.Path, string(item.Type), status, fmt.Sprintf("%d", len(item.Errors))}
		if enriched {
			row = append(row, strings.Join(item.Errors, "\n"))
		}
		t.Row(row...)
	}
	fmt.Fprintln(out, t.String())

	if !enriched {
		for _, item := range report.Items {
			if item.Valid {
				continue
			}
			fmt.Fprintf(out, "%s %s\n", check(false), item.Path)
			for _, msg := range item.Errors {
				fmt.Fprintf(out, "    - %s\n", msg)
			}
		}
	}

	totals := report.Summary.Totals
	line := fmt.Sprintf("Totals: %d item(s), %d valid, %d invalid", totals.Total, totals.Valid, totals.Invalid)
	if totals.Invalid > 0 {
		fmt.Fprintln(out, errorStyle.Render(line))
	} else {
		fmt.Fprintln(out, successStyle.Render(line))
	}
}
