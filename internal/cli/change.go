package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openspec-dev/openspec/internal/fileutil"
	"github.com/openspec-dev/openspec/internal/markdown"
	"github.com/openspec-dev/openspec/internal/project"
)

func (a *App) RunChangeCreate(cmd *cobra.Command, args []string) error {
	p, err := a.openProject()
	if err != nil {
		return err
	}
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	slug, err := p.CreateChange(name, a.now())
	if err != nil {
		return err
	}
	a.Logger.Info("change created", "change", slug)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Created change '%s' at %s\n", check(true), slug, p.Rel(p.ChangeDir(slug)))
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("next: edit proposal.md and tasks.md, then run openspec validate %s", slug)))
	return nil
}

func (a *App) RunChangeList(cmd *cobra.Command, args []string) error {
	p, err := a.openProject()
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	changes, err := p.ListChanges()
	if err != nil {
		return err
	}
	if asJSON {
		return fileutil.WriteJSON(cmd.OutOrStdout(), changes)
	}
	printChanges(cmd.OutOrStdout(), changes)
	return nil
}

func (a *App) RunChangeShow(cmd *cobra.Command, args []string) error {
	p, err := a.openProject()
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	return a.showChange(cmd.OutOrStdout(), p, args[0], asJSON)
}

func (a *App) showChange(out io.Writer, p *project.Project, name string, asJSON bool) error {
	detail, err := p.LoadChange(name)
	if err != nil {
		return err
	}
	if asJSON {
		return fileutil.WriteJSON(out, detail)
	}

	title := detail.Title
	if title == "" {
		title = detail.Name
	}
	fmt.Fprintln(out, headerStyle.Render(title))
	fmt.Fprintf(out, "change: %s  tasks: %s\n", detail.Name, detail.Progress)
	if detail.Why != "" {
		fmt.Fprintf(out, "\n%s\n%s\n", headerStyle.Render("Why"), detail.Why)
	}
	if detail.WhatChanges != "" {
		fmt.Fprintf(out, "\n%s\n%s\n", headerStyle.Render("What Changes"), detail.WhatChanges)
	}
	if len(detail.Deltas) > 0 {
		fmt.Fprintf(out, "\n%s\n", headerStyle.Render("Deltas"))
		for _, entry := range detail.Deltas {
			fmt.Fprintf(out, "- %s: %s\n", entry.Spec, describeDelta(entry.Delta))
		}
	}
	return nil
}

func describeDelta(delta markdown.Delta) string {
	parts := make([]string, 0, 3)
	for _, op := range []struct {
		label string
		reqs  []markdown.Requirement
	}{
		{"added", delta.Added},
		{"modified", delta.Modified},
		{"removed", delta.Removed},
	} {
		if len(op.reqs) == 0 {
			continue
		}
		titles := make([]string, 0, len(op.reqs))
		for _, req := range op.reqs {
			titles = append(titles, req.Title)
		}
		parts = append(parts, fmt.Sprintf("%s %d (%s)", op.label, len(op.reqs), strings.Join(titles, ", ")))
	}
	if len(parts) == 0 {
		return "no operations"
	}
	return strings.Join(parts, "; ")
}

func printChanges(out io.Writer, changes []project.Change) {
	if len(changes) == 0 {
		fmt.Fprintln(out, "No active changes found.")
		return
	}
	width := 0
	for _, change := range changes {
		width = max(width, len(change.Name))
	}
	fmt.Fprintln(out, headerStyle.Render("Changes:"))
	for _, change := range changes {
		fmt.Fprintf(out, "  %-*s  %s\n", width, change.Name, change.Progress)
	}
}
