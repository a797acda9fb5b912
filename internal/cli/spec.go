package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/openspec-dev/openspec/internal/fileutil"
	"github.com/openspec-dev/openspec/internal/project"
)

func (a *App) RunSpecCreate(cmd *cobra.Command, args []string) error {
	p, err := a.openProject()
	if err != nil {
		return err
	}
	slug, err := p.CreateSpec(args[0])
	if err != nil {
		return err
	}
	a.Logger.Info("spec created", "spec", slug)
	fmt.Fprintf(cmd.OutOrStdout(), "%s Created spec '%s' at %s\n", check(true), slug, p.Rel(p.SpecFile(slug)))
	return nil
}

func (a *App) RunSpecList(cmd *cobra.Command, args []string) error {
	p, err := a.openProject()
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	specs, err := p.ListSpecs()
	if err != nil {
		return err
	}
	if asJSON {
		return fileutil.WriteJSON(cmd.OutOrStdout(), specs)
	}
	printSpecs(cmd.OutOrStdout(), specs)
	return nil
}

func (a *App) RunSpecShow(cmd *cobra.Command, args []string) error {
	p, err := a.openProject()
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	return a.showSpec(cmd.OutOrStdout(), p, args[0], asJSON)
}

func (a *App) showSpec(out io.Writer, p *project.Project, name string, asJSON bool) error {
	spec, err := p.LoadSpec(name)
	if err != nil {
		return err
	}
	if asJSON {
		return fileutil.WriteJSON(out, spec)
	}

	fmt.Fprintln(out, headerStyle.Render(spec.Title))
	if spec.Purpose != "" {
		fmt.Fprintf(out, "\n%s\n", spec.Purpose)
	}
	fmt.Fprintf(out, "\n%s (%d)\n", headerStyle.Render("Requirements"), len(spec.Requirements))
	for _, req := range spec.Requirements {
		fmt.Fprintf(out, "- %s", req.Title)
		if n := len(req.Scenarios); n > 0 {
			fmt.Fprintf(out, " %s", mutedStyle.Render(fmt.Sprintf("[%d scenario(s)]", n)))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func printSpecs(out io.Writer, specs []project.SpecInfo) {
	if len(specs) == 0 {
		fmt.Fprintln(out, "No specs found.")
		return
	}
	width := 0
	for _, spec := range specs {
		width = max(width, len(spec.Name))
	}
	fmt.Fprintln(out, headerStyle.Render("Specs:"))
	for _, spec := range specs {
		fmt.Fprintf(out, "  %-*s  requirements %d\n", width, spec.Name, spec.Requirements)
	}
}
