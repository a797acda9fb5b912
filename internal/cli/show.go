package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openspec-dev/openspec/internal/fileutil"
	"github.com/openspec-dev/openspec/internal/outline"
	"github.com/openspec-dev/openspec/internal/validation"
)

func (a *App) RunShow(cmd *cobra.Command, args []string) error {
	p, err := a.openProject()
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
	showOutline, err := OptionalBoolFlag(cmd, "outline", false)
	if err != nil {
		return err
	}

	item, err := p.ResolveItem(args[0], kind)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if showOutline {
		path := p.SpecFile(item.Name)
		if item.Kind == validation.KindChange {
			path = p.ProposalFile(item.Name)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p.Rel(path), err)
		}
		doc, err := outline.NewParser().Parse(commandContext(cmd), data)
		if err != nil {
			return err
		}
		if asJSON {
			return fileutil.WriteJSON(out, doc)
		}
		fmt.Fprintln(out, headerStyle.Render(p.Rel(path)))
		fmt.Fprint(out, doc.Render())
		return nil
	}

	if item.Kind == validation.KindChange {
		return a.showChange(out, p, item.Name, asJSON)
	}
	return a.showSpec(out, p, item.Name, asJSON)
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
