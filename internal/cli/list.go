package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/openspec-dev/openspec/internal/fileutil"
	"github.com/openspec-dev/openspec/internal/project"
)

func (a *App) RunList(cmd *cobra.Command, args []string) error {
	p, err := a.openProject()
	if err != nil {
		return err
	}
	specs, err := OptionalBoolFlag(cmd, "specs", false)
	if err != nil {
		return err
	}
	archived, err := OptionalBoolFlag(cmd, "archived", false)
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch {
	case archived:
		entries, err := p.ListArchivedChanges()
		if err != nil {
			return err
		}
		if asJSON {
			return fileutil.WriteJSON(out, entries)
		}
		printArchived(out, entries)
	case specs:
		infos, err := p.ListSpecs()
		if err != nil {
			return err
		}
		if asJSON {
			return fileutil.WriteJSON(out, infos)
		}
		printSpecs(out, infos)
	default:
		changes, err := p.ListChanges()
		if err != nil {
			return err
		}
		if asJSON {
			return fileutil.WriteJSON(out, changes)
		}
		printChanges(out, changes)
	}
	return nil
}

func printArchived(out io.Writer, entries []project.ArchivedChange) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No archived changes found.")
		return
	}
	fmt.Fprintln(out, headerStyle.Render("Archived changes:"))
	for _, entry := range entries {
		fmt.Fprintf(out, "  %s  %s\n", entry.Date.Format("2006-01-02"), entry.Name)
	}
}
