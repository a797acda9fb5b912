package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openspec-dev/openspec/internal/project"
)

func (a *App) RunArchive(cmd *cobra.Command, args []string) error {
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
	yes, err := OptionalBoolFlag(cmd, "yes", false)
	if err != nil {
		return err
	}
	skipSpecs, err := OptionalBoolFlag(cmd, "skip-specs", cfg.Archive.SkipSpecs)
	if err != nil {
		return err
	}
	if !flagChanged(cmd, "skip-specs") && cfg.Archive.SkipSpecs {
		skipSpecs = true
	}
	strict, err := OptionalBoolFlag(cmd, "strict", false)
	if err != nil {
		return err
	}

	names, err := archiveSelection(p, args, all)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No active changes found.")
		return nil
	}

	if !yes {
		if err := a.confirm(cmd, fmt.Sprintf("Archive %s?", quoteNames(names))); err != nil {
			return err
		}
	}

	opts := project.ArchiveOptions{
		SkipSpecs:         skipSpecs,
		AbortOnDeltaError: strict,
		StrictModified:    strict,
		Now:               a.now,
		Logger:            a.Logger,
	}
	for _, name := range names {
		result, err := p.Archive(name, opts)
		if err != nil {
			return err
		}
		printArchiveResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, skipSpecs)
	}
	return nil
}

// archiveSelection returns the changes to archive. Without a name or --all
// the only active change is picked; several active changes need a name.
func archiveSelection(p *project.Project, args []string, all bool) ([]string, error) {
	if all && len(args) > 0 {
		return nil, fmt.Errorf("pass either a change name or --all, not both")
	}
	if len(args) == 1 {
		name := strings.TrimSpace(args[0])
		if !p.HasChange(name) {
			return nil, fmt.Errorf("change '%s' %w", name, project.ErrChangeNotFound)
		}
		return []string{name}, nil
	}

	names, err := p.ChangeNames()
	if err != nil {
		return nil, err
	}
	if all || len(names) <= 1 {
		return names, nil
	}
	return nil, fmt.Errorf("specify the change to archive (active: %s)", strings.Join(names, ", "))
}

// confirm asks a yes/no question on a.In. Non-interactive sessions must pass
// --yes instead.
func (a *App) confirm(cmd *cobra.Command, question string) error {
	if a.Interactive == nil || !a.Interactive() {
		return fmt.Errorf("%w: confirmation required, re-run with --yes", ErrAborted)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, err := bufio.NewReader(a.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return ErrAborted
	}
}

func quoteNames(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "'" + name + "'"
	}
	if len(quoted) == 1 {
		return "change " + quoted[0]
	}
	return fmt.Sprintf("%d changes (%s)", len(quoted), strings.Join(quoted, ", "))
}

func printArchiveResult(out, errOut io.Writer, result *project.ArchiveResult, skipSpecs bool) {
	for _, warning := range result.Warnings {
		printWarning(errOut, warning)
	}
	if skipSpecs {
		fmt.Fprintln(out, mutedStyle.Render("Skipping spec updates (--skip-specs)"))
	}
	for _, update := range result.Updated {
		verb := "updated"
		if update.Created {
			verb = "created"
		}
		fmt.Fprintf(out, "  %s %s: +%d ~%d -%d\n", verb, update.Path, update.Added, update.Modified, update.Removed)
	}
	fmt.Fprintf(out, "%s Archived '%s' as %s\n", check(true), result.Change, result.ArchivePath)
}
