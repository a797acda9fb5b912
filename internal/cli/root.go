package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openspec-dev/openspec/internal/logging"
)

func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "openspec",
		Short: "Spec-driven development for AI coding assistants",
		Long: `OpenSpec keeps change proposals and capability specs as structured
markdown under openspec/. Create changes, validate them, and archive them
to fold their requirement deltas into the specs.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := cmd.Flags().GetString("log-level")
			if err != nil {
				return err
			}
			logger, err := logging.New(cmd.ErrOrStderr(), level)
			if err != nil {
				return err
			}
			app.Logger = logger
			return nil
		},
	}
	rootCmd.PersistentFlags().String("log-level", logging.DefaultLevel, "Log level: "+strings.Join(logging.Levels, "|"))

	// Setup Commands
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create the openspec/ directory and configure AI tools",
		Args:  cobra.MaximumNArgs(1),
		RunE:  app.RunInit,
	}
	initCmd.Flags().String("tools", "", "AI tools to configure (comma-separated ids, all or none)")
	initCmd.Flags().Bool("force", false, "Re-run setup when openspec/ already exists")

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Refresh OpenSpec instruction files and configured tool files",
		Args:  cobra.NoArgs,
		RunE:  app.RunUpdate,
	}

	// Change Commands
	changeCmd := &cobra.Command{
		Use:   "change",
		Short: "Create, list and show change proposals",
	}
	changeCreateCmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Scaffold a new change",
		Args:  cobra.MaximumNArgs(1),
		RunE:  app.RunChangeCreate,
	}
	changeListCmd := &cobra.Command{
		Use:   "list",
		Short: "List active changes",
		Args:  cobra.NoArgs,
		RunE:  app.RunChangeList,
	}
	changeListCmd.Flags().Bool("json", false, "Print machine-readable output")
	changeShowCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a change",
		Args:  cobra.ExactArgs(1),
		RunE:  app.RunChangeShow,
	}
	changeShowCmd.Flags().Bool("json", false, "Print machine-readable output")
	changeCmd.AddCommand(changeCreateCmd, changeListCmd, changeShowCmd)

	// Spec Commands
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Create, list and show specs",
	}
	specCreateCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Scaffold a new spec",
		Args:  cobra.ExactArgs(1),
		RunE:  app.RunSpecCreate,
	}
	specListCmd := &cobra.Command{
		Use:   "list",
		Short: "List specs",
		Args:  cobra.NoArgs,
		RunE:  app.RunSpecList,
	}
	specListCmd.Flags().Bool("json", false, "Print machine-readable output")
	specShowCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a spec",
		Args:  cobra.ExactArgs(1),
		RunE:  app.RunSpecShow,
	}
	specShowCmd.Flags().Bool("json", false, "Print machine-readable output")
	specCmd.AddCommand(specCreateCmd, specListCmd, specShowCmd)

	// Inspect Commands
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List changes or specs",
		Args:  cobra.NoArgs,
		RunE:  app.RunList,
	}
	listCmd.Flags().Bool("specs", false, "List specs instead of changes")
	listCmd.Flags().Bool("changes", false, "List changes (default)")
	listCmd.Flags().Bool("archived", false, "List archived changes, newest first")
	listCmd.Flags().Bool("json", false, "Print machine-readable output")

	showCmd := &cobra.Command{
		Use:   "show <item>",
		Short: "Show a change or spec",
		Args:  cobra.ExactArgs(1),
		RunE:  app.RunShow,
	}
	showCmd.Flags().String("type", "", "Item type when the name is ambiguous: change|spec")
	showCmd.Flags().Bool("json", false, "Print machine-readable output")
	showCmd.Flags().Bool("outline", false, "Print the heading outline of the document")

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Show a dashboard of specs and changes",
		Args:  cobra.NoArgs,
		RunE:  app.RunView,
	}
	viewCmd.Flags().String("format", "table", "Output format: table|list")

	validateCmd := &cobra.Command{
		Use:   "validate [items...]",
		Short: "Validate changes and specs",
		RunE:  app.RunValidate,
	}
	validateCmd.Flags().Bool("all", false, "Validate every change and spec")
	validateCmd.Flags().Bool("changes", false, "Validate every change")
	validateCmd.Flags().Bool("specs", false, "Validate every spec")
	validateCmd.Flags().String("type", "", "Item type when a name is ambiguous: change|spec")
	validateCmd.Flags().Bool("json", false, "Print the machine-readable report")
	validateCmd.Flags().Int("concurrency", 0, "Files validated in parallel (default from config)")
	validateCmd.Flags().Bool("enriched", false, "Include passing items and per-item detail in the table")

	archiveCmd := &cobra.Command{
		Use:   "archive [name]",
		Short: "Archive a completed change and merge its deltas into the specs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  app.RunArchive,
	}
	archiveCmd.Flags().Bool("all", false, "Archive every active change")
	archiveCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	archiveCmd.Flags().Bool("skip-specs", false, "Move the change without updating specs")
	archiveCmd.Flags().Bool("strict", false, "Abort on any delta failure and reject unmatched MODIFIED requirements")

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the openspec layout and tool integrations",
		Args:  cobra.NoArgs,
		RunE:  app.RunDoctor,
	}
	doctorCmd.Flags().Bool("json", false, "Print machine-readable doctor output")

	// Additional Commands
	installHookCmd := &cobra.Command{
		Use:   "install-hook",
		Short: "Install a git pre-commit hook that validates openspec items",
		Args:  cobra.NoArgs,
		RunE:  app.RunInstallHook,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "openspec %s\n", app.Version)
		},
	}

	rootCmd.AddCommand(
		initCmd,
		updateCmd,
		changeCmd,
		specCmd,
		listCmd,
		showCmd,
		viewCmd,
		validateCmd,
		archiveCmd,
		doctorCmd,
		installHookCmd,
		versionCmd,
	)

	return rootCmd
}
