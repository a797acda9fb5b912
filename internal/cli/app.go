package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/openspec-dev/openspec/internal/config"
	"github.com/openspec-dev/openspec/internal/logging"
	"github.com/openspec-dev/openspec/internal/project"
	"github.com/openspec-dev/openspec/internal/tools"
)

// App carries the dependencies shared by every command.
type App struct {
	Version string
	Tools   *tools.Registry
	Logger  *slog.Logger
	Now     func() time.Time
	// In feeds confirmation prompts.
	In io.Reader
	// Interactive reports whether prompts may be shown.
	Interactive func() bool
}

func NewApp(version string) *App {
	return &App{
		Version:     version,
		Tools:       tools.DefaultRegistry(),
		Logger:      logging.Discard(),
		Now:         time.Now,
		In:          os.Stdin,
		Interactive: stdinIsTerminal,
	}
}

// openProject finds the project enclosing the working directory.
func (a *App) openProject() (*project.Project, error) {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return nil, err
	}
	return project.Open(rootPath)
}

func (a *App) loadConfig(p *project.Project) (config.Config, error) {
	cfg, err := config.Load(p.ConfigFile())
	if err != nil {
		return config.Config{}, err
	}
	a.Logger.Debug("loaded config", "path", p.Rel(p.ConfigFile()), "tools", cfg.Tools, "concurrency", cfg.Validation.Concurrency)
	return cfg, nil
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func resolveWorkingDirectory() (string, error) {
	rootPath, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return rootPath, nil
}

func stdinIsTerminal() bool {
	stat, err := os.Stdin.Stat()
	return err == nil && (stat.Mode()&os.ModeCharDevice) != 0
}

func stderrIsTerminal() bool {
	stat, err := os.Stderr.Stat()
	return err == nil && (stat.Mode()&os.ModeCharDevice) != 0
}
