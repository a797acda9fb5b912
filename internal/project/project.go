// Package project owns the openspec/ directory tree: changes, specs and the
// dated change archive. The tree itself is the only state.
package project

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DirName        = "openspec"
	ChangesDirName = "changes"
	SpecsDirName   = "specs"
	ArchiveDirName = "archive"

	ProposalFileName = "proposal.md"
	TasksFileName    = "tasks.md"
	SpecFileName     = "spec.md"
	ProjectFileName  = "project.md"
	AgentsFileName   = "AGENTS.md"
	ConfigFileName   = "config.yaml"
)

type Project struct {
	Root string
}

func New(root string) *Project {
	return &Project{Root: filepath.Clean(root)}
}

// FindRoot walks up from start to the first directory containing openspec/.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}
	for {
		info, err := os.Stat(filepath.Join(dir, DirName))
		if err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialized
		}
		dir = parent
	}
}

// Open returns the project enclosing start.
func Open(start string) (*Project, error) {
	root, err := FindRoot(start)
	if err != nil {
		return nil, err
	}
	return New(root), nil
}

func (p *Project) Dir() string         { return filepath.Join(p.Root, DirName) }
func (p *Project) ChangesDir() string  { return filepath.Join(p.Dir(), ChangesDirName) }
func (p *Project) ArchiveDir() string  { return filepath.Join(p.ChangesDir(), ArchiveDirName) }
func (p *Project) SpecsDir() string    { return filepath.Join(p.Dir(), SpecsDirName) }
func (p *Project) ProjectFile() string { return filepath.Join(p.Dir(), ProjectFileName) }
func (p *Project) AgentsFile() string  { return filepath.Join(p.Dir(), AgentsFileName) }
func (p *Project) ConfigFile() string  { return filepath.Join(p.Dir(), ConfigFileName) }

func (p *Project) ChangeDir(name string) string {
	return filepath.Join(p.ChangesDir(), name)
}

func (p *Project) ProposalFile(name string) string {
	return filepath.Join(p.ChangeDir(name), ProposalFileName)
}

func (p *Project) TasksFile(name string) string {
	return filepath.Join(p.ChangeDir(name), TasksFileName)
}

// ChangeSpecsDir holds a change's per-spec delta documents.
func (p *Project) ChangeSpecsDir(name string) string {
	return filepath.Join(p.ChangeDir(name), SpecsDirName)
}

func (p *Project) SpecDir(name string) string {
	return filepath.Join(p.SpecsDir(), name)
}

func (p *Project) SpecFile(name string) string {
	return filepath.Join(p.SpecDir(name), SpecFileName)
}

func (p *Project) Initialized() bool {
	info, err := os.Stat(p.Dir())
	return err == nil && info.IsDir()
}

// EnsureDirectories creates openspec/, specs/, changes/ and changes/archive/.
func (p *Project) EnsureDirectories() error {
	for _, dir := range []string{p.SpecsDir(), p.ArchiveDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", p.Rel(dir), err)
		}
	}
	return nil
}

// Rel returns path relative to the project root with forward slashes.
func (p *Project) Rel(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// listDirs returns the sorted names of visible subdirectories of dir that
// contain file. A missing dir yields nothing.
func listDirs(dir, file string, skip ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || name[0] == '.' || contains(skip, name) {
			continue
		}
		if file != "" {
			if _, err := os.Stat(filepath.Join(dir, name, file)); err != nil {
				continue
			}
		}
		names = append(names, name)
	}
	return names, nil
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
