package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/openspec-dev/openspec/internal/fileutil"
	"github.com/openspec-dev/openspec/internal/markdown"
	"github.com/openspec-dev/openspec/internal/templates"
)

// Change is an active change with its task progress.
type Change struct {
	Name     string   `json:"name"`
	Progress Progress `json:"progress"`
	Deltas   []string `json:"deltas"`
}

// ArchivedChange is a directory under changes/archive/.
type ArchivedChange struct {
	Dir  string    `json:"dir"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// DeltaFile is one specs/<spec>/spec.md document inside a change.
type DeltaFile struct {
	Spec string
	Path string
}

// ChangeDetail is the parsed content of a change.
type ChangeDetail struct {
	Name        string             `json:"name"`
	Title       string             `json:"title"`
	Why         string             `json:"why"`
	WhatChanges string             `json:"whatChanges"`
	Progress    Progress           `json:"progress"`
	Tasks       []Task             `json:"tasks"`
	Deltas      []ChangeDeltaEntry `json:"deltas"`
}

type ChangeDeltaEntry struct {
	Spec  string         `json:"spec"`
	Delta markdown.Delta `json:"delta"`
}

// CreateChange scaffolds changes/<slug>/ with a proposal, a task list and an
// empty specs/ directory. An empty name falls back to DefaultChangeName.
func (p *Project) CreateChange(name string, now time.Time) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultChangeName(now)
	}
	slug, err := requireSlug("change", name)
	if err != nil {
		return "", err
	}
	if slug == ArchiveDirName {
		return "", fmt.Errorf("change name %q is reserved: %w", slug, ErrInvalidName)
	}

	dir := p.ChangeDir(slug)
	if _, err := os.Stat(dir); err == nil {
		return "", fmt.Errorf("change '%s' %w", slug, ErrAlreadyExists)
	}
	if err := os.MkdirAll(p.ChangeSpecsDir(slug), 0755); err != nil {
		return "", fmt.Errorf("failed to create change '%s': %w", slug, err)
	}

	files := map[string]string{
		p.ProposalFile(slug): templates.Proposal(slug),
		p.TasksFile(slug):    templates.Tasks(slug),
	}
	for path, content := range files {
		if _, err := fileutil.WriteIfMissing(path, []byte(content)); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", p.Rel(path), err)
		}
	}
	return slug, nil
}

func (p *Project) HasChange(name string) bool {
	if !isEntryName(name) || name == ArchiveDirName {
		return false
	}
	return fileutil.IsDir(p.ChangeDir(name))
}

// ChangeNames lists active change directories that carry a proposal.
func (p *Project) ChangeNames() ([]string, error) {
	return listDirs(p.ChangesDir(), ProposalFileName, ArchiveDirName)
}

func (p *Project) ListChanges() ([]Change, error) {
	names, err := p.ChangeNames()
	if err != nil {
		return nil, err
	}
	changes := make([]Change, 0, len(names))
	for _, name := range names {
		progress, err := p.TaskProgress(name)
		if err != nil {
			return nil, err
		}
		files, err := p.DeltaFiles(name)
		if err != nil {
			return nil, err
		}
		deltas := make([]string, 0, len(files))
		for _, file := range files {
			deltas = append(deltas, file.Spec)
		}
		changes = append(changes, Change{Name: name, Progress: progress, Deltas: deltas})
	}
	return changes, nil
}

// ListArchivedChanges returns archived changes newest first. Directories
// without a date prefix are skipped.
func (p *Project) ListArchivedChanges() ([]ArchivedChange, error) {
	dirs, err := listDirs(p.ArchiveDir(), "")
	if err != nil {
		return nil, err
	}
	archived := make([]ArchivedChange, 0, len(dirs))
	for _, dir := range dirs {
		date, name, ok := ParseArchiveName(dir)
		if !ok {
			continue
		}
		archived = append(archived, ArchivedChange{Dir: dir, Name: name, Date: date})
	}
	sort.SliceStable(archived, func(i, j int) bool {
		if !archived[i].Date.Equal(archived[j].Date) {
			return archived[i].Date.After(archived[j].Date)
		}
		return archived[i].Name < archived[j].Name
	})
	return archived, nil
}

// DeltaFiles returns the change's delta documents sorted by spec name.
func (p *Project) DeltaFiles(change string) ([]DeltaFile, error) {
	dir := p.ChangeSpecsDir(change)
	matches, err := doublestar.Glob(os.DirFS(dir), "*/"+SpecFileName, doublestar.WithFilesOnly())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list deltas of change '%s': %w", change, err)
	}
	files := make([]DeltaFile, 0, len(matches))
	for _, match := range matches {
		spec := strings.TrimSuffix(match, "/"+SpecFileName)
		if strings.HasPrefix(spec, ".") {
			continue
		}
		files = append(files, DeltaFile{Spec: spec, Path: filepath.Join(dir, filepath.FromSlash(match))})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Spec < files[j].Spec })
	return files, nil
}

// LoadChange parses a change's proposal, tasks and delta documents.
func (p *Project) LoadChange(name string) (ChangeDetail, error) {
	if !p.HasChange(name) {
		return ChangeDetail{}, fmt.Errorf("change '%s' %w", name, ErrChangeNotFound)
	}
	data, err := os.ReadFile(p.ProposalFile(name))
	if err != nil && !os.IsNotExist(err) {
		return ChangeDetail{}, fmt.Errorf("failed to read proposal of change '%s': %w", name, err)
	}
	text := string(data)
	sections := markdown.ParseSpecSections(text)

	tasks, err := p.Tasks(name)
	if err != nil {
		return ChangeDetail{}, err
	}
	if tasks == nil {
		tasks = []Task{}
	}

	files, err := p.DeltaFiles(name)
	if err != nil {
		return ChangeDetail{}, err
	}
	deltas := make([]ChangeDeltaEntry, 0, len(files))
	for _, file := range files {
		deltaData, err := os.ReadFile(file.Path)
		if err != nil {
			return ChangeDetail{}, fmt.Errorf("failed to read delta %s: %w", p.Rel(file.Path), err)
		}
		deltas = append(deltas, ChangeDeltaEntry{Spec: file.Spec, Delta: markdown.ParseDelta(string(deltaData))})
	}

	return ChangeDetail{
		Name:        name,
		Title:       markdown.ParseTitle(text),
		Why:         sections.Body("why"),
		WhatChanges: sections.Body("what changes"),
		Progress:    ProgressOf(tasks),
		Tasks:       tasks,
		Deltas:      deltas,
	}, nil
}
