package project

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/openspec-dev/openspec/internal/fileutil"
	"github.com/openspec-dev/openspec/internal/markdown"
	"github.com/openspec-dev/openspec/internal/merge"
)

type ArchiveOptions struct {
	// SkipSpecs moves the change without touching any spec.
	SkipSpecs bool
	// AbortOnDeltaError fails the whole archive, before any write, when a
	// delta cannot be read, parsed or merged.
	AbortOnDeltaError bool
	// StrictModified rejects MODIFIED requirements missing from the base.
	StrictModified bool

	Now    func() time.Time
	Logger *slog.Logger
}

// SpecUpdate describes one spec rewritten by an archive.
type SpecUpdate struct {
	Spec            string   `json:"spec"`
	Path            string   `json:"path"`
	Created         bool     `json:"created"`
	Added           int      `json:"added"`
	Modified        int      `json:"modified"`
	Removed         int      `json:"removed"`
	ModifiedAsAdded []string `json:"modifiedAsAdded,omitempty"`
	RemovedMissing  []string `json:"removedMissing,omitempty"`
}

type ArchiveResult struct {
	Change          string       `json:"change"`
	ArchiveName     string       `json:"archiveName"`
	ArchivePath     string       `json:"archivePath"`
	IncompleteTasks int          `json:"incompleteTasks"`
	Updated         []SpecUpdate `json:"updated"`
	Warnings        []string     `json:"warnings"`
}

type stagedSpec struct {
	path    string
	content string
	update  SpecUpdate
}

// Archive merges the change's deltas into the specs and moves the change to
// changes/archive/<date>-<name>/. Merged specs are staged in memory and only
// written once every delta has been processed; each spec is replaced
// atomically. A delta that fails is skipped with a warning unless
// AbortOnDeltaError is set.
func (p *Project) Archive(name string, opts ArchiveOptions) (*ArchiveResult, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if !p.HasChange(name) {
		return nil, fmt.Errorf("change '%s' %w", name, ErrChangeNotFound)
	}
	archiveName := ArchiveName(now(), name)
	archivePath := filepath.Join(p.ArchiveDir(), archiveName)
	if _, err := os.Stat(archivePath); err == nil {
		return nil, fmt.Errorf("archive '%s' %w", archiveName, ErrArchiveExists)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to inspect archive '%s': %w", archiveName, err)
	}

	result := &ArchiveResult{
		Change:      name,
		ArchiveName: archiveName,
		ArchivePath: p.Rel(archivePath),
		Updated:     []SpecUpdate{},
		Warnings:    []string{},
	}

	progress, err := p.TaskProgress(name)
	if err != nil {
		return nil, err
	}
	if incomplete := progress.Incomplete(); incomplete > 0 {
		result.IncompleteTasks = incomplete
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d incomplete task(s) found", incomplete))
	}

	var staged []stagedSpec
	if !opts.SkipSpecs {
		files, err := p.DeltaFiles(name)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			spec, err := p.stageDelta(name, file, opts)
			if err != nil {
				if opts.AbortOnDeltaError {
					return nil, fmt.Errorf("failed to apply delta for spec '%s': %w", file.Spec, err)
				}
				logger.Warn("skipping spec delta", "change", name, "spec", file.Spec, "error", err)
				result.Warnings = append(result.Warnings, fmt.Sprintf("skipped delta for spec '%s': %v", file.Spec, err))
				continue
			}
			for _, title := range spec.update.ModifiedAsAdded {
				result.Warnings = append(result.Warnings, fmt.Sprintf("MODIFIED requirement '%s' not found in spec '%s'; added as new", title, file.Spec))
			}
			for _, title := range spec.update.RemovedMissing {
				result.Warnings = append(result.Warnings, fmt.Sprintf("REMOVED requirement '%s' not found in spec '%s'", title, file.Spec))
			}
			staged = append(staged, spec)
		}
	}

	if err := os.MkdirAll(p.ArchiveDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	for _, spec := range staged {
		if err := fileutil.AtomicWriteFile(spec.path, []byte(spec.content)); err != nil {
			return nil, fmt.Errorf("failed to write spec '%s': %w", spec.update.Spec, err)
		}
		logger.Debug("spec updated", "spec", spec.update.Spec, "added", spec.update.Added, "modified", spec.update.Modified, "removed", spec.update.Removed)
		result.Updated = append(result.Updated, spec.update)
	}

	if err := os.Rename(p.ChangeDir(name), archivePath); err != nil {
		return nil, fmt.Errorf("failed to move change '%s' to archive: %w", name, err)
	}
	logger.Info("change archived", "change", name, "archive", result.ArchivePath, "specs", len(result.Updated))
	return result, nil
}

func (p *Project) stageDelta(change string, file DeltaFile, opts ArchiveOptions) (stagedSpec, error) {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return stagedSpec{}, err
	}
	delta := markdown.ParseDelta(string(data))
	if delta.Empty() {
		return stagedSpec{}, fmt.Errorf("no delta operations found in %s", p.Rel(file.Path))
	}

	target := p.SpecFile(file.Spec)
	base := merge.Skeleton(file.Spec, change)
	created := true
	if existing, err := os.ReadFile(target); err == nil {
		base = markdown.ParseSpec(string(existing))
		created = false
	} else if !os.IsNotExist(err) {
		return stagedSpec{}, err
	}

	merged, err := merge.Apply(base, delta, merge.Options{StrictModified: opts.StrictModified})
	if err != nil {
		return stagedSpec{}, err
	}

	return stagedSpec{
		path:    target,
		content: merge.Render(merged.Spec),
		update: SpecUpdate{
			Spec:            file.Spec,
			Path:            p.Rel(target),
			Created:         created,
			Added:           merged.Added,
			Modified:        merged.Modified,
			Removed:         merged.Removed,
			ModifiedAsAdded: merged.ModifiedAsAdded,
			RemovedMissing:  merged.RemovedMissing,
		},
	}, nil
}
