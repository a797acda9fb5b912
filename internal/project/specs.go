package project

import (
	"fmt"
	"os"

	"github.com/openspec-dev/openspec/internal/fileutil"
	"github.com/openspec-dev/openspec/internal/markdown"
	"github.com/openspec-dev/openspec/internal/templates"
)

// SpecInfo summarizes one spec for listings.
type SpecInfo struct {
	Name         string `json:"name"`
	Title        string `json:"title"`
	Requirements int    `json:"requirements"`
}

// CreateSpec scaffolds specs/<slug>/spec.md.
func (p *Project) CreateSpec(name string) (string, error) {
	slug, err := requireSlug("spec", name)
	if err != nil {
		return "", err
	}
	path := p.SpecFile(slug)
	if fileutil.Exists(p.SpecDir(slug)) {
		return "", fmt.Errorf("spec '%s' %w", slug, ErrAlreadyExists)
	}
	if _, err := fileutil.WriteIfMissing(path, []byte(templates.Spec(slug))); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", p.Rel(path), err)
	}
	return slug, nil
}

func (p *Project) HasSpec(name string) bool {
	return isEntryName(name) && fileutil.Exists(p.SpecFile(name))
}

func (p *Project) SpecNames() ([]string, error) {
	return listDirs(p.SpecsDir(), SpecFileName)
}

func (p *Project) ListSpecs() ([]SpecInfo, error) {
	names, err := p.SpecNames()
	if err != nil {
		return nil, err
	}
	infos := make([]SpecInfo, 0, len(names))
	for _, name := range names {
		spec, err := p.LoadSpec(name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, SpecInfo{Name: name, Title: spec.Title, Requirements: len(spec.Requirements)})
	}
	return infos, nil
}

func (p *Project) LoadSpec(name string) (markdown.Spec, error) {
	data, err := p.ReadSpec(name)
	if err != nil {
		return markdown.Spec{}, err
	}
	return markdown.ParseSpec(data), nil
}

func (p *Project) ReadSpec(name string) (string, error) {
	data, err := os.ReadFile(p.SpecFile(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("spec '%s' %w", name, ErrSpecNotFound)
		}
		return "", fmt.Errorf("failed to read spec '%s': %w", name, err)
	}
	return string(data), nil
}
