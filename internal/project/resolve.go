package project

import (
	"fmt"

	"github.com/openspec-dev/openspec/internal/validation"
)

// Item is a resolved change or spec name.
type Item struct {
	Name string
	Kind validation.Kind
}

// ResolveItem decides whether name is a change or a spec. An empty kind
// accepts either, but a name matching both is ambiguous.
func (p *Project) ResolveItem(name string, kind validation.Kind) (Item, error) {
	switch kind {
	case validation.KindChange:
		if !p.HasChange(name) {
			return Item{}, fmt.Errorf("change '%s' %w", name, ErrChangeNotFound)
		}
		return Item{Name: name, Kind: kind}, nil
	case validation.KindSpec:
		if !p.HasSpec(name) {
			return Item{}, fmt.Errorf("spec '%s' %w", name, ErrSpecNotFound)
		}
		return Item{Name: name, Kind: kind}, nil
	case "":
	default:
		return Item{}, fmt.Errorf("unknown item type %q (expected change or spec)", kind)
	}

	isChange, isSpec := p.HasChange(name), p.HasSpec(name)
	switch {
	case isChange && isSpec:
		return Item{}, fmt.Errorf("'%s' %w: it names both a change and a spec", name, ErrAmbiguousItem)
	case isChange:
		return Item{Name: name, Kind: validation.KindChange}, nil
	case isSpec:
		return Item{Name: name, Kind: validation.KindSpec}, nil
	default:
		return Item{}, fmt.Errorf("item '%s' %w", name, ErrItemNotFound)
	}
}

// Target builds the validation target of a resolved item. Change targets
// carry the change's delta documents.
func (p *Project) Target(item Item) (validation.Target, error) {
	switch item.Kind {
	case validation.KindChange:
		path := p.ProposalFile(item.Name)
		files, err := p.DeltaFiles(item.Name)
		if err != nil {
			return validation.Target{}, err
		}
		deltas := make(map[string]string, len(files))
		for _, file := range files {
			deltas[p.Rel(file.Path)] = file.Path
		}
		return validation.Target{
			Name:    item.Name,
			Kind:    validation.KindChange,
			Path:    path,
			Display: p.Rel(path),
			Deltas:  deltas,
		}, nil
	case validation.KindSpec:
		path := p.SpecFile(item.Name)
		return validation.Target{
			Name:    item.Name,
			Kind:    validation.KindSpec,
			Path:    path,
			Display: p.Rel(path),
		}, nil
	default:
		return validation.Target{}, fmt.Errorf("unknown item type %q", item.Kind)
	}
}

// AllItems lists every active change followed by every spec.
func (p *Project) AllItems(changes, specs bool) ([]Item, error) {
	var items []Item
	if changes {
		names, err := p.ChangeNames()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			items = append(items, Item{Name: name, Kind: validation.KindChange})
		}
	}
	if specs {
		names, err := p.SpecNames()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			items = append(items, Item{Name: name, Kind: validation.KindSpec})
		}
	}
	return items, nil
}
