package validation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Kind is the type of an openspec item.
type Kind string

const (
	KindChange Kind = "change"
	KindSpec   Kind = "spec"
)

const DefaultConcurrency = 4

// Target is one file to validate. Change targets may carry delta documents,
// which are validated as part of the change.
type Target struct {
	Name string
	Kind Kind
	Path string
	// Display is the path shown to users and written to reports.
	Display string
	// Deltas maps a display path to the absolute path of a delta document.
	Deltas map[string]string
}

// Item is the validation outcome of one target.
type Item struct {
	Name   string   `json:"-"`
	Path   string   `json:"path"`
	Type   Kind     `json:"type"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

type RunOptions struct {
	Concurrency int
	Logger      *slog.Logger
	// OnItem is called once per finished target, never concurrently.
	OnItem func(done, total int, item Item)
}

// Run validates targets with at most opts.Concurrency files in flight and
// returns the items in target order.
func Run(ctx context.Context, targets []Target, opts RunOptions) ([]Item, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}
	if limit > len(targets) && len(targets) > 0 {
		limit = len(targets)
	}

	items := make([]Item, len(targets))
	var (
		mu   sync.Mutex
		done int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, target := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items[i] = ValidateTarget(target)
			logger.Debug("validated item", "path", items[i].Path, "type", target.Kind, "valid", items[i].Valid)

			if opts.OnItem != nil {
				mu.Lock()
				done++
				opts.OnItem(done, len(targets), items[i])
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// ValidateTarget reads and validates one target. Read failures are reported
// as item errors.
func ValidateTarget(target Target) Item {
	item := Item{
		Name:   target.Name,
		Path:   target.Display,
		Type:   target.Kind,
		Errors: []string{},
	}
	if item.Path == "" {
		item.Path = target.Path
	}

	data, err := os.ReadFile(target.Path)
	if err != nil {
		item.Errors = append(item.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return item
	}

	var result Result
	switch target.Kind {
	case KindChange:
		result = ValidateChangeDocument(string(data))
	case KindSpec:
		result = ValidateSpecDocument(string(data))
	default:
		item.Errors = append(item.Errors, fmt.Sprintf("unknown item type %q", target.Kind))
		return item
	}
	item.Errors = append(item.Errors, result.Errors...)

	for _, display := range sortedKeys(target.Deltas) {
		deltaData, err := os.ReadFile(target.Deltas[display])
		if err != nil {
			item.Errors = append(item.Errors, fmt.Sprintf("%s: Failed to read file: %v", display, err))
			continue
		}
		for _, msg := range ValidateDeltaDocument(string(deltaData)).Errors {
			item.Errors = append(item.Errors, fmt.Sprintf("%s: %s", filepath.ToSlash(display), msg))
		}
	}

	item.Valid = len(item.Errors) == 0
	return item
}
