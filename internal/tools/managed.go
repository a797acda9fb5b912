package tools

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openspec-dev/openspec/internal/fileutil"
)

const (
	StartMarker = "<!-- OPENSPEC:START -->"
	EndMarker   = "<!-- OPENSPEC:END -->"
)

var ErrMalformedBlock = errors.New("managed block end marker appears before its start marker")

// ManagedBlock wraps body in the OpenSpec markers.
func ManagedBlock(body string) string {
	return StartMarker + "\n" + strings.TrimSpace(body) + "\n" + EndMarker
}

// UpsertManagedBlock replaces the marked region of existing with body, or
// appends a new marked region when none exists. Text outside the markers is
// kept byte for byte.
func UpsertManagedBlock(existing, body string) (string, error) {
	block := ManagedBlock(body)
	if existing == "" {
		return block + "\n", nil
	}

	start := strings.Index(existing, StartMarker)
	end := strings.Index(existing, EndMarker)
	switch {
	case start >= 0 && end >= 0 && end < start:
		return "", ErrMalformedBlock
	case start >= 0 && end >= 0:
		end += len(EndMarker)
		return fileutil.EnsureTrailingNewline(existing[:start] + block + existing[end:]), nil
	case start >= 0 || end >= 0:
		return "", fmt.Errorf("managed block is missing its %s marker", missingMarker(start))
	}

	return fileutil.EnsureTrailingNewline(existing) + "\n" + block + "\n", nil
}

// ExtractManagedBlock returns the trimmed text between the markers.
func ExtractManagedBlock(text string) (string, bool) {
	start := strings.Index(text, StartMarker)
	end := strings.Index(text, EndMarker)
	if start < 0 || end < start {
		return "", false
	}
	return strings.TrimSpace(text[start+len(StartMarker) : end]), true
}

// UpsertManagedFile applies UpsertManagedBlock to the file at path, creating
// it when missing. It reports whether the file changed.
func UpsertManagedFile(path, body string) (bool, error) {
	existing := ""
	if data, err := os.ReadFile(path); err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated, err := UpsertManagedBlock(existing, body)
	if err != nil {
		return false, fmt.Errorf("failed to update %s: %w", path, err)
	}
	return fileutil.WriteIfChanged(path, []byte(updated))
}

func ContainsManagedBlock(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	_, ok := ExtractManagedBlock(string(data))
	return ok
}

func missingMarker(start int) string {
	if start < 0 {
		return "start"
	}
	return "end"
}
