package project

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	slugSeparators   = regexp.MustCompile(`[\s_]+`)
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashRuns     = regexp.MustCompile(`-{2,}`)

	archivedNamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)
)

const archiveDateLayout = "2006-01-02"

// Slugify lowercases name, turns whitespace and underscores into dashes and
// drops anything outside [a-z0-9-].
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugSeparators.ReplaceAllString(slug, "-")
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugDashRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// DefaultChangeName is used when a change is created without a name.
func DefaultChangeName(now time.Time) string {
	return "change-" + now.Format("20060102-150405")
}

// ArchiveName is the archive directory name of change on the day of now.
func ArchiveName(now time.Time, change string) string {
	return now.Format(archiveDateLayout) + "-" + change
}

// ParseArchiveName splits "YYYY-MM-DD-<name>" into its date and name.
func ParseArchiveName(dir string) (time.Time, string, bool) {
	match := archivedNamePattern.FindStringSubmatch(dir)
	if match == nil {
		return time.Time{}, "", false
	}
	date, err := time.Parse(archiveDateLayout, match[1])
	if err != nil {
		return time.Time{}, "", false
	}
	return date, match[2], true
}

func requireSlug(kind, name string) (string, error) {
	slug := Slugify(name)
	if slug == "" {
		return "", fmt.Errorf("%s name %q: %w", kind, name, ErrInvalidName)
	}
	return slug, nil
}

// isEntryName reports whether name is a single visible directory entry, so a
// lookup under changes/ or specs/ cannot reach another directory.
func isEntryName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name
}
