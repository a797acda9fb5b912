// Package markdown turns openspec documents into sections, requirements and
// scenarios. Every function here is permissive: malformed input degrades to
// empty or partial structures and is reported later by the validation package.
package markdown

import "strings"

// Section is a header line and the trimmed text that follows it up to the next
// boundary header.
type Section struct {
	Title   string
	Heading string
	Body    string
}

// Sections is an ordered mapping keyed by lowercased title. A repeated title
// keeps its first position and takes the last body.
type Sections struct {
	order []string
	items map[string]Section
}

func newSections() *Sections {
	return &Sections{items: make(map[string]Section)}
}

func (s *Sections) put(section Section) {
	if _, ok := s.items[section.Title]; !ok {
		s.order = append(s.order, section.Title)
	}
	s.items[section.Title] = section
}

func (s *Sections) Get(title string) (Section, bool) {
	section, ok := s.items[strings.ToLower(strings.TrimSpace(title))]
	return section, ok
}

// Body returns the body of the named section, or "" when it is absent.
func (s *Sections) Body(title string) string {
	section, _ := s.Get(title)
	return section.Body
}

func (s *Sections) Titles() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Sections) All() []Section {
	out := make([]Section, 0, len(s.order))
	for _, title := range s.order {
		out = append(out, s.items[title])
	}
	return out
}

func (s *Sections) Len() int {
	return len(s.order)
}

// NormalizeLineEndings converts CRLF and lone CR line endings to LF.
func NormalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// ParseSections splits text at every header line regardless of rank.
func ParseSections(text string) *Sections {
	return splitSections(text, func(line string) bool {
		return strings.HasPrefix(line, "#")
	})
}

// ParseSpecSections splits text only at "## " headers. Deeper headers such as
// "### Requirement:" stay in the body of the enclosing section so they can be
// handed to ParseRequirements.
func ParseSpecSections(text string) *Sections {
	return splitSections(text, isSecondRankHeader)
}

func isSecondRankHeader(line string) bool {
	return headerRank(line) == 2
}

// headerRank returns the length of the leading '#' run when the line is an ATX
// header, or 0 otherwise.
func headerRank(line string) int {
	rank := 0
	for rank < len(line) && line[rank] == '#' {
		rank++
	}
	if rank == 0 {
		return 0
	}
	if rank < len(line) && line[rank] != ' ' && line[rank] != '\t' {
		return 0
	}
	return rank
}

func splitSections(text string, isBoundary func(string) bool) *Sections {
	sections := newSections()
	for _, section := range scanSections(text, isBoundary) {
		sections.put(section)
	}
	return sections
}

// scanSections returns every section in source order, duplicates included.
func scanSections(text string, isBoundary func(string) bool) []Section {
	var (
		out     []Section
		current *Section
		body    []string
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(strings.Join(body, "\n"))
		out = append(out, *current)
	}

	for _, line := range strings.Split(NormalizeLineEndings(text), "\n") {
		if isBoundary(line) {
			flush()
			heading := strings.TrimSpace(strings.Trim(line, "#"))
			current = &Section{
				Title:   strings.ToLower(heading),
				Heading: heading,
			}
			body = body[:0]
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()
	return out
}

// ParseTitle returns the text of the first "# " header line, or "".
func ParseTitle(text string) string {
	for _, line := range strings.Split(NormalizeLineEndings(text), "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}
