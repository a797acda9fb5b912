// Package outline builds a heading tree of a markdown document with the
// tree-sitter markdown grammar, so headings inside code fences are ignored.
package outline

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
)

type Kind string

const (
	KindSection     Kind = "section"
	KindRequirement Kind = "requirement"
	KindScenario    Kind = "scenario"
)

// Heading is one node of the outline. Line is 1-based.
type Heading struct {
	Level    int       `json:"level"`
	Title    string    `json:"title"`
	Kind     Kind      `json:"kind"`
	Line     int       `json:"line"`
	Children []Heading `json:"children,omitempty"`
}

type CodeBlock struct {
	Language string `json:"language,omitempty"`
	Line     int    `json:"line"`
}

type Outline struct {
	Headings   []Heading   `json:"headings"`
	CodeBlocks []CodeBlock `json:"codeBlocks"`
}

// Parser wraps a tree-sitter parser. It is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(markdown.GetLanguage())
	return &Parser{parser: p}
}

func (p *Parser) Parse(ctx context.Context, content []byte) (*Outline, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}
	defer tree.Close()

	var flat []Heading
	result := &Outline{Headings: []Heading{}, CodeBlocks: []CodeBlock{}}
	collect(tree.RootNode(), content, &flat, result)
	result.Headings = nest(flat)
	return result, nil
}

func collect(node *sitter.Node, content []byte, headings *[]Heading, result *Outline) {
	switch node.Type() {
	case "atx_heading":
		if heading, ok := atxHeading(node, content); ok {
			*headings = append(*headings, heading)
		}
		return
	case "setext_heading":
		if heading, ok := setextHeading(node, content); ok {
			*headings = append(*headings, heading)
		}
		return
	case "fenced_code_block":
		result.CodeBlocks = append(result.CodeBlocks, CodeBlock{
			Language: fenceLanguage(node, content),
			Line:     int(node.StartPoint().Row) + 1,
		})
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collect(node.Child(i), content, headings, result)
	}
}

func atxHeading(node *sitter.Node, content []byte) (Heading, bool) {
	level := 0
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		var n int
		if _, err := fmt.Sscanf(child.Type(), "atx_h%d_marker", &n); err == nil {
			level = n
			break
		}
	}
	if level == 0 {
		return Heading{}, false
	}

	title := ""
	if inline := node.ChildByFieldName("heading_content"); inline != nil {
		title = inline.Content(content)
	}
	title = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(title), "#"))
	return newHeading(level, title, node), true
}

func setextHeading(node *sitter.Node, content []byte) (Heading, bool) {
	level := 0
	title := ""
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "setext_h1_underline":
			level = 1
		case "setext_h2_underline":
			level = 2
		case "paragraph":
			title = strings.TrimSpace(child.Content(content))
		}
	}
	if level == 0 {
		return Heading{}, false
	}
	return newHeading(level, title, node), true
}

func newHeading(level int, title string, node *sitter.Node) Heading {
	return Heading{
		Level: level,
		Title: title,
		Kind:  classify(title),
		Line:  int(node.StartPoint().Row) + 1,
	}
}

func classify(title string) Kind {
	switch {
	case strings.HasPrefix(title, "Requirement:"):
		return KindRequirement
	case strings.HasPrefix(title, "Scenario:"):
		return KindScenario
	default:
		return KindSection
	}
}

func fenceLanguage(node *sitter.Node, content []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "info_string" {
			continue
		}
		fields := strings.Fields(child.Content(content))
		if len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}

// nest turns a flat heading list into a tree: each heading becomes a child
// of the closest earlier heading with a lower level.
func nest(flat []Heading) []Heading {
	var build func(level int) []Heading
	i := 0
	build = func(parentLevel int) []Heading {
		out := []Heading{}
		for i < len(flat) && flat[i].Level > parentLevel {
			heading := flat[i]
			i++
			heading.Children = build(heading.Level)
			if len(heading.Children) == 0 {
				heading.Children = nil
			}
			out = append(out, heading)
		}
		return out
	}
	return build(0)
}

// Render prints the outline as an indented list, one heading per line.
func (o *Outline) Render() string {
	var b strings.Builder
	var walk func(headings []Heading, depth int)
	walk = func(headings []Heading, depth int) {
		for _, heading := range headings {
			fmt.Fprintf(&b, "%s%s %s (line %d)\n", strings.Repeat("  ", depth), strings.Repeat("#", heading.Level), heading.Title, heading.Line)
			walk(heading.Children, depth+1)
		}
	}
	walk(o.Headings, 0)
	if len(o.CodeBlocks) > 0 {
		fmt.Fprintf(&b, "code blocks: %d\n", len(o.CodeBlocks))
	}
	return b.String()
}

// Count returns the number of headings of kind in the tree.
func (o *Outline) Count(kind Kind) int {
	var count func(headings []Heading) int
	count = func(headings []Heading) int {
		total := 0
		for _, heading := range headings {
			if heading.Kind == kind {
				total++
			}
			total += count(heading.Children)
		}
		return total
	}
	return count(o.Headings)
}
