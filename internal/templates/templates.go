// Package templates holds the text openspec writes when it scaffolds files.
package templates

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Slash command identifiers shared by every assistant integration.
const (
	CommandProposal = "proposal"
	CommandApply    = "apply"
	CommandArchive  = "archive"
)

var SlashCommands = []string{CommandProposal, CommandApply, CommandArchive}

func ProjectContext() string {
	return `# Project Context

## Purpose
<!-- What does this project do and for whom? -->

## Tech Stack
<!-- Languages, frameworks and services in use -->

## Conventions
<!-- Code style, architecture patterns, testing and git workflow -->

## Domain Context
<!-- Terms and constraints an assistant should know -->
`
}

// Agents is the content of openspec/AGENTS.md.
func Agents() string {
	return `# OpenSpec Instructions

This project uses OpenSpec for spec-driven development.

## Layout

- openspec/project.md: project conventions
- openspec/specs/<capability>/spec.md: what is built today
- openspec/changes/<change>/: proposals for what should change
- openspec/changes/archive/: completed changes

## Workflow

1. Read openspec/project.md and the relevant specs.
2. Scaffold a change: ` + "`openspec change create <name>`" + `.
3. Write proposal.md (## Why, ## What Changes) and tasks.md.
4. Add delta specs under changes/<name>/specs/<capability>/spec.md using
   ## ADDED Requirements, ## MODIFIED Requirements and ## REMOVED Requirements.
5. Run ` + "`openspec validate <name>`" + ` until it passes.
6. Implement the tasks and tick them off.
7. Run ` + "`openspec archive <name> --yes`" + ` to fold the deltas into the specs.

## Spec Format

` + "```markdown" + `
## ADDED Requirements
### Requirement: Session timeout
The system SHALL end idle sessions after 30 minutes.

#### Scenario: Idle session
- **WHEN** a session is idle for 30 minutes
- **THEN** the session is closed
` + "```" + `

MODIFIED requirements may carry a **CHANGE:** line, REMOVED requirements a
**REASON:** line. A proposal may also embed a ` + "```json" + ` configuration block
with name, why (50-2000 characters), whatChanges and deltas.
`
}

// RootAgentsBlock is the managed block written into root instruction files
// such as AGENTS.md and CLAUDE.md.
func RootAgentsBlock() string {
	return `# OpenSpec Instructions

These instructions are for AI assistants working in this project.

Always open ` + "`@/openspec/AGENTS.md`" + ` when the request:
- Mentions planning or proposals (words like proposal, spec, change, plan)
- Introduces new capabilities, breaking changes, architecture shifts, or big performance/security work
- Sounds ambiguous and you need the authoritative spec before coding

Use ` + "`@/openspec/AGENTS.md`" + ` to learn:
- How to create and apply change proposals
- Spec format and conventions
- Project structure and guidelines

Keep this managed block so 'openspec update' can refresh the instructions.`
}

// Proposal is a new change's proposal.md. Its configuration block passes
// change validation as written.
func Proposal(name string) string {
	quoted, _ := json.Marshal(name)
	return fmt.Sprintf(`# Change: %[1]s

## Why
<!-- The problem or opportunity, in one or two paragraphs -->

## What Changes
- <!-- Bullet list of changes; mark breaking changes with **BREAKING** -->

## Impact
- Affected specs: <!-- capabilities -->
- Affected code: <!-- files or systems -->

## Configuration
`+"```json"+`
{
  "name": %[2]s,
  "why": "Replace this with the problem this change solves and who it affects.",
  "whatChanges": "Replace this with a summary of the change.",
  "deltas": [
    {
      "spec": %[2]s,
      "operation": "ADDED",
      "description": "Replace this with what changes in the capability."
    }
  ]
}
`+"```"+`
`, name, quoted)
}

func Tasks(name string) string {
	return fmt.Sprintf(`# %s - Tasks

## 1. Implementation
- [ ] 1.1 Write delta specs under specs/
- [ ] 1.2 Implement the change
- [ ] 1.3 Add tests
- [ ] 1.4 Run openspec validate %s
`, name, name)
}

func Spec(name string) string {
	return fmt.Sprintf(`# %s Specification

## Purpose
<!-- What this capability is for -->

## Requirements
### Requirement: %s baseline
The system SHALL provide the %s capability.

#### Scenario: Capability available
- **WHEN** the capability is used
- **THEN** it behaves as described
`, name, titleCase(name), name)
}

// SlashDescription is the one-line description used in command frontmatter.
func SlashDescription(id string) string {
	switch id {
	case CommandProposal:
		return "Scaffold a new OpenSpec change and validate strictly."
	case CommandApply:
		return "Implement an approved OpenSpec change and keep tasks in sync."
	case CommandArchive:
		return "Archive a deployed OpenSpec change and update specs."
	default:
		return ""
	}
}

func SlashBody(id string) string {
	switch id {
	case CommandProposal:
		return `**Steps**
1. Review openspec/project.md, ` + "`openspec list`" + ` and ` + "`openspec list --specs`" + `.
2. Choose a unique verb-led change name and run ` + "`openspec change create <name>`" + `.
3. Fill in proposal.md, tasks.md and delta specs under specs/<capability>/spec.md.
4. Run ` + "`openspec validate <name>`" + ` and fix every reported issue.`
	case CommandApply:
		return `**Steps**
1. Read proposal.md and tasks.md of the approved change.
2. Work through the tasks in order, keeping edits minimal.
3. Tick each task (- [x]) once it is done.
4. Run ` + "`openspec validate <name>`" + ` before handing back.`
	case CommandArchive:
		return `**Steps**
1. Confirm every task in tasks.md is complete.
2. Run ` + "`openspec archive <name> --yes`" + `.
3. Review the updated specs under openspec/specs/.
4. Run ` + "`openspec validate --specs`" + `.`
	default:
		return ""
	}
}

func titleCase(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
