package project

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/openspec-dev/openspec/internal/markdown"
)

var taskPattern = regexp.MustCompile(`^\s*[-*]\s*\[([ xX])\]\s*(.+)$`)

type Task struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// ParseTasks returns the checklist items of a tasks.md document.
func ParseTasks(text string) []Task {
	var tasks []Task
	for _, line := range strings.Split(markdown.NormalizeLineEndings(text), "\n") {
		match := taskPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		tasks = append(tasks, Task{
			Text: strings.TrimSpace(match[2]),
			Done: match[1] != " ",
		})
	}
	return tasks
}

type Progress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

func ProgressOf(tasks []Task) Progress {
	progress := Progress{Total: len(tasks)}
	for _, task := range tasks {
		if task.Done {
			progress.Completed++
		}
	}
	return progress
}

func (p Progress) Incomplete() int {
	return p.Total - p.Completed
}

func (p Progress) String() string {
	switch {
	case p.Total == 0:
		return "No tasks"
	case p.Completed == p.Total:
		return "✓ Complete"
	default:
		return fmt.Sprintf("%d/%d tasks", p.Completed, p.Total)
	}
}

// TaskProgress reads a change's tasks.md. A missing file has no tasks.
func (p *Project) TaskProgress(change string) (Progress, error) {
	tasks, err := p.Tasks(change)
	if err != nil {
		return Progress{}, err
	}
	return ProgressOf(tasks), nil
}

func (p *Project) Tasks(change string) ([]Task, error) {
	data, err := os.ReadFile(p.TasksFile(change))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read tasks for change '%s': %w", change, err)
	}
	return ParseTasks(string(data)), nil
}
