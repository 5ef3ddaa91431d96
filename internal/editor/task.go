package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	internalstrings "github.com/amonks/tasks/internal/strings"
	"github.com/amonks/tasks/task"
	"github.com/amonks/tasks/view"
)

// TaskData is the data used to render the TOML template.
type TaskData struct {
	ID     int
	Status string
	Due    string
	Text   string
}

// DataFromTask creates TaskData from an existing task for editing.
func DataFromTask(t task.Task) TaskData {
	data := TaskData{
		ID:     t.ID,
		Status: string(t.Status),
		Text:   t.Text,
	}
	if due, ok := t.Due(); ok {
		data.Due = due
	}
	return data
}

var taskTemplate = template.Must(template.New("task").Parse(`# task {{ .ID }}: the text below --- is the task itself
status = {{ printf "%q" .Status }} # todo, doing, done
due = {{ printf "%q" .Due }} # YYYY-MM-DD, or "" for none
---
{{ .Text }}
`))

// RenderTaskTOML renders the task data as a TOML string for editing.
func RenderTaskTOML(data TaskData) (string, error) {
	var buf bytes.Buffer
	if err := taskTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTask is the parsed result from the editor.
type ParsedTask struct {
	Status task.Status `toml:"status"`
	Due    string      `toml:"due"`
	Text   string
}

// ParseTaskTOML parses and validates the edited content.
func ParseTaskTOML(content string) (*ParsedTask, error) {
	frontmatter, body := splitFrontmatter(internalstrings.NormalizeNewlines(content))

	var parsed ParsedTask
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	parsed.Text = strings.TrimSpace(internalstrings.TrimLeadingNewlines(body))
	parsed.Due = strings.TrimSpace(parsed.Due)

	if err := view.ValidateNewText(parsed.Text); err != nil {
		return nil, err
	}
	status, err := task.ParseStatus(string(parsed.Status))
	if err != nil {
		return nil, err
	}
	parsed.Status = status
	if parsed.Due != "" {
		if err := task.ValidateDueDate(parsed.Due); err != nil {
			return nil, err
		}
	}

	return &parsed, nil
}

// DueDate returns the parsed due date, or nil when it was cleared.
func (p *ParsedTask) DueDate() *string {
	if p.Due == "" {
		return nil
	}
	due := p.Due
	return &due
}

func splitFrontmatter(content string) (string, string) {
	content = internalstrings.TrimLeadingNewlines(content)
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	separatorIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return content, ""
	}

	frontmatter := strings.Join(lines[:separatorIndex], "\n")
	body := strings.Join(lines[separatorIndex+1:], "\n")
	return frontmatter, body
}

func createTaskTempFile() (*os.File, error) {
	return os.CreateTemp("", "tasks-edit-*.toml")
}

// EditTask opens the editor for an existing task and returns the parsed result.
func EditTask(existing task.Task) (*ParsedTask, error) {
	content, err := RenderTaskTOML(DataFromTask(existing))
	if err != nil {
		return nil, err
	}

	tmpfile, err := createTaskTempFile()
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	return ParseTaskTOML(string(edited))
}
