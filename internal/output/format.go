// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"todocli/internal/service"
)

const (
	// Separator is the separator line between list sections.
	Separator = "------------"

	// TimeLayout is how server timestamps are shown.
	TimeLayout = "2006-01-02 15:04"
)

// FormatTask formats a task line.
// Format: "{N:>4}  [ ] {TITLE}\n", with [x] for completed tasks.
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, checkbox(task.Completed), normalizeTitle(task.Title))
}

// FormatTaskList prints tasks numbered from 1, with a separator line between
// the open and completed groups.
func FormatTaskList(w io.Writer, tasks []service.Task) {
	for i, task := range tasks {
		if i > 0 && task.Completed && !tasks[i-1].Completed {
			fmt.Fprintln(w, Separator)
		}
		FormatTask(w, i+1, task)
	}
}

// FormatTaskDetail prints every field of one task.
func FormatTaskDetail(w io.Writer, task service.Task) {
	status := "open"
	if task.Completed {
		status = "done"
	}
	fmt.Fprintf(w, "#%d  %s\n", task.ID, normalizeTitle(task.Title))
	fmt.Fprintf(w, "status:      %s\n", status)
	fmt.Fprintf(w, "description: %s\n", orDash(task.Description))
	fmt.Fprintf(w, "created:     %s\n", formatTime(task.CreatedAt))
	fmt.Fprintf(w, "updated:     %s\n", formatTime(task.UpdatedAt))
}

// FormatProfile prints a user profile.
func FormatProfile(w io.Writer, p service.Profile) {
	number := p.Number
	if strings.TrimSpace(number) == "" {
		number = "Not provided"
	}
	fmt.Fprintf(w, "Name:   %s\n", p.Name)
	fmt.Fprintf(w, "Email:  %s\n", p.Email)
	fmt.Fprintf(w, "Number: %s\n", number)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(TimeLayout)
}
