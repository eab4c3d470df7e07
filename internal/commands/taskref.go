package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"todocli/internal/service"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Pos  int   // 1-based position in the printed list
	ID   int64 // server id, when ByID
	ByID bool  // true for "#<id>"
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the task reference in args[0].
//
// Parsing rules:
// 1. All digits → position in the list as printed by `todo list`
// 2. '#' followed by digits → server-assigned task id
// 3. Otherwise → error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return TaskRef{}, ErrTaskRefRequired
	}
	arg := strings.TrimSpace(args[0])

	if isAllDigits(arg) {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Pos: n}, nil
	}

	if rest, ok := strings.CutPrefix(arg, "#"); ok && isAllDigits(rest) {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{ID: id, ByID: true}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// Resolve finds the referenced task in tasks, which must be in the order
// the list command prints them.
func (r TaskRef) Resolve(tasks []service.Task) (service.Task, error) {
	if r.ByID {
		for _, t := range tasks {
			if t.ID == r.ID {
				return t, nil
			}
		}
		return service.Task{}, fmt.Errorf("task not found: #%d", r.ID)
	}
	if r.Pos < 1 || r.Pos > len(tasks) {
		return service.Task{}, fmt.Errorf("task number out of range: %d", r.Pos)
	}
	return tasks[r.Pos-1], nil
}

func (r TaskRef) String() string {
	if r.ByID {
		return "#" + strconv.FormatInt(r.ID, 10)
	}
	return strconv.Itoa(r.Pos)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
