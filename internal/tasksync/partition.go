package tasksync

import "todocli/internal/service"

// partition returns tasks with every incomplete task ahead of every
// completed one. Order within each group is kept.
func partition(tasks []service.Task) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	for _, t := range tasks {
		if t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// replaceAt returns a copy of tasks with tasks[i] replaced by t, then
// partitioned.
func replaceAt(tasks []service.Task, i int, t service.Task) []service.Task {
	next := append([]service.Task(nil), tasks...)
	next[i] = t
	return partition(next)
}

// moveToGroupEnd returns a copy of tasks with tasks[i] removed and t placed
// after the last task in its group.
func moveToGroupEnd(tasks []service.Task, i int, t service.Task) []service.Task {
	rest := make([]service.Task, 0, len(tasks))
	rest = append(rest, tasks[:i]...)
	rest = append(rest, tasks[i+1:]...)
	rest = partition(rest)

	at := len(rest)
	if !t.Completed {
		at = 0
		for at < len(rest) && !rest[at].Completed {
			at++
		}
	}
	out := make([]service.Task, 0, len(tasks))
	out = append(out, rest[:at]...)
	out = append(out, t)
	return append(out, rest[at:]...)
}

// Partitioned reports whether no incomplete task follows a completed one.
func Partitioned(tasks []service.Task) bool {
	seenDone := false
	for _, t := range tasks {
		if t.Completed {
			seenDone = true
		} else if seenDone {
			return false
		}
	}
	return true
}

func indexOf(tasks []service.Task, id int64) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
