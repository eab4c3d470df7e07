package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"todocli/internal/exitcode"
	"todocli/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todo` (no args) and `todo list`.
type ListCmd struct {
	open bool
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks, open first" }
func (c *ListCmd) Usage() string     { return "todo list [--open]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.open, "open", false, "only show open tasks")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(env.ErrOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	eng, code := openTasks(ctx, env)
	if eng == nil {
		return code
	}
	defer eng.Close()

	tasks := eng.Tasks()
	if c.open {
		// The list is partitioned, so the open tasks are a prefix.
		n := 0
		for n < len(tasks) && !tasks[n].Completed {
			n++
		}
		tasks = tasks[:n]
	}

	if len(tasks) == 0 {
		env.say("no tasks found")
		return exitcode.Success
	}
	output.FormatTaskList(env.Out, tasks)
	return exitcode.Success
}
