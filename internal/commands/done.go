package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"todocli/internal/exitcode"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It flips completion, so running it
// on a completed task reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string     { return "todo done <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.UserError
	}

	eng, code := openTasks(ctx, env)
	if eng == nil {
		return code
	}
	defer eng.Close()

	task, err := ref.Resolve(eng.Tasks())
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := eng.Toggle(ctx, task); err != nil {
		return report(env, err)
	}

	env.logger().Debug("toggled", zapTask(task))
	env.say("ok")
	return exitcode.Success
}
