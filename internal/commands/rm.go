package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"todocli/internal/exitcode"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	yes bool
}

// SetYes skips the confirmation prompt (for testing).
func (c *RmCmd) SetYes(yes bool) {
	c.yes = yes
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "todo rm [--yes] <ref>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.yes, "yes", "y", c.yes, "do not ask for confirmation")
}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string) int {
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
	if err := eng.RequestDelete(task.ID); err != nil {
		return report(env, err)
	}
	if !c.yes && !env.Confirm(fmt.Sprintf("Delete %q?", task.Title)) {
		eng.CancelDelete()
		env.say("cancelled")
		return exitcode.Success
	}
	if err := eng.Delete(ctx, task.ID); err != nil {
		return report(env, err)
	}

	env.say("ok")
	return exitcode.Success
}
