package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"todocli/internal/exitcode"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	fs          *pflag.FlagSet
	title       string
	description string
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's title or description" }
func (c *EditCmd) Usage() string {
	return "todo edit [--title <text>] [--description <text>] <ref>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.fs = fs
	fs.StringVarP(&c.title, "title", "t", "", "new title")
	fs.StringVarP(&c.description, "description", "d", "", "new description")
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.UserError
	}
	titleSet := c.fs != nil && c.fs.Changed("title")
	descSet := c.fs != nil && c.fs.Changed("description")
	if !titleSet && !descSet {
		fmt.Fprintln(env.ErrOut, "error: nothing to change (use --title or --description)")
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
	if err := eng.StartEdit(task.ID); err != nil {
		return report(env, err)
	}

	fields := eng.State().Editing.Fields
	if titleSet {
		fields.Title = c.title
	}
	if descSet {
		fields.Description = c.description
	}
	if err := eng.Update(ctx, task.ID, fields); err != nil {
		return report(env, err)
	}

	env.say("ok")
	return exitcode.Success
}
