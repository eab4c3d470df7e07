package commands

import (
	"context"
	"strings"

	"github.com/spf13/pflag"

	"todocli/internal/exitcode"
	"todocli/internal/tasksync"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "todo add [--description <text>] <title...>" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.description, "description", "d", "", "task description")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string) int {
	eng := tasksync.New(env.Service, env.Session.Activate(nil),
		tasksync.WithLogger(env.logger().Named("tasksync")))
	defer eng.Close()

	// A blank title is rejected by the engine before any request.
	title := strings.Join(args, " ")
	if err := eng.Create(ctx, title, c.description); err != nil {
		return report(env, err)
	}

	if tasks := eng.Tasks(); len(tasks) > 0 {
		env.logger().Debug("created", zapTask(tasks[0]))
	}
	env.say("ok")
	return exitcode.Success
}
