package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"todocli/internal/exitcode"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Forget the stored session" }
func (c *LogoutCmd) Usage() string     { return "todo logout" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, env *Env, args []string) int {
	if _, ok := env.Session.Current(); !ok {
		env.say("not logged in")
		return exitcode.Success
	}

	if err := env.Session.Clear(ctx); err != nil {
		fmt.Fprintf(env.ErrOut, "error: failed to remove session: %v\n", err)
		return exitcode.AuthError
	}

	env.say("ok")
	return exitcode.Success
}
