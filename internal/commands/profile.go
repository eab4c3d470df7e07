package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"todocli/internal/exitcode"
	"todocli/internal/output"
	"todocli/internal/profilesync"
)

func init() {
	Register(&ProfileCmd{})
	Register(&ProfileEditCmd{})
	Register(&ProfileDeleteCmd{})
}

// ProfileCmd implements the profile command.
type ProfileCmd struct{}

func (c *ProfileCmd) Name() string      { return "profile" }
func (c *ProfileCmd) Aliases() []string { return []string{"whoami"} }
func (c *ProfileCmd) Synopsis() string  { return "Show your profile" }
func (c *ProfileCmd) Usage() string     { return "todo profile" }
func (c *ProfileCmd) NeedsAuth() bool   { return true }

func (c *ProfileCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ProfileCmd) Run(ctx context.Context, env *Env, args []string) int {
	eng, code := openProfile(ctx, env)
	if eng == nil {
		return code
	}
	defer eng.Close()

	p, _ := eng.Profile()
	output.FormatProfile(env.Out, p)
	return exitcode.Success
}

// ProfileEditCmd implements the profile-edit command.
type ProfileEditCmd struct {
	fs     *pflag.FlagSet
	name   string
	number string
	email  string
}

func (c *ProfileEditCmd) Name() string      { return "profile-edit" }
func (c *ProfileEditCmd) Aliases() []string { return nil }
func (c *ProfileEditCmd) Synopsis() string  { return "Change your name, number or email" }
func (c *ProfileEditCmd) Usage() string {
	return "todo profile-edit [--name <name>] [--number <number>] [--email <email>]"
}
func (c *ProfileEditCmd) NeedsAuth() bool { return true }

func (c *ProfileEditCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.fs = fs
	fs.StringVar(&c.name, "name", "", "new name")
	fs.StringVar(&c.number, "number", "", "new phone number")
	fs.StringVar(&c.email, "email", "", "new email (ends the session)")
}

func (c *ProfileEditCmd) changed(name string) bool {
	return c.fs != nil && c.fs.Changed(name)
}

func (c *ProfileEditCmd) Run(ctx context.Context, env *Env, args []string) int {
	if !c.changed("name") && !c.changed("number") && !c.changed("email") {
		fmt.Fprintln(env.ErrOut, "error: nothing to change (use --name, --number or --email)")
		return exitcode.UserError
	}

	eng, code := openProfile(ctx, env)
	if eng == nil {
		return code
	}
	defer eng.Close()

	if err := eng.StartEdit(); err != nil {
		return report(env, err)
	}
	fields := eng.State().Fields
	if c.changed("name") {
		fields.Name = c.name
	}
	if c.changed("number") {
		fields.Number = c.number
	}
	if c.changed("email") {
		fields.Email = c.email
	}

	outcome, err := eng.Update(ctx, fields)
	if err != nil {
		return report(env, err)
	}
	if outcome == profilesync.Reauthenticate {
		env.say("%s", profilesync.MsgReauth)
		env.say("run: todo login")
		return exitcode.Success
	}
	env.say("%s", eng.State().Message)
	return exitcode.Success
}

// ProfileDeleteCmd implements the profile-delete command.
type ProfileDeleteCmd struct {
	yes bool
}

// SetYes skips the confirmation prompt (for testing).
func (c *ProfileDeleteCmd) SetYes(yes bool) {
	c.yes = yes
}

func (c *ProfileDeleteCmd) Name() string      { return "profile-delete" }
func (c *ProfileDeleteCmd) Aliases() []string { return nil }
func (c *ProfileDeleteCmd) Synopsis() string  { return "Delete your account and all its tasks" }
func (c *ProfileDeleteCmd) Usage() string     { return "todo profile-delete [--yes]" }
func (c *ProfileDeleteCmd) NeedsAuth() bool   { return true }

func (c *ProfileDeleteCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.yes, "yes", "y", c.yes, "do not ask for confirmation")
}

func (c *ProfileDeleteCmd) Run(ctx context.Context, env *Env, args []string) int {
	eng, code := openProfile(ctx, env)
	if eng == nil {
		return code
	}
	defer eng.Close()

	p, _ := eng.Profile()
	if err := eng.RequestDelete(); err != nil {
		return report(env, err)
	}
	question := fmt.Sprintf("Delete account %s? This cannot be undone.", p.Email)
	if !c.yes && !env.Confirm(question) {
		eng.CancelDelete()
		env.say("cancelled")
		return exitcode.Success
	}
	if err := eng.Delete(ctx); err != nil {
		return report(env, err)
	}

	env.say("ok")
	return exitcode.Success
}
