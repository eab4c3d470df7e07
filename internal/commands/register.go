package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"todocli/internal/exitcode"
	"todocli/internal/service"
)

func init() {
	Register(&RegisterCmd{})
	Register(&VerifyCmd{})
	Register(&ResendCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	name     string
	number   string
	email    string
	password string
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "todo register --name <name> --email <email> [--number <number>] [--password <pw>]"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "your name")
	fs.StringVar(&c.number, "number", "", "phone number")
	fs.StringVar(&c.email, "email", "", "email address")
	fs.StringVar(&c.password, "password", "", "password (prompted if omitted)")
}

func (c *RegisterCmd) Run(ctx context.Context, env *Env, args []string) int {
	if strings.TrimSpace(c.name) == "" || strings.TrimSpace(c.email) == "" {
		fmt.Fprintln(env.ErrOut, "error: --name and --email are required")
		return exitcode.UserError
	}
	password, code := passwordFrom(env, c.password)
	if code != exitcode.Success {
		return code
	}

	msg, err := env.Service.Register(ctx, service.Registration{
		Name:     c.name,
		Number:   c.number,
		Email:    c.email,
		Password: password,
	})
	if err != nil {
		return report(env, err)
	}
	env.say("%s", orOK(msg))
	env.say("next: todo verify %s <otp>", c.email)
	return exitcode.Success
}

// VerifyCmd implements the verify command.
type VerifyCmd struct{}

func (c *VerifyCmd) Name() string      { return "verify" }
func (c *VerifyCmd) Aliases() []string { return nil }
func (c *VerifyCmd) Synopsis() string  { return "Complete registration with the emailed OTP" }
func (c *VerifyCmd) Usage() string     { return "todo verify <email> <otp>" }
func (c *VerifyCmd) NeedsAuth() bool   { return false }

func (c *VerifyCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *VerifyCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) != 2 {
		fmt.Fprintf(env.ErrOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	msg, err := env.Service.VerifyRegistration(ctx, args[0], args[1])
	if err != nil {
		return report(env, err)
	}
	env.say("%s", orOK(msg))
	return exitcode.Success
}

// ResendCmd implements the resend command.
type ResendCmd struct{}

func (c *ResendCmd) Name() string      { return "resend" }
func (c *ResendCmd) Aliases() []string { return nil }
func (c *ResendCmd) Synopsis() string  { return "Send a new registration OTP" }
func (c *ResendCmd) Usage() string     { return "todo resend <email>" }
func (c *ResendCmd) NeedsAuth() bool   { return false }

func (c *ResendCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ResendCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(env.ErrOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	msg, err := env.Service.ResendOTP(ctx, args[0])
	if err != nil {
		return report(env, err)
	}
	env.say("%s", orOK(msg))
	return exitcode.Success
}

// passwordFrom returns flagValue, or prompts for it when empty.
func passwordFrom(env *Env, flagValue string) (string, int) {
	if flagValue != "" {
		return flagValue, exitcode.Success
	}
	pw, err := env.Prompt("Password: ")
	if err != nil || pw == "" {
		fmt.Fprintln(env.ErrOut, "error: password required")
		return "", exitcode.UserError
	}
	return pw, exitcode.Success
}

func orOK(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return "ok"
	}
	return msg
}
