package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"todocli/internal/exitcode"
	"todocli/internal/logging"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command: password, then emailed OTP.
type LoginCmd struct {
	user     string
	password string
	email    string
	otp      string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in with password and emailed OTP" }
func (c *LoginCmd) Usage() string {
	return "todo login --user <email-or-number> [--password <pw>] [--email <email>] [--otp <code>]"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.user, "user", "u", "", "email or phone number")
	fs.StringVar(&c.password, "password", "", "password (prompted if omitted)")
	fs.StringVar(&c.email, "email", "", "account email, when logging in by number")
	fs.StringVar(&c.otp, "otp", "", "one-time password (prompted if omitted)")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string) int {
	if flash := env.Session.TakeFlash(ctx); flash != "" {
		env.say("%s", flash)
	}

	user := strings.TrimSpace(c.user)
	if user == "" {
		fmt.Fprintln(env.ErrOut, "error: --user required")
		return exitcode.UserError
	}
	email := strings.TrimSpace(c.email)
	if email == "" {
		if !strings.Contains(user, "@") {
			fmt.Fprintln(env.ErrOut, "error: --email required when logging in by number")
			return exitcode.UserError
		}
		email = user
	}
	password, code := passwordFrom(env, c.password)
	if code != exitcode.Success {
		return code
	}

	msg, err := env.Service.RequestLoginOTP(ctx, user, password)
	if err != nil {
		return report(env, err)
	}
	if msg != "" {
		fmt.Fprintln(env.ErrOut, msg)
	}

	otp := strings.TrimSpace(c.otp)
	if otp == "" {
		otp, err = env.Prompt("OTP: ")
		if err != nil || otp == "" {
			fmt.Fprintln(env.ErrOut, "error: otp required")
			return exitcode.UserError
		}
	}

	token, err := env.Service.VerifyLoginOTP(ctx, email, otp)
	if err != nil {
		return report(env, err)
	}

	if err := env.Config.EnsureDir(); err != nil {
		fmt.Fprintf(env.ErrOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := env.Session.Establish(ctx, token); err != nil {
		fmt.Fprintf(env.ErrOut, "error: failed to save session: %v\n", err)
		return exitcode.AuthError
	}

	if cl, err := env.Session.Claims(); err == nil {
		env.logger().Info("logged in", logging.Email(cl.Subject))
	}
	env.say("ok")
	return exitcode.Success
}
