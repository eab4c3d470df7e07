// Package commands provides the command interface and implementations.
package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"todocli/internal/config"
	"todocli/internal/service"
	"todocli/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a stored credential.
	// Commands like version, register, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *pflag.FlagSet)

	// Run executes the command with positional arguments left after flag
	// parsing. Returns exit code.
	Run(ctx context.Context, env *Env, args []string) int
}

// Env is everything a command runs against.
type Env struct {
	Config  *config.Config
	Service service.Service
	Session *session.Session
	Log     *zap.Logger

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	reader *bufio.Reader
}

// ErrNoInput is returned by Prompt when there is nothing to read from.
var ErrNoInput = errors.New("no input available")

// Prompt writes label to ErrOut and reads one trimmed line from In.
func (e *Env) Prompt(label string) (string, error) {
	if e.In == nil {
		return "", ErrNoInput
	}
	if e.reader == nil {
		e.reader = bufio.NewReader(e.In)
	}
	fmt.Fprint(e.ErrOut, label)
	line, err := e.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Anything but y or yes is no.
func (e *Env) Confirm(question string) bool {
	ans, err := e.Prompt(question + " [y/N] ")
	if err != nil {
		return false
	}
	ans = strings.ToLower(ans)
	return ans == "y" || ans == "yes"
}

func (e *Env) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

// say prints an informational line unless --quiet.
func (e *Env) say(format string, a ...any) {
	if e.Config != nil && e.Config.Quiet {
		return
	}
	fmt.Fprintf(e.Out, format+"\n", a...)
}
