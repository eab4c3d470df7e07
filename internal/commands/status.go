package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"todocli/internal/exitcode"
	"todocli/internal/profilesync"
	"todocli/internal/tasksync"
)

func init() {
	Register(&StatusCmd{})
}

// StatusCmd implements the status command.
type StatusCmd struct{}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return nil }
func (c *StatusCmd) Synopsis() string  { return "Show who is logged in and task counts" }
func (c *StatusCmd) Usage() string     { return "todo status" }
func (c *StatusCmd) NeedsAuth() bool   { return true }

func (c *StatusCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, env *Env, args []string) int {
	act := env.Session.Activate(nil)
	log := env.logger()
	prof := profilesync.New(env.Service, act, profilesync.WithLogger(log.Named("profilesync")))
	defer prof.Close()
	tasks := tasksync.New(env.Service, act, tasksync.WithLogger(log.Named("tasksync")))
	defer tasks.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return prof.Load(gctx) })
	g.Go(func() error { return tasks.LoadAll(gctx) })
	if err := g.Wait(); err != nil {
		return report(env, err)
	}

	p, _ := prof.Profile()
	open, done := 0, 0
	for _, t := range tasks.Tasks() {
		if t.Completed {
			done++
		} else {
			open++
		}
	}
	fmt.Fprintf(env.Out, "user:      %s <%s>\n", p.Name, p.Email)
	fmt.Fprintf(env.Out, "open:      %d\n", open)
	fmt.Fprintf(env.Out, "completed: %d\n", done)
	return exitcode.Success
}
