// Package cli turns command-line arguments into a command run.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"todocli/internal/apierr"
	"todocli/internal/commands"
	"todocli/internal/config"
	"todocli/internal/exitcode"
	"todocli/internal/logging"
	"todocli/internal/service"
	"todocli/internal/session"
)

// ServiceFactory creates the Service a command runs against. src supplies
// the current credential on every authenticated request.
type ServiceFactory func(ctx context.Context, cfg *config.Config, src oauth2.TokenSource) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	in       io.Reader
	gatherer prometheus.Gatherer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithInput sets where prompts read answers from.
func WithInput(r io.Reader) Option {
	return func(d *Dispatcher) { d.in = r }
}

// WithGatherer sets the registry whose metrics are logged after a --debug run.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(d *Dispatcher) { d.gatherer = g }
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		factory:  factory,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

type globalFlags struct {
	configDir string
	apiURL    string
	quiet     bool
	debug     bool
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> list
	if len(args) == 0 {
		args = []string{"list"}
	}

	// Flags require a command, and "help" is the only name not in the registry.
	name := args[0]
	if name != "help" {
		if _, ok := d.registry.Find(name); !ok || strings.HasPrefix(name, "-") {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
			return exitcode.UserError
		}
	}

	code := exitcode.Success
	root := d.rootCommand(&code, out, errOut)
	root.SetArgs(args)
	root.SetIn(d.in)
	root.SetOut(out)
	root.SetErr(errOut)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	return code
}

// rootCommand builds a cobra tree from the registry. The chosen command's
// exit code is written to code.
func (d *Dispatcher) rootCommand(code *int, out, errOut io.Writer) *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Manage your tasks and account from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&g.configDir, "config", "", "configuration directory")
	pf.StringVar(&g.apiURL, "api-url", "", "task service base URL (overrides config)")
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "suppress informational output")
	pf.BoolVar(&g.debug, "debug", false, "enable debug logging")

	for _, c := range d.registry.All() {
		c := c
		sub := &cobra.Command{
			Use:                   strings.TrimPrefix(c.Usage(), config.AppName+" "),
			Aliases:               c.Aliases(),
			Short:                 c.Synopsis(),
			DisableFlagsInUseLine: true,
			RunE: func(cc *cobra.Command, args []string) error {
				*code = d.execute(cc.Context(), c, g, args, out, errOut)
				return nil
			},
		}
		c.RegisterFlags(sub.Flags())
		root.AddCommand(sub)
	}
	return root
}

// execute builds the per-run environment and runs cmd.
func (d *Dispatcher) execute(ctx context.Context, cmd commands.Command, g globalFlags, args []string, out, errOut io.Writer) int {
	cfg, err := config.Load(g.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if g.apiURL != "" {
		cfg.APIURL = g.apiURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.UserError
		}
	}
	cfg.Quiet = g.quiet
	cfg.Debug = g.debug

	level := cfg.Log.Level
	if cfg.Debug {
		level = "debug"
	}
	logging.Init(logging.Config{Env: cfg.Log.Env, Level: level})
	defer func() { _ = logging.Sync() }()
	log := logging.Named("cli").With(zap.String("command", cmd.Name()))

	store, err := session.OpenStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: session store: %s\n", err)
		return exitcode.BackendError
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}
	sess := session.New(store, session.WithLogger(logging.Named("session")))
	if err := sess.Restore(ctx); err != nil {
		log.Warn("could not restore session", logging.Err(err))
	}

	if cmd.NeedsAuth() {
		if _, ok := sess.Current(); !ok {
			fmt.Fprintf(errOut, "error: %s\n", apierr.AuthMessage)
			return exitcode.AuthError
		}
	}

	svc, err := d.factory(ctx, cfg, sess)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}

	env := &commands.Env{
		Config:  cfg,
		Service: svc,
		Session: sess,
		Log:     log,
		In:      d.in,
		Out:     out,
		ErrOut:  errOut,
	}

	start := time.Now()
	code := cmd.Run(ctx, env, args)
	log.Debug("finished", zap.Int("exit_code", code), logging.Duration(time.Since(start)))

	if cfg.Debug && d.gatherer != nil {
		d.logMetrics(log)
	}
	return code
}

// logMetrics writes one debug entry per collected sample.
func (d *Dispatcher) logMetrics(log *zap.Logger) {
	families, err := d.gatherer.Gather()
	if err != nil {
		log.Warn("gather metrics", logging.Err(err))
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}

			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			}
			log.Debug("metric",
				zap.String("name", mf.GetName()),
				zap.Strings("labels", labels),
				zap.Float64("value", value))
		}
	}
}
