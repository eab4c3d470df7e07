package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"todocli/internal/apierr"
	"todocli/internal/exitcode"
	"todocli/internal/logging"
	"todocli/internal/profilesync"
	"todocli/internal/service"
	"todocli/internal/tasksync"
)

// report prints err as a single "error:" line and returns its exit code.
func report(env *Env, err error) int {
	kind := apierr.KindOf(err)
	env.logger().Debug("command failed", logging.Kind(kind.String()), logging.Err(err))

	switch kind {
	case apierr.KindValidation:
		fmt.Fprintf(env.ErrOut, "error: %s\n", apierr.UserMessage(err))
		return exitcode.UserError
	case apierr.KindAuth:
		fmt.Fprintf(env.ErrOut, "error: %s\n", apierr.AuthMessage)
		return exitcode.AuthError
	case apierr.KindRemote, apierr.KindTransport:
		fmt.Fprintf(env.ErrOut, "error: %s\n", apierr.UserMessage(err))
		return exitcode.BackendError
	default:
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.UserError
	}
}

// openTasks creates a task engine for this run and loads the list.
// On failure the error is already reported and the exit code returned.
func openTasks(ctx context.Context, env *Env) (*tasksync.Engine, int) {
	opts := []tasksync.Option{tasksync.WithLogger(env.logger().Named("tasksync"))}
	if env.Config != nil {
		opts = append(opts, tasksync.WithLoadTimeout(env.Config.APITimeout()))
	}
	eng := tasksync.New(env.Service, env.Session.Activate(nil), opts...)
	if err := eng.LoadAll(ctx); err != nil {
		eng.Close()
		return nil, report(env, err)
	}
	return eng, exitcode.Success
}

// openProfile creates a profile engine for this run and loads the profile.
func openProfile(ctx context.Context, env *Env) (*profilesync.Engine, int) {
	eng := profilesync.New(env.Service, env.Session.Activate(nil),
		profilesync.WithLogger(env.logger().Named("profilesync")))
	if err := eng.Load(ctx); err != nil {
		eng.Close()
		return nil, report(env, err)
	}
	return eng, exitcode.Success
}

func zapTask(t service.Task) zap.Field {
	return zap.Dict("task", logging.TaskID(t.ID), zap.Bool("completed", t.Completed))
}
