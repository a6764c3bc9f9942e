package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/mkcmd/log"
)

// Run executes a node path of the command script.
type Run struct {
	Path []string `arg:"" help:"Node path followed by --value parameter arguments." optional:"" passthrough:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context, opts *Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	script, err := opts.LoadScript(ctx)
	if err != nil {
		return err
	}

	env, err := opts.LoadEnv()
	if err != nil {
		return err
	}

	log.Debug("invoking", slog.Any("tokens", r.Path))

	return opts.NewEngine(script).Invoke(ctx, env, r.Path)
}
