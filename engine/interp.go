package engine

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/mkcmd/lang"
)

// statements runs body in order. It stops early only when ctx is done.
func (r *run) statements(ctx context.Context, body []lang.Statement) error {
	for _, st := range body {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error

		switch s := st.(type) {
		case *lang.Command:
			// Sub-nodes run only through path navigation or a sweep.

		case *lang.Exec:
			r.exec(ctx, s)

		case *lang.Assign:
			value := r.env.Expand(s.Value)
			r.env.Set(s.Name, value)
			r.emit(KindSet, s.Name+" = "+value)

		case *lang.Depends:
			err = r.depends(ctx, s)

		case *lang.If:
			switch {
			case r.env.EvalCondition(s.Cond):
				err = r.statements(ctx, s.Then)
			case s.Else != nil:
				err = r.statements(ctx, s.Else)
			}

		case *lang.For:
			for _, item := range s.Items {
				r.env.Set(s.Var, r.env.Expand(item))

				if err = r.statements(ctx, s.Body); err != nil {
					break
				}
			}
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (r *run) exec(ctx context.Context, s *lang.Exec) {
	command := r.env.Expand(s.Text)

	r.emit(KindExec, strings.TrimSpace(command))
	r.logger.TraceContext(ctx, "exec", slog.String("command", command))

	res, err := r.shell.Exec(ctx, command)
	if err != nil {
		if !errors.Is(err, ErrSpawn) {
			err = ErrSpawn.Wrap(err)
		}

		r.emit(KindError, err.Error())
		r.logger.WarnContext(ctx, "exec failed", slog.Any("error", err))

		return
	}

	if len(res.Stdout) > 0 {
		r.emit(KindOutput, string(res.Stdout))
	}

	if res.ExitCode != 0 {
		r.emit(KindError, "command failed with status "+strconv.Itoa(res.ExitCode))

		if len(res.Stderr) > 0 {
			r.emit(KindStderr, string(res.Stderr))
		}

		r.logger.WarnContext(ctx, "exec failed", slog.Any("error",
			ErrExecFailed.With(
				slog.String("command", command),
				slog.Int("status", res.ExitCode))))
	}
}

func (r *run) depends(ctx context.Context, s *lang.Depends) error {
	for _, name := range s.Names {
		dep, ok := r.registry.Lookup(name)
		if !ok {
			r.logger.DebugContext(ctx, "unknown dependency skipped",
				slog.String("name", name))

			continue
		}

		if r.cycleCheck {
			if chain, cycle := r.running(dep); cycle {
				text := strings.Join(chain, " -> ")

				r.emit(KindError, "dependency cycle: "+text)
				r.logger.WarnContext(ctx, "dependency skipped", slog.Any("error",
					ErrDependencyCycle.With(slog.String("chain", text))))

				continue
			}
		}

		r.emit(KindDepends, name)

		trace := r.trace
		r.trace = nil

		err := r.execute(ctx, dep, nil, Sweep())

		r.trace = trace

		if err != nil {
			return err
		}
	}

	return nil
}
