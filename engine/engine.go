package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ardnew/mkcmd/lang"
	"github.com/ardnew/mkcmd/log"
	"github.com/ardnew/mkcmd/pkg"
)

// Engine executes the nodes of one script.
type Engine struct {
	registry   *Registry
	shell      Shell
	sink       Sink
	logger     log.Logger
	cycleCheck bool
}

// Option configures an [Engine].
type Option = pkg.Option[Engine]

// WithShell sets the shell used by Exec statements. The default is a
// [SystemShell].
func WithShell(shell Shell) Option {
	return func(e Engine) Engine {
		if shell != nil {
			e.shell = shell
		}

		return e
	}
}

// WithSink sets the receiver of diagnostic events. The default discards
// them.
func WithSink(sink Sink) Option {
	return func(e Engine) Engine {
		if sink != nil {
			e.sink = sink
		}

		return e
	}
}

// WithLogger sets the logger used to trace execution.
func WithLogger(logger log.Logger) Option {
	return func(e Engine) Engine {
		e.logger = logger

		return e
	}
}

// WithCycleCheck controls whether a dependency on a node that is already
// executing is reported and skipped. It is enabled by default; disabling it
// lets such a dependency recurse without bound.
func WithCycleCheck(enable bool) Option {
	return func(e Engine) Engine {
		e.cycleCheck = enable

		return e
	}
}

// New returns an Engine for script.
func New(script *lang.Script, opts ...Option) *Engine {
	var nodes []*lang.Node
	if script != nil {
		nodes = script.Nodes
	}

	e := pkg.Wrap(Engine{
		registry:   NewRegistry(nodes),
		shell:      SystemShell{},
		sink:       Discard,
		cycleCheck: true,
	}, opts...)

	return &e
}

// Registry returns the top-level node index.
func (e *Engine) Registry() *Registry { return e.registry }

// Subpath selects what runs after a node's own statements.
// The zero value is [Sweep].
type Subpath struct {
	segments []string
	present  bool
}

// Sweep returns the absent subpath: every direct sub-node runs in
// declaration order.
func Sweep() Subpath { return Subpath{} }

// PathOf returns a present subpath. Each segment names a sub-node of the
// previous one; an empty path runs no sub-nodes.
func PathOf(segments ...string) Subpath {
	return Subpath{segments: segments, present: true}
}

// Segments returns the path segments and whether the subpath is present.
func (s Subpath) Segments() ([]string, bool) { return s.segments, s.present }

func (s Subpath) String() string {
	if !s.present {
		return "*"
	}

	return strings.Join(s.segments, " ")
}

// Execute runs node with positional args against env and continues into
// the sub-nodes selected by sub. A nil env is replaced by an empty one.
//
// Failures of individual statements are reported to the sink and do not
// stop execution; the returned error is non-nil only when ctx is done.
func (e *Engine) Execute(
	ctx context.Context,
	node *lang.Node,
	env *Env,
	args []string,
	sub Subpath,
) error {
	if env == nil {
		env = NewEnv()
	}

	r := &run{
		Engine: e,
		env:    env,
		logger: e.logger.With(slog.String("run_id", uuid.NewString())),
	}

	r.logger.DebugContext(ctx, "run started",
		slog.String("node", node.Name),
		slog.Any("args", args),
		slog.String("subpath", sub.String()))

	err := r.execute(ctx, node, args, sub)

	r.logger.DebugContext(ctx, "run finished",
		slog.Int("vars", env.Len()),
		slog.Bool("cancelled", err != nil))

	return err
}

// run holds the state of one invocation.
type run struct {
	*Engine

	env    *Env
	logger log.Logger

	// names from the root of the current independent execution
	trace []string
	// every node currently executing, across dependencies
	stack []*lang.Node
}

func (r *run) emit(kind Kind, text string) {
	r.sink.Emit(Event{Kind: kind, Text: text})
}

func (r *run) execute(
	ctx context.Context,
	node *lang.Node,
	args []string,
	sub Subpath,
) error {
	r.trace = append(r.trace, node.Name)
	r.stack = append(r.stack, node)

	defer func() {
		r.trace = r.trace[:len(r.trace)-1]
		r.stack = r.stack[:len(r.stack)-1]
	}()

	r.logger.TraceContext(ctx, "execute node",
		slog.String("path", strings.Join(r.trace, " ")))

	for i, param := range node.Params {
		if i >= len(args) {
			break
		}

		r.env.Set(param, args[i])
		r.emit(KindParam, param+" = "+args[i])
	}

	if err := r.statements(ctx, node.Body); err != nil {
		return err
	}

	segments, present := sub.Segments()
	if present {
		if len(segments) == 0 {
			return nil
		}

		child := node.Child(segments[0])
		if child == nil {
			trace := strings.Join(r.trace, " ")
			err := ErrSubcommandNotFound.With(
				slog.String("name", segments[0]),
				slog.String("parent", trace))

			r.emit(KindError,
				"subcommand '"+segments[0]+"' not found in '"+trace+"'")
			r.logger.WarnContext(ctx, "subcommand not found", slog.Any("error", err))

			return nil
		}

		return r.execute(ctx, child, nil, PathOf(segments[1:]...))
	}

	for child := range node.Children() {
		if err := r.execute(ctx, child, nil, Sweep()); err != nil {
			return err
		}
	}

	return nil
}

// running reports whether node is on the execution stack and, if so, the
// chain of names from its first occurrence.
func (r *run) running(node *lang.Node) ([]string, bool) {
	for i, n := range r.stack {
		if n == node {
			chain := make([]string, 0, len(r.stack)-i+1)
			for _, m := range r.stack[i:] {
				chain = append(chain, m.Name)
			}

			return append(chain, node.Name), true
		}
	}

	return nil, false
}
