package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the "did you mean" list of an unknown command.
const maxSuggestions = 3

// SplitTokens separates invocation tokens into a command path and
// arguments. Tokens beginning with "--" are arguments with every leading
// "--" removed; all others are path segments. Both keep their relative
// order.
func SplitTokens(tokens []string) (path, args []string) {
	for _, tok := range tokens {
		if !strings.HasPrefix(tok, "--") {
			path = append(path, tok)

			continue
		}

		for strings.HasPrefix(tok, "--") {
			tok = tok[2:]
		}

		args = append(args, tok)
	}

	return path, args
}

// Invoke resolves tokens to a node and executes it against env.
//
// The first path segment names a top-level node, which receives the
// arguments. A single segment runs the node and all its sub-nodes; further
// segments select one sub-node at each level.
func (e *Engine) Invoke(ctx context.Context, env *Env, tokens []string) error {
	path, args := SplitTokens(tokens)
	if len(path) == 0 {
		e.sink.Emit(Event{Kind: KindError, Text: "no command specified"})

		return ErrNoCommand
	}

	root, ok := e.registry.Lookup(path[0])
	if !ok {
		text := "command '" + path[0] + "' not found"
		if alt := e.Suggest(path[0]); len(alt) > 0 {
			text += "; did you mean '" + strings.Join(alt, "', '") + "'?"
		}

		e.sink.Emit(Event{Kind: KindError, Text: text})

		return ErrCommandNotFound.With(slog.String("command", path[0]))
	}

	sub := Sweep()
	if len(path) > 1 {
		sub = PathOf(path[1:]...)
	}

	return e.Execute(ctx, root, env, args, sub)
}

// Suggest returns up to three registered names that fuzzy-match name, best
// match first.
func (e *Engine) Suggest(name string) []string {
	matches := fuzzy.Find(name, e.registry.Names())

	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}

		out = append(out, m.Str)
	}

	return out
}
