package lang

import (
	"fmt"
	"log/slog"

	"github.com/ardnew/mkcmd/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrParse     = pkg.NewError("parse error")
	ErrReadInput = pkg.NewError("failed to read input")
	ErrFormat    = pkg.NewError("failed to format script")
)

func (p *parser) errorf(pos Position, format string, args ...any) error {
	attrs := []slog.Attr{
		slog.Int("line", pos.Line),
		slog.Int("column", pos.Column),
	}

	if p.filename != "" {
		attrs = append(attrs, slog.String("file", p.filename))
	}

	return ErrParse.
		Wrap(fmt.Errorf("line %d, column %d: "+format,
			append([]any{pos.Line, pos.Column}, args...)...)).
		With(attrs...)
}
