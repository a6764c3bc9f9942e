package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/mkcmd/lang"
)

// Output formats accepted by fmt --format.
const (
	FormatNative = "native"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

// defaultIndent is the indent width of JSON and YAML output.
const defaultIndent = 2

// Fmt prints the command script in canonical form.
type Fmt struct {
	Format string `default:"native" enum:"native,json,yaml" help:"Output format (${enum})." short:"o"`
	Indent int    `default:"0"                              help:"Indent width; 0 indents native output with tabs." short:"i"`

	Source string `arg:"" help:"Script to format or '-' for stdin (default: --file)." optional:""`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context, opts *Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if f.Source != "" {
		opts.File = f.Source
	}

	script, err := opts.LoadScript(ctx)
	if err != nil {
		return err
	}

	indent := f.Indent
	if indent <= 0 && f.Format != FormatNative {
		indent = defaultIndent
	}

	w := opts.stdout()

	switch f.Format {
	case FormatJSON:
		err = script.FormatJSON(ctx, w, indent)

	case FormatYAML:
		err = script.FormatYAML(ctx, w, indent)

	default:
		err = script.Format(ctx, w, indent)
	}

	if err != nil {
		return lang.ErrFormat.Wrap(err).With(slog.String("format", f.Format))
	}

	return nil
}
