package cmd

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/ardnew/mkcmd/log"
	"github.com/ardnew/mkcmd/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// configFileMode is the permission mode of a generated configuration file.
const configFileMode = 0o600

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file."`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context, opts *Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	fsys := opts.fs()

	exists, err := afero.Exists(fsys, confPath)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if exists && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(
		configDocument(ktx),
		yaml.Indent(defaultConfigIndent),
	)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := afero.WriteFile(fsys, confPath, data, configFileMode); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.Debug("initialized configuration file", slog.String("path", confPath))

	return nil
}

// configDocument collects the current value of every visible top-level flag
// in declaration order. Unset strings and empty collections are omitted.
func configDocument(ktx *kong.Context) yaml.MapSlice {
	prefixIgnore := []string{"help", "version", profile.Tag}

	var doc yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := ktx.FlagValue(flag)

		switch v := val.(type) {
		case nil:
			continue

		case string:
			if v == "" {
				continue
			}

		case []string:
			if len(v) == 0 {
				continue
			}

		case map[string]string:
			if len(v) == 0 {
				continue
			}
		}

		doc = append(doc, yaml.MapItem{Key: flag.Name, Value: val})
	}

	return doc
}
