package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/mkcmd/log"
)

// resolve is a [kong.ConfigurationLoader] that reads flag values from a YAML
// document.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Top-level keys name flags. Hyphens and underscores are interchangeable, so
// "log-level" and "log_level" both set --log-level. Sequences populate
// repeatable flags and mappings populate map flags:
//
//	log-level: debug
//	shell: builtin
//	env-file: [.env, .env.local]
//	set:
//	  GOOS: linux
//
// An empty document resolves nothing. A malformed document is reported at
// warn level and otherwise ignored. Command-line flags override config file
// values.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil && !errors.Is(err, io.EOF) {
		log.Warn("ignoring invalid configuration", slog.String("error", err.Error()))

		return config{}, nil
	}

	cfg := make(config, len(doc))
	for key, val := range doc {
		cfg[strings.ReplaceAll(key, "_", "-")] = native(val)
	}

	return cfg, nil
}

// config implements [kong.Resolver] for YAML configuration documents. Keys
// are stored in their hyphenated form.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	// Not found; let Kong use defaults.
	return nil, nil
}

// native converts a decoded YAML value to the representation Kong's mappers
// expect. Kong parses numbers from strings, so scalars other than booleans
// are stringified.
func native(v any) any {
	switch v := v.(type) {
	case nil:
		return nil

	case bool:
		return v

	case string:
		return v

	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			out[i] = native(el)
		}

		return out

	case map[string]any:
		out := make(map[string]any, len(v))
		for key, el := range v {
			out[key] = native(el)
		}

		return out

	default:
		return fmt.Sprint(v)
	}
}
