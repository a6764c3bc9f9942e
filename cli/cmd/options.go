package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/ardnew/mkcmd/engine"
	"github.com/ardnew/mkcmd/lang"
	"github.com/ardnew/mkcmd/log"
	"github.com/ardnew/mkcmd/pkg"
)

// stdinSource names standard input in place of a script path.
const stdinSource = "-"

// Shell names accepted by --shell.
const (
	ShellSystem  = "sh"
	ShellBuiltin = "builtin"
)

// discoverPatterns are tried in order when no script is named explicitly.
// Matches of a single pattern are taken in lexical order, so "Make.cmd"
// precedes "make.cmd".
var discoverPatterns = []string{
	"{M,m}ake" + pkg.ScriptExt,
	"*" + pkg.ScriptExt,
}

// Options are the flags shared by every command.
type Options struct {
	File         string            `help:"Command script (default: discover ${discover})" placeholder:"PATH"  short:"f"`
	Shell        string            `help:"Shell used to run commands."                    default:"${shell}" enum:"${shellEnum}"`
	Dir          string            `help:"Working directory of commands."                 placeholder:"DIR"  type:"path"`
	EnvFile      []string          `help:"Load variables from a dotenv file."             placeholder:"PATH" sep:"none"`
	Set          map[string]string `help:"Set a variable before execution."               placeholder:"KEY=VALUE" mapsep:"none"`
	PathPrefix   []string          `help:"Prepend a directory to the PATH of commands."   placeholder:"DIR"  sep:"none"`
	Color        bool              `help:"Colorize diagnostics."                          default:"true"     negatable:""`
	NoCycleCheck bool              `help:"Run dependencies even when they form a cycle."`

	// FS is the file system scripts and dotenv files are read from. Nil
	// means the host file system.
	FS afero.Fs `kong:"-"`
	// Stdin is read when the script is named "-". Stdout and Stderr receive
	// diagnostics. Nil means the process streams.
	Stdin  io.Reader `kong:"-"`
	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

// Vars returns the kong variables interpolated into the [Options] tags.
func (*Options) Vars() map[string]string {
	return map[string]string{
		"discover":  discoverPatterns[0] + ", then " + discoverPatterns[1],
		"shell":     ShellSystem,
		"shellEnum": ShellSystem + "," + ShellBuiltin,
	}
}

func (o *Options) fs() afero.Fs {
	if o.FS == nil {
		return afero.NewOsFs()
	}

	return o.FS
}

func (o *Options) stdin() io.Reader {
	if o.Stdin == nil {
		return os.Stdin
	}

	return o.Stdin
}

func (o *Options) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}

	return o.Stdout
}

func (o *Options) stderr() io.Writer {
	if o.Stderr == nil {
		return os.Stderr
	}

	return o.Stderr
}

// Discover returns the path of the command script found in dir.
func Discover(fsys afero.Fs, dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", ErrNoScript.Wrap(err).With(slog.String("dir", dir))
	}

	root := afero.NewIOFS(afero.NewBasePathFs(fsys, abs))

	for _, pattern := range discoverPatterns {
		matches, err := doublestar.Glob(root, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return "", ErrNoScript.Wrap(err).With(slog.String("pattern", pattern))
		}

		if len(matches) > 0 {
			slices.Sort(matches)

			return filepath.Join(abs, matches[0]), nil
		}
	}

	return "", ErrNoScript.With(slog.String("dir", abs))
}

// LoadScript reads and parses the command script. A script named "-" is read
// from standard input.
func (o *Options) LoadScript(ctx context.Context) (*lang.Script, error) {
	fsys := o.fs()

	path := o.File
	switch path {
	case stdinSource:
		return lang.ParseReader(ctx, o.stdin(),
			lang.WithFilename(stdinSource),
			lang.WithLogger(log.Default()),
		)

	case "":
		dir := o.Dir
		if dir == "" {
			dir = "."
		}

		var err error
		if path, err = Discover(fsys, dir); err != nil {
			return nil, err
		}
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, ErrLoadScript.Wrap(err).With(slog.String("file", path))
	}

	log.Debug("loading command script", slog.String("file", path))

	return lang.ParseString(ctx, string(data),
		lang.WithFilename(path),
		lang.WithLogger(log.Default()),
	)
}

// LoadEnv returns the initial environment: each dotenv file in order, then
// every --set value.
func (o *Options) LoadEnv() (*engine.Env, error) {
	env := engine.NewEnv()
	fsys := o.fs()

	for _, path := range o.EnvFile {
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return nil, ErrLoadEnv.Wrap(err).With(slog.String("file", path))
		}

		if err := env.LoadDotenv(bytes.NewReader(data)); err != nil {
			return nil, ErrLoadEnv.Wrap(err).With(slog.String("file", path))
		}
	}

	for _, name := range slices.Sorted(maps.Keys(o.Set)) {
		env.Set(name, o.Set[name])
	}

	return env, nil
}

// NewShell returns the shell selected by --shell.
func (o *Options) NewShell() engine.Shell {
	if o.Shell == ShellBuiltin {
		return engine.BuiltinShell{Dir: o.Dir, PathPrefix: o.PathPrefix}
	}

	return engine.SystemShell{Dir: o.Dir, PathPrefix: o.PathPrefix}
}

// NewEngine returns an engine for script configured by the options.
func (o *Options) NewEngine(script *lang.Script) *engine.Engine {
	return engine.New(script,
		engine.WithShell(o.NewShell()),
		engine.WithSink(engine.NewConsole(o.stdout(), o.stderr(), o.Color)),
		engine.WithLogger(log.Default()),
		engine.WithCycleCheck(!o.NoCycleCheck),
	)
}
