package cli

import (
	"context"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/mkcmd/cli/cmd"
	"github.com/ardnew/mkcmd/pkg"
)

// CLI is the top-level command-line interface for mkcmd.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	cmd.Options `embed:""`

	Version kong.VersionFlag `help:"Print version information and quit." short:"V"`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Run a node path (default)."`
	List cmd.List `cmd:""                    help:"List script nodes."`
	Fmt  cmd.Fmt  `cmd:""                    help:"Print the script in canonical form."`
	Pick cmd.Pick `cmd:""                    help:"Pick a node interactively and run it."`
	Init cmd.Init `cmd:""                    help:"Initialize configuration file."`
}

// Run executes the mkcmd CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := cli.parser(ctx, exit, configFilePath+".yaml",
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve, configFilePath+".yaml", configFilePath+".yml"),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli.Options)
}

// parser returns the Kong parser of cli. The configuration file written by
// init is confPath.
func (cli *CLI) parser(
	ctx context.Context,
	exit func(code int),
	confPath string,
	opts ...kong.Option,
) (*kong.Kong, error) {
	vars := kong.Vars{
		"version":            version(),
		cmd.ConfigIdentifier: confPath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Options.Vars()).
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	return kong.New(cli, append([]kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		vars,
	}, opts...)...)
}

// version returns the text printed by --version.
func version() string {
	authors := pkg.Map(pkg.Author, func(a pkg.AuthorInfo) string {
		return a.Name + " <" + a.Email + ">"
	})

	return pkg.Name + " " + pkg.Version + "\n" + strings.Join(slices.Collect(authors), "\n")
}
