package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/conifer/cli/cmd"
	"github.com/ardnew/conifer/config"
	"github.com/ardnew/conifer/pkg"
	"github.com/ardnew/conifer/section"
)

// CLI is the top-level command-line interface for conifer.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Source  []string `help:"Configuration file(s), inline text, or '-' for stdin" name:"source"  short:"s"`
	Include []string `help:"Directories searched for configuration files"         name:"include" short:"I" type:"existingdir"`

	Name        string `default:"${rootName}"    help:"Name of the root section"`
	Separator   string `default:"${rootSep}"     help:"Path separator for section names"`
	Constants   string `default:"${constSec}"    help:"Section providing named constants"`
	NoConstants bool   `                         help:"Disable the constants section"`

	Init cmd.Init `cmd:"" help:"Initialize CLI configuration file"`
	Eval cmd.Eval `cmd:"" help:"Evaluate an expression"`
	Dump cmd.Dump `cmd:"" help:"Export the evaluated tree as YAML or JSON"`
	Tree cmd.Tree `cmd:"" help:"Render the configuration tree"`
	Repl cmd.Repl `cmd:"" help:"Interactive session"`

	Get cmd.Get `cmd:"" default:"withargs" help:"Look up keys in the configuration"`
}

// Run executes the conifer CLI with the given context and arguments.
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

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"rootName":           config.DefaultName,
		"rootSep":            section.DefaultSeparator,
		"constSec":           config.DefaultConstants,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
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
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(baseConfig), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands.
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSettings(ctx, cli.settings())

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// settings converts the shared loader flags into the form consumed by the
// subcommands, resolving each source against the include search path.
func (cli *CLI) settings() cmd.Settings {
	sources := make([]string, len(cli.Source))
	for i, src := range cli.Source {
		sources[i] = findSource(src, cli.Include)
	}

	constants := cli.Constants
	if cli.NoConstants {
		constants = ""
	}

	return cmd.Settings{
		Sources:   sources,
		Name:      cli.Name,
		Separator: cli.Separator,
		Constants: constants,
		CacheDir:  cacheDir(),
	}
}
