// Command slc compiles ScratchLang sources into Scratch 3 projects and
// renders projects back into source.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/scratchlang/slc/bufpool"
	"github.com/scratchlang/slc/services/diagnostic"
	"github.com/urfave/cli/v2"
)

// These variables are populated via the Go linker.
var (
	version string
	commit  string
)

func init() {
	if version == "" {
		version = "dev"
	}
	if commit == "" {
		commit = "unknown"
	}
}

func main() {
	m := NewMain()
	if err := m.Run(context.Background(), os.Args...); err != nil {
		fmt.Fprintln(m.Stderr, errorStyle.Sprint(" error ")+" "+err.Error())
		os.Exit(1)
	}
}

// Main holds the streams and services of one invocation.
type Main struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	config *Config
	logs   *diagnostic.Service
	diag   *diagnostic.CmdHandler

	buffers *bufpool.Pool
}

func NewMain() *Main {
	return &Main{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run runs the command named by args, args[0] being the program name.
func (m *Main) Run(ctx context.Context, args ...string) error {
	return m.app().RunContext(ctx, args)
}

func (m *Main) app() *cli.App {
	return &cli.App{
		Name:                 "slc",
		Usage:                "ScratchLang compiler",
		UsageText:            "slc [global options] command [command options] [arguments...]",
		Version:              fmt.Sprintf("%s (%s)", version, commit),
		EnableBashCompletion: true,
		Reader:               m.Stdin,
		Writer:               m.Stdout,
		ErrWriter:            m.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path of the configuration file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "minimum level of log records, overrides [logging] level",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "STDERR, STDOUT or a file, overrides [logging] file",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "print diagnostics without colors",
			},
		},
		Before: m.before,
		After:  m.after,
		// errors are printed by main
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			m.compileCommand(),
			m.decompileCommand(),
			m.inspectCommand(),
			m.configCommand(),
		},
	}
}

// before loads the configuration and opens logging for every command.
func (m *Main) before(ctx *cli.Context) error {
	if ctx.Bool("no-color") {
		pterm.DisableColor()
	}
	c, err := ParseConfig(FindConfigPath(ctx.String("config")))
	if err != nil {
		return errors.Wrap(err, "parse config")
	}
	if f := ctx.String("log-file"); f != "" {
		c.Logging.File = f
	}
	if l := ctx.String("log-level"); l != "" {
		c.Logging.Level = l
	}
	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration, run `slc config` to see the defaults")
	}
	m.config = c

	m.logs = diagnostic.NewService(c.Logging, m.Stdout, m.Stderr)
	if err := m.logs.Open(); err != nil {
		return errors.Wrap(err, "init logging")
	}
	m.diag = m.logs.NewCmdHandler()
	m.diag.Starting(ctx.Args().First(), version, commit)
	m.diag.GoVersion()
	return nil
}

func (m *Main) after(ctx *cli.Context) error {
	if m.logs == nil {
		return nil
	}
	return m.logs.Close()
}
