package main

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/scratchlang/slc/decompile"
	"github.com/scratchlang/slc/project"
	"github.com/urfave/cli/v2"
)

func (m *Main) decompileCommand() *cli.Command {
	return &cli.Command{
		Name:      "decompile",
		Usage:     "render a project as ScratchLang source",
		ArgsUsage: "file.sb3|project.json",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output path, defaults to stdout",
			},
		},
		Action: m.decompile,
	}
}

func (m *Main) decompile(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("decompile needs exactly one project file")
	}
	p, err := project.ReadFile(ctx.Args().First())
	if err != nil {
		return err
	}
	d := decompile.New(p,
		decompile.WithConfig(m.config.Decompile),
		decompile.WithDiagnostic(m.logs.NewDecompileHandler()),
	)
	text := d.Program()
	if d.Unsupported > 0 {
		fmt.Fprintf(m.Stderr, "%s %d blocks have no source form\n", warningStyle.Sprint(" warning "), d.Unsupported)
	}

	out := ctx.String("output")
	if out == "" {
		_, err := fmt.Fprint(m.Stdout, text)
		return err
	}
	if err := ioutil.WriteFile(out, []byte(text), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", out)
	}
	m.diag.Wrote(out, int64(len(text)))
	return nil
}
