package main

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"github.com/scratchlang/slc/project"
	"github.com/urfave/cli/v2"
)

func (m *Main) inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "summarize the targets of a project",
		ArgsUsage: "file.sb3|project.json",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "yaml or json",
				Value: "yaml",
			},
		},
		Action: m.inspect,
	}
}

type summary struct {
	File       string          `json:"file"`
	Size       string          `json:"size"`
	Agent      string          `json:"agent"`
	Extensions []string        `json:"extensions,omitempty"`
	Resources  int             `json:"resources"`
	Assets     string          `json:"assets"`
	Targets    []targetSummary `json:"targets"`
}

type targetSummary struct {
	Name       string   `json:"name"`
	Stage      bool     `json:"stage,omitempty"`
	Blocks     int      `json:"blocks"`
	Scripts    int      `json:"scripts"`
	Variables  []string `json:"variables,omitempty"`
	Lists      []string `json:"lists,omitempty"`
	Broadcasts []string `json:"broadcasts,omitempty"`
	Costumes   []string `json:"costumes,omitempty"`
	Sounds     []string `json:"sounds,omitempty"`
}

func summarize(path string, size int64, p *project.Program) summary {
	s := summary{
		File:       path,
		Size:       humanize.Bytes(uint64(size)),
		Agent:      p.Meta.Agent,
		Extensions: p.Extensions,
		Resources:  len(p.Resources),
	}
	var assets uint64
	for _, data := range p.Resources {
		assets += uint64(len(data))
	}
	s.Assets = humanize.Bytes(assets)

	for _, t := range p.Targets {
		ts := targetSummary{
			Name:   t.Name,
			Stage:  t.IsStage,
			Blocks: t.Len(),
		}
		for _, b := range t.TopLevel() {
			if b.Opcode.IsHat() {
				ts.Scripts++
			}
		}
		for _, v := range t.Variables {
			ts.Variables = append(ts.Variables, v.Name)
		}
		for _, l := range t.Lists {
			ts.Lists = append(ts.Lists, l.Name)
		}
		for _, b := range t.Broadcasts {
			ts.Broadcasts = append(ts.Broadcasts, b.Name)
		}
		for _, c := range t.Costumes {
			ts.Costumes = append(ts.Costumes, c.Name)
		}
		for _, snd := range t.Sounds {
			ts.Sounds = append(ts.Sounds, snd.Name)
		}
		sort.Strings(ts.Variables)
		sort.Strings(ts.Lists)
		sort.Strings(ts.Broadcasts)
		s.Targets = append(s.Targets, ts)
	}
	return s
}

func (m *Main) inspect(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("inspect needs exactly one project file")
	}
	path := ctx.Args().First()
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	p, err := project.ReadFile(path)
	if err != nil {
		return err
	}
	s := summarize(path, fi.Size(), p)

	var out []byte
	switch ctx.String("format") {
	case "yaml":
		out, err = yaml.Marshal(s)
	case "json":
		out, err = json.MarshalIndent(s, "", "  ")
		out = append(out, '\n')
	default:
		return errors.Errorf("unknown format %q, expected yaml or json", ctx.String("format"))
	}
	if err != nil {
		return err
	}
	_, err = m.Stdout.Write(out)
	return err
}
