package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"
)

func (m *Main) configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "print the effective configuration",
		Description: "Prints the defaults merged with the configuration file and the\n" +
			"SLC_<SECTION>_<KEY> environment variables. Redirect the output to\n" +
			"generate a configuration file, e.g. `slc config > slc.conf`.",
		Action: func(ctx *cli.Context) error {
			if err := toml.NewEncoder(m.Stdout).Encode(m.config); err != nil {
				return err
			}
			_, err := fmt.Fprintln(m.Stdout)
			return err
		},
	}
}
