// Copyright 2023 The Gitea Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"
	"strings"

	"fedireads.org/modules/setting"

	"github.com/urfave/cli/v3"
)

// cmdHelp is our own help subcommand with more information
func cmdHelp() *cli.Command {
	c := &cli.Command{
		Name:      "help",
		Aliases:   []string{"h"},
		Usage:     "Shows a list of commands or help for one command",
		ArgsUsage: "[command]",
		Action: func(ctx context.Context, c *cli.Command) (err error) {
			lineage := c.Lineage() // The order is from child to parent: help, admin, Fedireads
			targetCmdIdx := 0
			if c.Name == "help" {
				targetCmdIdx = 1
			}
			if targetCmdIdx+1 < len(lineage) {
				err = cli.ShowCommandHelp(ctx, lineage[targetCmdIdx+1], lineage[targetCmdIdx].Name)
			} else {
				err = cli.ShowAppHelp(c)
			}
			_, _ = fmt.Fprintf(c.Root().Writer, `
DEFAULT CONFIGURATION:
   ConfigFile: %s

`, setting.CustomConf)
			return err
		},
	}
	return c
}

func appGlobalFlags() []cli.Flag {
	return []cli.Flag{
		// make the builtin flags at the top
		cli.HelpFlag,

		// shared configuration flags, they are for global and for each sub-command at the same time
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   setting.CustomConf,
			Usage:   "Set custom config file (defaults to 'custom/conf/app.ini')",
		},
	}
}

func prepareSubcommandWithConfig(command *cli.Command, globalFlags func() []cli.Flag) {
	command.Flags = append(globalFlags(), command.Flags...)
	command.Action = prepareCustomConf(command.Action)
	command.HideHelp = true
	if command.Name != "help" {
		command.Commands = append(command.Commands, cmdHelp())
	}
	for i := range command.Commands {
		prepareSubcommandWithConfig(command.Commands[i], globalFlags)
	}
}

// prepareCustomConf wraps the Action to pick the config file from the closest command that sets it.
// It can't use "Before", because each level's sub-command's Before would be called one by one.
func prepareCustomConf(action cli.ActionFunc) func(_ context.Context, _ *cli.Command) error {
	return func(ctx context.Context, cli *cli.Command) error {
		for _, curCtx := range cli.Lineage() {
			if curCtx.IsSet("config") {
				setting.CustomConf = curCtx.String("config")
				break
			}
		}
		if cli.Bool("help") || action == nil {
			// the default behavior of "urfave/cli": "nil action" means "show help"
			return cmdHelp().Action(ctx, cli)
		}
		return action(ctx, cli)
	}
}

// NewMainApp returns the fedireads command line application.
func NewMainApp(version string) *cli.Command {
	app := &cli.Command{}
	app.Name = "Fedireads"
	app.Usage = "Social reading, federated."
	app.Description = `Administration of a fedireads instance: its users, their relationships and the instances it federates with.`
	app.Version = version
	app.EnableShellCompletion = true

	// these sub-commands need to use config file
	subCmdWithConfig := []*cli.Command{
		cmdHelp(),
		cmdAdmin(),
		cmdMigrate(),
	}

	app.Flags = append(app.Flags, cli.VersionFlag)
	app.Flags = append(app.Flags, appGlobalFlags()...)
	app.HideHelp = true // use our own help action to show helps (with more information like default config)
	for i := range subCmdWithConfig {
		prepareSubcommandWithConfig(subCmdWithConfig[i], appGlobalFlags)
	}
	app.Commands = append(app.Commands, subCmdWithConfig...)
	return app
}

// RunMainApp runs app and exits with a failure status on error.
func RunMainApp(app *cli.Command, args ...string) error {
	err := app.Run(context.Background(), args)
	if err == nil {
		return nil
	}
	if strings.HasPrefix(err.Error(), "flag provided but not defined:") {
		// the cli package should already have output the error message, so just exit
		cli.OsExiter(1)
		return err
	}
	_, _ = fmt.Fprintf(app.Root().ErrWriter, "Command error: %v\n", err)
	cli.OsExiter(1)
	return err
}
