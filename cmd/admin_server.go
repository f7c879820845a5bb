// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"fedireads.org/models/db"
	"fedireads.org/models/forgefed"

	"github.com/urfave/cli/v3"
	"xorm.io/builder"
)

func microcmdServerList() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List known instances",
		Action: runListServers,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "blocked",
				Usage: "Only list blocked instances",
			},
		},
	}
}

func microcmdServerBlock() *cli.Command {
	return &cli.Command{
		Name:      "block",
		Usage:     "Stop federating with an instance, it is registered if not known yet",
		ArgsUsage: "<server name>",
		Action:    runBlockServer,
	}
}

func microcmdServerUnblock() *cli.Command {
	return &cli.Command{
		Name:      "unblock",
		Usage:     "Federate with a blocked instance again",
		ArgsUsage: "<server name>",
		Action:    runUnblockServer,
	}
}

func microcmdServerDelete() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Forget an instance none of the known users belong to",
		ArgsUsage: "<server name>",
		Action:    runDeleteServer,
	}
}

func serverNameFromArgs(c *cli.Command) (string, error) {
	if c.NArg() != 1 {
		return "", errors.New("exactly one server name must be given")
	}
	return c.Args().First(), nil
}

func knownServer(ctx context.Context, name string) (*forgefed.FederatedServer, error) {
	server, err := forgefed.FindFederatedServerByName(ctx, name)
	if err != nil {
		return nil, err
	} else if server == nil {
		return nil, forgefed.ErrFederatedServerNotExist{ServerName: name}
	}
	return server, nil
}

func runListServers(ctx context.Context, c *cli.Command) error {
	ctx, cancel := installSignals(ctx)
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	cond := builder.NewCond()
	if c.Bool("blocked") {
		cond = cond.And(builder.Eq{"status": forgefed.StatusBlocked})
	}

	w := tabwriter.NewWriter(c.Root().Writer, 5, 0, 1, ' ', 0)
	_, _ = fmt.Fprintf(w, "ID\tServer\tStatus\tSoftware\n")
	err := db.Iterate(ctx, cond, func(ctx context.Context, server *forgefed.FederatedServer) error {
		software := server.ApplicationType.String
		if server.ApplicationVersion.Valid {
			software += " " + server.ApplicationVersion.String
		}
		_, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", server.ID, server.ServerName, server.Status, software)
		return err
	})
	if err != nil {
		return err
	}
	return w.Flush()
}

func runBlockServer(ctx context.Context, c *cli.Command) error {
	ctx, cancel := installSignals(ctx)
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	name, err := serverNameFromArgs(c)
	if err != nil {
		return err
	}
	server, err := forgefed.FindOrCreateFederatedServer(ctx, name, "", "")
	if err != nil {
		return err
	}
	if err := forgefed.UpdateFederatedServerStatus(ctx, server, forgefed.StatusBlocked); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "Server '%s' is blocked.\n", server.ServerName)
	return nil
}

func runUnblockServer(ctx context.Context, c *cli.Command) error {
	ctx, cancel := installSignals(ctx)
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	name, err := serverNameFromArgs(c)
	if err != nil {
		return err
	}
	server, err := knownServer(ctx, name)
	if err != nil {
		return err
	}
	if err := forgefed.UpdateFederatedServerStatus(ctx, server, forgefed.StatusFederated); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "Server '%s' is federated.\n", server.ServerName)
	return nil
}

func runDeleteServer(ctx context.Context, c *cli.Command) error {
	ctx, cancel := installSignals(ctx)
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	name, err := serverNameFromArgs(c)
	if err != nil {
		return err
	}
	server, err := knownServer(ctx, name)
	if err != nil {
		return err
	}
	if err := forgefed.DeleteFederatedServer(ctx, server); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "Server '%s' has been deleted.\n", server.ServerName)
	return nil
}
