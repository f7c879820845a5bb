// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"github.com/urfave/cli/v3"
)

func cmdAdmin() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Perform common administrative operations",
		Commands: []*cli.Command{
			subcmdUser(),
			subcmdRelation(),
			subcmdServer(),
		},
	}
}

func subcmdUser() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Modify users",
		Commands: []*cli.Command{
			microcmdUserCreate(),
			microcmdUserAddRemote(),
			microcmdUserShow(),
			microcmdUserList(),
			microcmdUserDelete(),
		},
	}
}

func subcmdRelation() *cli.Command {
	return &cli.Command{
		Name:  "relation",
		Usage: "Manage follows and blocks between users",
		Commands: []*cli.Command{
			microcmdRelationFollow(),
			microcmdRelationAccept(),
			microcmdRelationReject(),
			microcmdRelationUnfollow(),
			microcmdRelationBlock(),
			microcmdRelationUnblock(),
		},
	}
}

func subcmdServer() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Manage the instances this one federates with",
		Commands: []*cli.Command{
			microcmdServerList(),
			microcmdServerBlock(),
			microcmdServerUnblock(),
			microcmdServerDelete(),
		},
	}
}
