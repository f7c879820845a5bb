// Copyright 2018 The Gitea Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"

	"fedireads.org/models/db"
	"fedireads.org/modules/log"
	"fedireads.org/modules/setting"

	"github.com/urfave/cli/v3"
)

// cmdMigrate represents the available migrate sub-command.
func cmdMigrate() *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Usage:       "Migrate the database",
		Description: "This is a command for creating or updating the database tables, so that you can run 'fedireads admin user create' afterwards.",
		Action:      runMigrate,
	}
}

func runMigrate(ctx context.Context, _ *cli.Command) error {
	ctx, cancel := installSignals(ctx)
	defer cancel()

	if err := setting.LoadSettings(); err != nil {
		return fmt.Errorf("unable to load settings from %s: %w", setting.CustomConf, err)
	}

	log.Info("Configuration file: %s", setting.CustomConf)
	log.Info("Database: %s", setting.Database.Type)
	log.Info("Domain: %s", setting.Federation.Domain)

	if err := db.InitEngineWithMigration(ctx); err != nil {
		log.Error("Failed to initialize ORM engine: %v", err)
		return err
	}
	return nil
}
