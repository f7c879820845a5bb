// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fedireads.org/models/db"
	"fedireads.org/modules/json"
	"fedireads.org/modules/keypair"
	"fedireads.org/modules/log"
	"fedireads.org/modules/setting"
	user_service "fedireads.org/services/user"

	"github.com/urfave/cli/v3"
)

// argsSet checks that all the required arguments are set. args is a list of
// arguments that must be set in the passed Context.
func argsSet(c *cli.Command, args ...string) error {
	for _, a := range args {
		if !c.IsSet(a) {
			return errors.New(a + " is not set")
		}
	}
	return nil
}

// initDB loads the settings and connects to the database. Tests replace it
// to run the commands against their own engine.
var initDB = func(ctx context.Context) error {
	if err := setting.LoadSettings(); err != nil {
		return fmt.Errorf("unable to load settings from %s: %w", setting.CustomConf, err)
	}
	if err := db.InitEngine(ctx); err != nil {
		return fmt.Errorf("unable to initialize the database using the configuration in %q: %w", setting.CustomConf, err)
	}
	return nil
}

func installSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		log.Trace("Command context done: %v", context.Cause(ctx))
	}()
	return ctx, cancel
}

// identityConfig is the identity of this instance as configured.
func identityConfig() user_service.IdentityConfig {
	return user_service.IdentityConfig{
		Domain:    setting.Federation.Domain,
		Generator: keypair.RSAGenerator{Bits: setting.Federation.RSABits},
	}
}

func writeJSON(w io.Writer, v any) error {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	return enc.Encode(v)
}
