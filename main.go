/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/medidash/cmd"
)

func main() {
	app := &cli.Command{
		Name:  "medidash",
		Usage: "MediDash - Clinical Intelligence Platform",
		Commands: []*cli.Command{
			cmd.CmdStart,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
