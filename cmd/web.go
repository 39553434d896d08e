/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/medidash/predict"
	"github.com/humaidq/medidash/routes"
	"github.com/humaidq/medidash/static"
	"github.com/humaidq/medidash/templates"
)

var CmdStart = &cli.Command{
	Name:    "start",
	Aliases: []string{"run"},
	Usage:   "Start the web client",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "port",
			Value: "8080",
			Usage: "the web server port",
		},
		&cli.StringFlag{
			Name:    "api-url",
			Sources: cli.EnvVars("API_URL"),
			Value:   "http://localhost:8000",
			Usage:   "base URL of the prediction service",
		},
		&cli.BoolFlag{
			Name:  "dev",
			Value: false,
			Usage: "enables development mode (for templates)",
		},
	},
	Action: start,
}

func start(ctx context.Context, cmd *cli.Command) (err error) {
	// Optional .env file; system environment wins when the file is absent.
	if err := godotenv.Load(); err != nil {
		appLogger.Debug("No .env file found, using system environment")
	}

	apiURL := cmd.String("api-url")
	client := predict.NewClient(apiURL)

	// The monitor polls the health probe for the whole server lifetime and
	// is torn down with the command context.
	monitorCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	monitor := predict.NewMonitor(client, predict.DefaultPollInterval)
	monitor.Start(monitorCtx)
	appLogger.Info("Availability monitor started", "api_url", apiURL)

	f := flamego.Classic()

	// Setup flamego
	fs, err := template.EmbedFS(templates.Templates, ".", []string{".html"})
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	f.Use(session.Sessioner())
	f.Use(csrf.Csrfer())
	f.Use(template.Templater(template.Options{
		FileSystem: fs,
	}))
	f.Use(flamego.Static(flamego.StaticOptions{
		FileSystem: http.FS(static.Static),
	}))

	f.Map(client)
	f.Map(monitor)

	f.Use(routes.NoCacheHeaders())
	f.Use(routes.RequestLogger)
	f.Use(routes.CSRFInjector())
	f.Use(routes.ClinicianContextInjector())

	// Public routes (no session required)
	f.Get("/", routes.LandingForm)
	f.Post("/login", routes.Login)
	f.Get("/api/status", routes.APIStatus)
	f.Post("/api/status/retry", routes.APIStatusRetry)

	// Protected workflow (requires a session record)
	f.Group("", func() {
		f.Get("/logout", routes.Logout)
		f.Get("/dashboard", routes.Dashboard)
		f.Post("/dashboard/predict", routes.Predict)
		f.Post("/dashboard/batch", routes.BatchUpload)
		f.Get("/dashboard/template.csv", routes.DownloadCSVTemplate)
	}, routes.RequireClinician)

	port := cmd.String("port")

	appLogger.Info("Starting web server", "port", port)
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%s", port),
		Handler:      f,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return srv.ListenAndServe()
}
