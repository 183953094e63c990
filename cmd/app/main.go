package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parceltrack/cmd"
	"parceltrack/internal/adapters/out/postgres"
	"parceltrack/internal/adapters/out/postgres/migrations"
	"parceltrack/internal/pkg/logger"

	"github.com/labstack/gommon/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	app := &cli.App{
		Name:  "parceltrack",
		Usage: "parcel courier backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file loaded before reading the environment",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API, live tracking and background jobs",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "manage the database schema",
				Subcommands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "apply all pending migrations",
						Action: migrateUp,
					},
					{
						Name:  "down",
						Usage: "roll back migrations",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
						},
						Action: migrateDown,
					},
					{
						Name:   "version",
						Usage:  "print the current schema version",
						Action: migrateVersion,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("parceltrack: %v", err)
	}
}

func loadConfig(c *cli.Context) (cmd.Config, error) {
	cfg, err := cmd.LoadConfig(c.String("env-file"))
	if err != nil {
		return cmd.Config{}, err
	}
	return cfg, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLogger := logger.New(cfg.LogLevel)

	mainCtx, mainCancel := context.WithCancel(c.Context)
	defer mainCancel()

	db, err := postgres.Open(cfg.Database().DSN())
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	root, err := cmd.NewCompositionRoot(mainCtx, cfg, db, appLogger)
	if err != nil {
		return err
	}
	defer root.Close()

	jobManager := root.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return fmt.Errorf("start jobs: %w", err)
	}
	defer jobManager.StopAll()

	e := root.CreateHTTPServer().Router()

	g, groupCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		addr := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
		appLogger.Info("HTTP server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-groupCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(ctx)
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case sig := <-stop:
		appLogger.Info("shutdown signal received", "signal", sig.String())
	case <-groupCtx.Done():
		appLogger.Warn("server stopped unexpectedly")
	}
	mainCancel()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	appLogger.Info("shutdown complete")
	return nil
}

func migrateUp(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	return migrations.Up(cfg.Database().URL())
}

func migrateDown(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	return migrations.Down(cfg.Database().URL(), c.Int("steps"))
}

func migrateVersion(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	version, dirty, err := migrations.Version(cfg.Database().URL())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "version %d (dirty: %t)\n", version, dirty)
	return nil
}
