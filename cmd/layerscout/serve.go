package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/poiesic/layerscout"
	"github.com/poiesic/layerscout/api"
	"github.com/urfave/cli/v2"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve search sessions over HTTP",
		Action: serveAction,
		Flags: []cli.Flag{
			catalogFlag(),
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (overrides server.addr)",
			},
		},
	}
}

func serveAction(c *cli.Context) error {
	cfg := configFrom(c)
	applyCatalogFlag(c, cfg)
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ws, err := layerscout.New(cfg.Catalog.Path, workspaceOptions(cfg)...)
	if err != nil {
		return err
	}
	defer func() {
		if err := ws.Close(); err != nil {
			slog.Error("workspace close error", "error", err)
		}
	}()

	// Sessions report the catalog as not ready until this finishes.
	go func() {
		if err := ws.Load(ctx); err != nil {
			slog.Error("catalog load failed", "error", err)
			cancel()
		}
	}()

	handler, err := api.NewHandler(ws,
		api.WithLogger(slog.Default()),
		api.WithBasemap(cfg.Export.Basemap),
		api.WithVersion(version),
	)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(handler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	go func() {
		slog.Info("server starting", "address", cfg.Server.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
