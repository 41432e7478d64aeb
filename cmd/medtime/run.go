package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mavwarf/medtime/internal/daemon"
	"github.com/Mavwarf/medtime/internal/log"
	"github.com/urfave/cli"
)

func runDaemon(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	dir, err := log.ResolveDir(cfg.Options.LogDir)
	if err != nil {
		return err
	}
	logger, closer, err := log.Open(dir, cfg.Options.LogLevel, ctx.App.ErrWriter)
	if err != nil {
		return err
	}
	defer closer.Close()

	svc, err := daemon.New(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	sctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("version", version).Str("storage", cfg.StoragePath()).Msg("medtime daemon started")
	err = svc.Run(sctx)
	logger.Info().Msg("medtime daemon stopped")
	return err
}
