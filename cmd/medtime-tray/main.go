// medtime-tray runs the reminder daemon behind a system tray icon.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/Mavwarf/medtime/internal/config"
	"github.com/Mavwarf/medtime/internal/daemon"
	"github.com/Mavwarf/medtime/internal/log"
	"github.com/energye/systray"
)

func main() {
	configPath := ""
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config", "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "medtime-tray: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "medtime-tray: %v\n", err)
		os.Exit(1)
	}

	dir, err := log.ResolveDir(cfg.Options.LogDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "medtime-tray: %v\n", err)
		os.Exit(1)
	}
	logger, closer, err := log.Open(dir, cfg.Options.LogLevel, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "medtime-tray: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	svc, err := daemon.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "medtime-tray: %v\n", err)
		os.Exit(1)
	}
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := svc.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("daemon stopped")
			systray.Quit()
		}
	}()

	// systray's hidden window and message loop must share one OS thread.
	runtime.LockOSThread()
	t := &tray{svc: svc, log: logger}
	systray.Run(t.onReady, cancel)
}
