package main

import (
	"database/sql"
	"fmt"

	"github.com/Mavwarf/medtime/internal/config"
	"github.com/Mavwarf/medtime/internal/db"
	"github.com/Mavwarf/medtime/internal/eventlog"
	"github.com/Mavwarf/medtime/internal/log"
	"github.com/Mavwarf/medtime/internal/medicine"
	"github.com/Mavwarf/medtime/internal/paths"
	"github.com/Mavwarf/medtime/internal/settings"
	"github.com/Mavwarf/medtime/internal/silent"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

// env holds the stores a one-shot command works with.
type env struct {
	cfg       config.Config
	log       zerolog.Logger
	db        *sql.DB
	medicines *medicine.SQLiteStore
	history   *eventlog.SQLiteStore
	settings  *settings.Store
	mute      *silent.Mute
}

func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg, err := config.Load(ctx.GlobalString("config"))
	if err != nil {
		return config.Config{}, err
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openEnv(ctx *cli.Context) (*env, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	conn, err := db.Open(cfg.StoragePath())
	if err != nil {
		return nil, err
	}
	e := &env{
		cfg: cfg,
		log: log.New(ctx.App.ErrWriter, cfg.Options.LogLevel),
		db:  conn,
	}
	if e.medicines, err = medicine.NewSQLiteStore(conn); err != nil {
		conn.Close()
		return nil, err
	}
	if e.history, err = eventlog.NewSQLiteStore(conn); err != nil {
		conn.Close()
		return nil, err
	}
	e.settings = settings.NewStore(afero.NewOsFs(), cfg.DataFile(paths.SettingsFileName), e.log)
	e.mute = silent.New(cfg.DataFile(paths.SilentFileName))
	return e, nil
}

func (e *env) Close() error {
	return e.db.Close()
}

// withEnv adapts a command body that needs the stores to a cli action.
func withEnv(fn func(ctx *cli.Context, e *env) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(ctx, e)
	}
}
