package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/faizmokh/servicelog/internal/config"
	"github.com/faizmokh/servicelog/internal/files"
	"github.com/faizmokh/servicelog/internal/logging"
	"github.com/faizmokh/servicelog/internal/maintenance"
	"github.com/faizmokh/servicelog/internal/storage"
)

// App bundles the collaborators every command needs. Only Manager is set
// until Open runs.
type App struct {
	Manager *files.Manager
	Config  config.Config
	Logger  *logrus.Logger
	Store   *storage.Store
	Service *maintenance.Service
	DBPath  string

	opts    []maintenance.Option
	closers []io.Closer
}

// NewApp returns an App rooted at manager. Nothing touches disk until Open.
func NewApp(manager *files.Manager, opts ...maintenance.Option) *App {
	return &App{Manager: manager, opts: opts}
}

// Open loads config, starts logging, opens the database, and loads the
// stored record into a fresh Service. Calling it again is a no-op.
func (a *App) Open(ctx context.Context) error {
	if a.Service != nil {
		return nil
	}
	if err := a.Manager.EnsureBase(); err != nil {
		return err
	}

	cfg, err := config.Load(a.Manager.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := logging.New(cfg.LogLevel, a.Manager.Resolve(cfg.LogFile))
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}

	backend, err := storage.OpenSQLite(a.Manager.Resolve(cfg.Database))
	if err != nil {
		_ = logCloser.Close()
		return fmt.Errorf("open database: %w", err)
	}

	store := storage.NewStore(backend, logger)
	opts := append([]maintenance.Option{maintenance.WithLogger(logger)}, a.opts...)
	svc := maintenance.NewService(store, opts...)
	svc.Refresh(ctx)

	logger.WithFields(logrus.Fields{
		"base":     a.Manager.BasePath(),
		"database": backend.Path(),
	}).Debug("servicelog started")

	a.Config = cfg
	a.Logger = logger
	a.Store = store
	a.Service = svc
	a.DBPath = backend.Path()
	a.closers = []io.Closer{backend, logCloser}
	return nil
}

// Close releases the database and the log file.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
