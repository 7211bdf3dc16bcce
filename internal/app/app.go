package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/hance08/wren/internal/config"
	"github.com/hance08/wren/internal/finance"
	"github.com/hance08/wren/internal/queue"
	"github.com/hance08/wren/internal/service"
	"github.com/hance08/wren/internal/snapshot"
	"github.com/hance08/wren/internal/store"
	"github.com/hance08/wren/internal/syncer"
)

// API is everything the application needs from the remote side.
type API interface {
	syncer.API
	service.Previewer
}

type App struct {
	Service *service.Service
	Store   store.Repository
	Logger  *log.Logger
}

// NewApp initialize config, database and core logic, then return App entity
func NewApp(cfg *config.Config, migrationFS fs.FS, logger *log.Logger, notifier syncer.Notifier) (*App, func(), error) {
	dbPath, err := DatabasePath(cfg)
	if err != nil {
		return nil, nil, err
	}

	dbStore, err := store.NewStore(dbPath, migrationFS)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	api, err := newAPI(cfg, logger)
	if err != nil {
		_ = dbStore.Close()
		return nil, nil, err
	}

	q := queue.New(dbStore, queue.WithLogger(logger))
	coord := syncer.New(
		syncer.Config{AccountConcurrency: cfg.Sync.AccountConcurrency},
		api,
		snapshot.NewStore(dbStore),
		q,
		syncer.WithLogger(logger),
		syncer.WithNotifier(notifier),
	)

	svc := service.NewService(cfg, coord, q, api)

	cleanup := func() {
		if err := dbStore.Close(); err != nil {
			logger.Error("failed to close database", "err", err)
		}
	}

	return &App{
		Service: svc,
		Store:   dbStore,
		Logger:  logger,
	}, cleanup, nil
}

func newAPI(cfg *config.Config, logger *log.Logger) (API, error) {
	if cfg.Server.BaseURL == "" {
		logger.Warn("server.base_url is not set, working offline")
		return finance.Disconnected{Reason: "server.base_url is not configured"}, nil
	}

	client, err := finance.NewClient(
		finance.Config{
			BaseURL:   cfg.Server.BaseURL,
			Token:     cfg.Server.Token,
			Timeout:   cfg.Server.Timeout,
			RateLimit: cfg.Sync.SubmitRate,
		},
		finance.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// DatabasePath resolves the configured database path, defaulting to
// wren.db in the application data directory.
func DatabasePath(cfg *config.Config) (string, error) {
	if cfg.Database.Path != "" {
		return ExpandPath(cfg.Database.Path)
	}

	appDir, err := AppDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, "wren.db"), nil
}

func AppDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, ".wren"), nil
	}

	return filepath.Join(configDir, "wren"), nil
}

func ExpandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	if path[1] == '/' || path[1] == '\\' {
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
