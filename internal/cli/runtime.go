package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/waymark-app/waymark/internal/app"
	"github.com/waymark-app/waymark/internal/config"
	"github.com/waymark-app/waymark/internal/location"
	logpkg "github.com/waymark-app/waymark/internal/log"
	"github.com/waymark-app/waymark/internal/report"
	"github.com/waymark-app/waymark/internal/settings"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	ConfigPath  string
	StoragePath string
	StorageKey  string
	LogLevel    string
}

// runtime bundles everything a command needs: the effective config, the
// logger, the open settings backend and the hydrated report service.
type runtime struct {
	cfg       config.Config
	service   *app.ReportService
	backend   *settings.SQLite
	logCloser io.Closer
}

func openRuntime(ctx context.Context, globals *globalOptions) (*runtime, error) {
	opts := config.LoadOptions{Env: configEnv()}
	if globals != nil {
		opts.ConfigPath = globals.ConfigPath
		opts.Flags = config.FlagOverrides{
			StoragePath: &globals.StoragePath,
			StorageKey:  &globals.StorageKey,
			LogLevel:    &globals.LogLevel,
		}
	}
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := logpkg.New(logpkg.Options{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	})
	if err != nil {
		return nil, err
	}

	backend, err := settings.Open(cfg.Storage.Path)
	if err != nil {
		if logCloser != nil {
			_ = logCloser.Close()
		}
		return nil, fmt.Errorf("%w: %v", report.ErrBackendIO, err)
	}

	store := report.NewStore(backend, report.StoreOptions{
		Key:    cfg.Storage.Key,
		Logger: logger,
	})

	var provider location.Provider
	if cfg.Location.Latitude != nil {
		static, err := location.NewStatic(*cfg.Location.Latitude, *cfg.Location.Longitude)
		if err != nil {
			_ = backend.Close()
			if logCloser != nil {
				_ = logCloser.Close()
			}
			return nil, err
		}
		provider = static
	}

	service := app.NewReportService(store, provider, logger)
	if err := service.Load(ctx); err != nil {
		_ = backend.Close()
		if logCloser != nil {
			_ = logCloser.Close()
		}
		return nil, err
	}

	return &runtime{
		cfg:       cfg,
		service:   service,
		backend:   backend,
		logCloser: logCloser,
	}, nil
}

func (r *runtime) Close() {
	if r == nil {
		return
	}
	if r.backend != nil {
		_ = r.backend.Close()
	}
	if r.logCloser != nil {
		_ = r.logCloser.Close()
	}
}

// configEnv narrows the process environment to the variables the config
// layer understands, so tests can pass explicit maps instead.
func configEnv() map[string]string {
	env := map[string]string{}
	for _, key := range []string{
		"WAYMARK_STORAGE_PATH",
		"WAYMARK_STORAGE_KEY",
		"WAYMARK_LOG_LEVEL",
		"WAYMARK_LOG_FILE",
		"WAYMARK_LOCATION",
	} {
		if value, ok := os.LookupEnv(key); ok {
			env[key] = value
		}
	}
	return env
}
