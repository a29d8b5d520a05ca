package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dcsteve24/go-utilities/internal/config"
	"github.com/dcsteve24/go-utilities/internal/log"
)

// loggerName is the shared registry name every subcommand logs under, so
// one process writes one file regardless of which tool ran.
const loggerName = "goutil"

var loadConfigFn = config.Load

type globalFlags struct {
	ConfigPath string
	LogLevel   string
	Console    bool
}

type commandDeps struct {
	out     io.Writer
	globals *globalFlags
}

// setup loads configuration and hands back a logger tagged with a fresh
// run id. Flag overrides beat config values.
func setup(deps commandDeps) (config.Config, *slog.Logger, error) {
	loadOpts := config.LoadOptions{}
	if deps.globals != nil {
		loadOpts.ConfigPath = strings.TrimSpace(deps.globals.ConfigPath)
	}
	cfg, err := loadConfigFn(loadOpts)
	if err != nil {
		return config.Config{}, nil, err
	}

	level := cfg.Logging.Level
	console := cfg.Logging.Console
	if deps.globals != nil {
		if deps.globals.LogLevel != "" {
			level = deps.globals.LogLevel
		}
		if deps.globals.Console {
			console = true
		}
	}

	registry := log.NewRegistry()
	logger, err := registry.Get(loggerName, log.Options{
		File:      cfg.Logging.File,
		Level:     level,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
		Console:   console,
	})
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger.With(slog.String("run_id", uuid.NewString())), nil
}
