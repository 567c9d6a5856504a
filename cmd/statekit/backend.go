package main

import (
	stderrors "errors"
	"os"

	"github.com/statekit-dev/statekit/internal/config"
	"github.com/statekit-dev/statekit/internal/errors"
	"github.com/statekit-dev/statekit/pkg/storage"
)

// configPath is set by the root --config flag.
var configPath string

// loadConfig reads statekit.json from --config or the working directory,
// falling back to defaults when no file exists.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(wd)
	if err != nil {
		var serr *errors.Error
		if stderrors.As(err, &serr) && serr.Code == "E101" {
			// No config file means defaults: file backend under $HOME.
			return config.New(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// openStore builds the storage backend named by the config. Only local
// backends can be opened from the CLI; redis, sql and s3 need a client
// wired in code.
func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "memory":
		warn("memory backend does not persist across invocations")
		return storage.NewMemoryStore(), nil
	case "null":
		return storage.NewNullStore(), nil
	case "file":
		dir := cfg.FileDir()
		store, err := storage.NewFileStore(dir)
		if err != nil {
			return nil, errors.New("E201").
				WithDetail("could not open file store at " + dir).
				Wrap(err)
		}
		return store, nil
	default:
		return nil, errors.New("E201").
			WithDetail("the " + cfg.Storage.Backend + " backend needs a client constructed in code").
			WithSuggestion("Use the storage package API to wire a " + cfg.Storage.Backend + " client, or switch to the file backend for CLI use")
	}
}
