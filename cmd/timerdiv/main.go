// Command timerdiv finds clock source, prescaler, postscaler and count
// settings for hardware timers.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/timerdiv/internal/adapters/driven/config/file"
	"github.com/custodia-labs/timerdiv/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/timerdiv/internal/adapters/driving/cli"
	"github.com/custodia-labs/timerdiv/internal/core/services"
	"github.com/custodia-labs/timerdiv/internal/logger"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the file and SQLite adapters into the core services.
func bootstrap(configDir string) (*cli.Services, func() error, error) {
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolving config directory: %w", err)
		}
		configDir = dir
	}
	logger.Debug("config directory: %s", configDir)

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("reading settings: %w", err)
	}
	profilesPath := settings.Profiles.Path
	if profilesPath == "" {
		profilesPath = filepath.Join(configDir, "profiles.toml")
	}

	profileStore, err := file.NewProfileStore(profilesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening profiles: %w", err)
	}
	profileService := services.NewProfileService(profileStore)

	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening run history: %w", err)
	}
	logger.Debug("run history: %s", store.Path())

	watch := func(ctx context.Context) (<-chan struct{}, error) {
		w, err := file.Watch(ctx, profileStore.Path(), file.DefaultWatchInterval)
		if err != nil {
			return nil, err
		}
		return w.Changes(), nil
	}

	return &cli.Services{
		Solver:   services.NewSolverService(profileService, settingsService, store.RunStore()),
		Profile:  profileService,
		Display:  services.NewDisplayService(nil),
		Settings: settingsService,
		Watch:    watch,
	}, store.Close, nil
}
