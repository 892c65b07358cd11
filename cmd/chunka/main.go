// Command chunka loads documents from local sources and splits them
// into chunks.
package main

import (
	"os"

	"github.com/custodia-labs/chunka-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/chunka-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/chunka-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/chunka-cli/internal/loaders"
	"github.com/custodia-labs/chunka-cli/internal/logger"
	"github.com/custodia-labs/chunka-cli/internal/splitters"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	configStore, err := file.NewConfigStore(os.Getenv("CHUNKA_CONFIG_DIR"))
	if err != nil {
		logger.Error("failed to initialise config store: %v", err)
		os.Exit(1)
	}

	store, err := sqlite.NewStore(os.Getenv("CHUNKA_DATA_DIR"))
	if err != nil {
		logger.Error("failed to initialise chunk store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	factory := loaders.NewFactory()
	loaders.RegisterDefaults(factory)

	registry := splitters.NewRegistry()
	splitters.RegisterDefaults(registry)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		LoaderFactory:    factory,
		SplitterRegistry: registry,
		ChunkStore:       store,
		ConfigStore:      configStore,
	})

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
