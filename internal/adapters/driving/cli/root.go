// Package cli provides the command-line interface for chunka.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/chunka-cli/internal/core/ports/driven"
	"github.com/custodia-labs/chunka-cli/internal/loaders"
	"github.com/custodia-labs/chunka-cli/internal/logger"
	"github.com/custodia-labs/chunka-cli/internal/splitters"
)

// version is set at build time via ldflags.
var version = "dev"

// verbose enables debug output.
var verbose bool

// Wired application dependencies, injected by main before Execute.
var (
	loaderFactory    *loaders.Factory
	splitterRegistry *splitters.Registry
	chunkStore       driven.ChunkStore
	configStore      driven.ConfigStore
)

var rootCmd = &cobra.Command{
	Use:   "chunka",
	Short: "Load documents and split them into chunks",
	Long: `Chunka loads documents from local sources (CSV, JSON, directories)
and splits them into overlapping chunks ready for indexing or embedding.

Chunks carry their parent document's metadata plus their position, so
downstream consumers can always trace a chunk back to its origin.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services carries the wired application dependencies.
type Services struct {
	LoaderFactory    *loaders.Factory
	SplitterRegistry *splitters.Registry
	ChunkStore       driven.ChunkStore
	ConfigStore      driven.ConfigStore
}

// SetServices injects application dependencies into the CLI.
// Must be called before Execute.
func SetServices(s Services) {
	loaderFactory = s.LoaderFactory
	splitterRegistry = s.SplitterRegistry
	chunkStore = s.ChunkStore
	configStore = s.ConfigStore
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
