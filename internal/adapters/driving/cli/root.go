// Package cli wires the cobra commands to the core services. Commands
// hold no logic beyond flag parsing and output formatting; the
// services are injected by the composition root via SetServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
	"github.com/reviewlens/reviewlens-cli/internal/core/ports/driven"
	"github.com/reviewlens/reviewlens-cli/internal/core/ports/driving"
	"github.com/reviewlens/reviewlens-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by the composition root. Tests substitute these
// directly.
var (
	cfg             domain.Config
	reviewStore     driven.ReviewStore
	pipelineService driving.PipelineService
	queryService    driving.QueryService
	exportService   driving.ExportService
)

// Bootstrap receives the parsed global flags and is expected to call
// SetServices. The composition root installs it via SetBootstrap;
// tests bypass it by calling SetServices directly.
type Bootstrap func(configPath, backend, dataDir string) error

var bootstrap Bootstrap

var (
	verbose    bool
	configPath string
	backend    string
	dataDir    string
)

var rootCmd = &cobra.Command{
	Use:   "reviewlens",
	Short: "Build and query a review document store",
	Long: `reviewlens turns raw line-delimited review dumps into a queryable
document store. A build run validates, cleans, deduplicates and
enriches the raw records, then loads them into per-category tables
plus a master table. The query commands filter, aggregate and
summarise the loaded documents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if pipelineService != nil || bootstrap == nil {
			return nil
		}
		return bootstrap(configPath, backend, dataDir)
	},
}

func init() {
	cfg = domain.DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose progress output")
	pf.StringVar(&configPath, "config", "", "config file (default ~/.reviewlens/config.toml)")
	pf.StringVar(&backend, "backend", "json", "storage backend: json or sqlite")
	pf.StringVar(&dataDir, "data-dir", "", "data directory (default ~/.reviewlens/data)")
}

// SetBootstrap installs the wiring function run before any command.
func SetBootstrap(f Bootstrap) {
	bootstrap = f
}

// SetServices injects the configuration and services the commands use.
func SetServices(
	c domain.Config,
	store driven.ReviewStore,
	pipeline driving.PipelineService,
	query driving.QueryService,
	export driving.ExportService,
) {
	cfg = c
	reviewStore = store
	pipelineService = pipeline
	queryService = query
	exportService = export
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
