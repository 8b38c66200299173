// Command reviewlens builds and queries a review document store.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	configfile "github.com/reviewlens/reviewlens-cli/internal/adapters/driven/config/file"
	"github.com/reviewlens/reviewlens-cli/internal/adapters/driven/storage/memory"
	"github.com/reviewlens/reviewlens-cli/internal/adapters/driven/storage/sqlite"
	"github.com/reviewlens/reviewlens-cli/internal/adapters/driving/cli"
	"github.com/reviewlens/reviewlens-cli/internal/core/ports/driven"
	"github.com/reviewlens/reviewlens-cli/internal/core/services"
)

func main() {
	var store driven.ReviewStore

	cli.SetBootstrap(func(configPath, backend, dataDir string) error {
		cfg, err := configfile.Load(configPath)
		if err != nil {
			return err
		}

		store, err = openStore(backend, dataDir)
		if err != nil {
			return err
		}

		cli.SetServices(cfg, store,
			services.NewPipeline(cfg, store),
			services.NewQueryEngine(cfg, store),
			services.NewSampler(cfg, store))
		return nil
	})

	err := cli.Execute()
	if store != nil {
		store.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openStore(backend, dataDir string) (driven.ReviewStore, error) {
	var store driven.ReviewStore
	var err error
	switch backend {
	case "", "json", "memory":
		store, err = memory.NewStore(dataDir)
	case "sqlite":
		store, err = sqlite.NewStore(dataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
	if err != nil {
		return nil, err
	}

	// An unbuilt store simply starts empty.
	if err := store.Load(context.Background()); err != nil && !errors.Is(err, os.ErrNotExist) {
		store.Close()
		return nil, err
	}
	return store, nil
}
