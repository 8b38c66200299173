// Package file loads the pipeline configuration from a TOML file,
// layered over the built-in defaults. A missing file is not an error;
// the defaults stand alone.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
)

// DefaultPath returns the conventional config location,
// ~/.reviewlens/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".reviewlens", "config.toml"), nil
}

// Load reads the TOML file at path over the defaults. Keys absent
// from the file keep their default values. An empty path uses
// DefaultPath.
func Load(path string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func validate(cfg domain.Config) error {
	if len(cfg.Categories) == 0 {
		return errors.New("categories must not be empty")
	}
	if cfg.Thresholds.Good > cfg.Thresholds.Excellent {
		return fmt.Errorf("threshold good (%.1f) exceeds excellent (%.1f)",
			cfg.Thresholds.Good, cfg.Thresholds.Excellent)
	}
	for _, category := range cfg.Categories {
		table, ok := cfg.TableFor(category)
		if !ok {
			return fmt.Errorf("category %q has no table mapping", category)
		}
		if table == domain.MasterTable || table == domain.MetadataTable {
			return fmt.Errorf("category %q maps to reserved table %q", category, table)
		}
	}
	return nil
}
