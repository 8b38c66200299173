package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show store tables and build metadata",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, _ []string) error {
	if reviewStore == nil {
		return errors.New("store not configured")
	}

	tables, err := reviewStore.Tables(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing tables failed: %w", err)
	}

	cmd.Println("Tables:")
	if len(tables) == 0 {
		cmd.Println("  (none; run build first)")
	}
	for _, table := range tables {
		cmd.Printf("  %s\n", table)
	}

	meta, err := reviewStore.GetMetadata(cmd.Context())
	if errors.Is(err, domain.ErrNoMetadata) {
		cmd.Println()
		cmd.Println("No build metadata; the store has not been built.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading metadata failed: %w", err)
	}

	cmd.Println()
	cmd.Printf("Build %s at %s\n", meta.BuildID, meta.BuiltAt)
	cmd.Printf("  Documents:  %d\n", meta.RecordCount)
	cmd.Printf("  Categories: %d\n", len(meta.Categories))
	for _, category := range meta.Categories {
		cmd.Printf("    %s\n", category)
	}
	return nil
}
