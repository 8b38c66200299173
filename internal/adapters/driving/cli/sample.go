package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample [output-path]",
	Short: "Export a representative sample of the store",
	Long: `Writes up to the configured per-category document count from each
category table to a JSON file, insertion order preserved. Defaults to
sample.json in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}

	path := "sample.json"
	if len(args) == 1 {
		path = args[0]
	}

	n, err := exportService.Export(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("sample export failed: %w", err)
	}

	cmd.Printf("Exported %d documents to %s\n", n, path)
	return nil
}
