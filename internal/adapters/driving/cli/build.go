package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/reviewlens/reviewlens-cli/internal/adapters/driven/source/jsonl"
	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
	"github.com/reviewlens/reviewlens-cli/internal/core/ports/driven"
)

var (
	buildSources []string
	buildJSON    bool
)

var buildCmd = &cobra.Command{
	Use:   "build [data-dir]",
	Short: "Run the full pipeline and load the store",
	Long: `Rebuilds the document store from raw line-delimited JSON dumps.

Without flags, each configured category is read from
<data-dir>/<Category>.json (or .json.gz). Individual files can be
mapped explicitly with --source Category=path, which also skips the
directory scan for that category.

A build replaces the previous store contents entirely.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringArrayVar(&buildSources, "source", nil, "explicit Category=path source mapping (repeatable)")
	buildCmd.Flags().BoolVar(&buildJSON, "json", false, "output the build report as JSON")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	dataDir := "."
	if len(args) == 1 {
		dataDir = args[0]
	}

	sources, err := resolveSources(dataDir, buildSources)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no source files found in %s", dataDir)
	}
	defer func() {
		for _, src := range sources {
			src.Close()
		}
	}()

	report, err := pipelineService.Build(cmd.Context(), sources)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if buildJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printReport(cmd, report)
	return nil
}

// resolveSources maps categories to files: explicit --source flags
// first, then a scan of dataDir for the remaining categories. A
// category with no file present is simply skipped.
func resolveSources(dataDir string, explicit []string) ([]driven.RecordSource, error) {
	paths := make(map[string]string)
	for _, mapping := range explicit {
		category, path, ok := strings.Cut(mapping, "=")
		if !ok || category == "" || path == "" {
			return nil, fmt.Errorf("invalid --source mapping %q, want Category=path", mapping)
		}
		if !cfg.KnownCategory(category) {
			return nil, fmt.Errorf("unknown category %q in --source mapping", category)
		}
		paths[category] = path
	}

	for _, category := range cfg.Categories {
		if _, ok := paths[category]; ok {
			continue
		}
		for _, name := range []string{category + ".json", category + ".json.gz"} {
			candidate := filepath.Join(dataDir, name)
			if _, err := os.Stat(candidate); err == nil {
				paths[category] = candidate
				break
			}
		}
	}

	categories := make([]string, 0, len(paths))
	for category := range paths {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	sources := make([]driven.RecordSource, 0, len(categories))
	for _, category := range categories {
		src, err := jsonl.NewSource(category, paths[category])
		if err != nil {
			for _, open := range sources {
				open.Close()
			}
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func printReport(cmd *cobra.Command, report *domain.BuildReport) {
	cmd.Printf("Build %s complete in %s\n", report.BuildID, report.Elapsed.Round(time.Millisecond))
	cmd.Println()
	cmd.Printf("  Records read:      %d\n", report.RecordsRead)
	cmd.Printf("  Accepted:          %d\n", report.Accepted)
	cmd.Printf("  Duplicates:        %d\n", report.Duplicates)
	cmd.Printf("  Rejected:          %d\n", report.TotalRejected())
	cmd.Printf("  Conversion errors: %d\n", report.ConversionErrors)
	cmd.Printf("  Source errors:     %d\n", report.SourceErrors)

	if len(report.Rejected) > 0 {
		cmd.Println()
		cmd.Println("  Rejections by reason:")
		reasons := make([]string, 0, len(report.Rejected))
		for reason := range report.Rejected {
			reasons = append(reasons, string(reason))
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			cmd.Printf("    %-24s %d\n", reason, report.Rejected[domain.RejectReason(reason)])
		}
	}

	if len(report.Inserted) > 0 {
		cmd.Println()
		cmd.Println("  Inserted by table:")
		tables := make([]string, 0, len(report.Inserted))
		for table := range report.Inserted {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		for _, table := range tables {
			cmd.Printf("    %-24s %d\n", table, report.Inserted[table])
		}
	}
}
