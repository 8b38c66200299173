package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
)

var (
	statsGroupBy string
	statsFunc    string
	statsTarget  string
	statsJSON    bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [table]",
	Short: "Aggregate a table by a grouping field",
	Long: `Groups the table's documents by a field and applies an aggregate
function over a target field. Groups with no usable target values are
reported as no_data rather than zero.

  reviewlens stats reviews --group-by commercial_segment --func avg --target rating
  reviewlens stats books --group-by rating_tier --func count`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsGroupBy, "group-by", "", "field to group by (required)")
	statsCmd.Flags().StringVar(&statsFunc, "func", "avg", "aggregate function: avg or count")
	statsCmd.Flags().StringVar(&statsTarget, "target", "rating", "field the function applies to")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output results as JSON")
	statsCmd.MarkFlagRequired("group-by")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	fn, err := domain.ParseAggregateFunc(statsFunc)
	if err != nil {
		return err
	}

	result, err := queryService.Aggregate(cmd.Context(), args[0], statsGroupBy, fn, statsTarget)
	if err != nil {
		return fmt.Errorf("aggregate failed: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(result) == 0 {
		cmd.Println("No groups.")
		return nil
	}

	groups := make([]string, 0, len(result))
	for group := range result {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	cmd.Printf("%s of %s by %s:\n", fn, statsTarget, statsGroupBy)
	for _, group := range groups {
		cmd.Printf("  %-24s %s\n", group, result[group])
	}
	return nil
}
