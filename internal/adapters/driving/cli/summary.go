package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary [table]",
	Short: "Show exploratory statistics for a table",
	Long: `Computes counts, rating statistics and tier distribution for one
table. Defaults to the master table when no table is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "output the summary as JSON")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	table := domain.MasterTable
	if len(args) == 1 {
		table = args[0]
	}

	summary, err := queryService.Summary(cmd.Context(), table)
	if err != nil {
		return fmt.Errorf("summary failed: %w", err)
	}

	if summaryJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Table %s:\n", summary.Table)
	cmd.Printf("  Documents:        %d\n", summary.TotalReviews)
	if summary.TotalReviews == 0 {
		return nil
	}
	cmd.Printf("  Rating mean:      %.2f\n", summary.RatingMean)
	cmd.Printf("  Rating range:     %d - %d\n", summary.RatingMin, summary.RatingMax)
	cmd.Printf("  Unique reviewers: %d\n", summary.UniqueReviewers)
	cmd.Printf("  Unique products:  %d\n", summary.UniqueProducts)

	cmd.Println()
	cmd.Println("  Ratings:")
	for rating := 1; rating <= 5; rating++ {
		if n, ok := summary.RatingCounts[rating]; ok {
			cmd.Printf("    %d stars  %d\n", rating, n)
		}
	}

	cmd.Println()
	cmd.Println("  Tiers:")
	tiers := make([]string, 0, len(summary.TierCounts))
	for tier := range summary.TierCounts {
		tiers = append(tiers, tier)
	}
	sort.Strings(tiers)
	for _, tier := range tiers {
		cmd.Printf("    %-18s %d\n", tier, summary.TierCounts[tier])
	}
	return nil
}
