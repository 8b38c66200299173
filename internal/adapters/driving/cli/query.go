package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
)

var (
	queryWhere []string
	queryJSON  bool
	queryLimit int
)

var queryCmd = &cobra.Command{
	Use:   "query [table]",
	Short: "Filter documents in a table",
	Long: `Returns the documents in a table matching every --where condition,
in insertion order.

A condition is written field:op:value, where op is one of eq, gte,
lte or in. For in, the value is a comma-separated list:

  reviewlens query books --where rating:gte:4 --where category:eq:Books
  reviewlens query reviews --where rating_tier:in:excellent,good`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringArrayVar(&queryWhere, "where", nil, "filter condition field:op:value (repeatable, conjunctive)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "maximum number of results (0 = all)")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	conditions, err := parseConditions(queryWhere)
	if err != nil {
		return err
	}

	results, err := queryService.Filter(cmd.Context(), args[0], conditions)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryLimit > 0 && len(results) > queryLimit {
		results = results[:queryLimit]
	}

	if queryJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No documents matched.")
		return nil
	}

	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s / %s  rating=%d  %s  (%s)\n",
			i+1, r.ReviewerID, r.ProductID, r.Rating, r.RatingTier, r.Timestamp)
		text := r.ReviewText
		if len(text) > 120 {
			text = text[:120] + "..."
		}
		if text != "" {
			cmd.Printf("      %s\n", text)
		}
	}
	cmd.Println()
	cmd.Printf("%d documents\n", len(results))
	return nil
}

// parseConditions converts field:op:value triples into conditions.
// Numeric-looking values compare numerically.
func parseConditions(triples []string) ([]domain.Condition, error) {
	conditions := make([]domain.Condition, 0, len(triples))
	for _, triple := range triples {
		parts := strings.SplitN(triple, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
			return nil, fmt.Errorf("invalid condition %q, want field:op:value", triple)
		}

		op, err := domain.ParseOperator(parts[1])
		if err != nil {
			return nil, err
		}

		var value any
		if op == domain.OpInSet {
			items := strings.Split(parts[2], ",")
			set := make([]any, 0, len(items))
			for _, item := range items {
				set = append(set, conditionValue(strings.TrimSpace(item)))
			}
			value = set
		} else {
			value = conditionValue(parts[2])
		}

		conditions = append(conditions, domain.Condition{Field: parts[0], Op: op, Value: value})
	}
	return conditions, nil
}

func conditionValue(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
