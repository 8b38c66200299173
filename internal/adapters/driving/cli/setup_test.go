package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reviewlens/reviewlens-cli/internal/adapters/driven/storage/memory"
	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
	"github.com/reviewlens/reviewlens-cli/internal/core/services"
)

// setupTestServices wires real services over a fresh in-memory store
// and returns a cleanup restoring the previous wiring.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	oldCfg := cfg
	oldStore := reviewStore
	oldPipeline := pipelineService
	oldQuery := queryService
	oldExport := exportService

	c := domain.DefaultConfig()
	store, err := memory.NewStore(t.TempDir())
	require.NoError(t, err)

	SetServices(c, store,
		services.NewPipeline(c, store),
		services.NewQueryEngine(c, store),
		services.NewSampler(c, store))

	return func() {
		cfg = oldCfg
		reviewStore = oldStore
		pipelineService = oldPipeline
		queryService = oldQuery
		exportService = oldExport
	}
}

// seedStore inserts a handful of documents directly.
func seedStore(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, reviewStore.CreateTable(ctx, domain.MasterTable))
	require.NoError(t, reviewStore.CreateTable(ctx, "books"))

	for _, r := range []domain.Review{
		{
			ReviewerID: "A1", ProductID: "B1", Rating: 5,
			ReviewText: "Wonderful book.", Timestamp: "2014-01-02",
			Category: "Books", CommercialSegment: domain.SegmentEntertainment,
			RatingTier: domain.TierExcellent,
		},
		{
			ReviewerID: "A2", ProductID: "B2", Rating: 2,
			ReviewText: "Pages fell out.", Timestamp: "2014-02-03",
			Category: "Books", CommercialSegment: domain.SegmentEntertainment,
			RatingTier: domain.TierNeedsImprovement,
		},
	} {
		require.NoError(t, reviewStore.Insert(ctx, "books", r))
	}
}

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
