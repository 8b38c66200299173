package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
	"github.com/reviewlens/reviewlens-cli/internal/core/ports/driven"
)

func record(reviewer, product string, rating float64) domain.RawRecord {
	rec := validRecord()
	rec["reviewerID"] = reviewer
	rec["asin"] = product
	rec["overall"] = rating
	return rec
}

func TestPipeline_Build(t *testing.T) {
	store := newMockStore()
	p := NewPipeline(domain.DefaultConfig(), store)

	empty := record("A3", "P3", 4)
	empty["reviewText"] = "   "
	missing := record("A4", "P4", 4)
	delete(missing, "unixReviewTime")
	badTime := record("A5", "P5", 4)
	badTime["unixReviewTime"] = float64(-7)

	sources := []driven.RecordSource{
		&mockSource{
			category: "Books",
			records: []domain.RawRecord{
				record("A", "P1", 5),
				record("A", "P1", 1), // duplicate key, first occurrence wins
				empty,
				missing,
				badTime,
			},
			errs: []error{errors.New("line 12: unexpected end of JSON input")},
		},
		&mockSource{
			category: "Video_Games",
			records:  []domain.RawRecord{record("B", "P2", 4)},
		},
	}

	report, err := p.Build(context.Background(), sources)
	require.NoError(t, err)

	assert.Equal(t, 6, report.RecordsRead)
	assert.Equal(t, 2, report.Accepted)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 1, report.ConversionErrors)
	assert.Equal(t, 1, report.SourceErrors)
	assert.Equal(t, 1, report.Rejected[domain.RejectEmptyReviewText])
	assert.Equal(t, 1, report.Rejected[domain.RejectMissingField])
	assert.Equal(t, map[string]int{"books": 1, "video_games": 1}, report.Inserted)
	assert.NotEmpty(t, report.BuildID)

	// The first occurrence of the duplicated key is the one stored.
	books, err := store.GetAll(context.Background(), "books")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, 5, books[0].Rating)
	assert.Equal(t, domain.TierExcellent, books[0].RatingTier)
	assert.Equal(t, domain.SegmentEntertainment, books[0].CommercialSegment)

	master, err := store.GetAll(context.Background(), domain.MasterTable)
	require.NoError(t, err)
	assert.Len(t, master, 2)

	meta, err := store.GetMetadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, meta.RecordCount)
	assert.Equal(t, report.BuildID, meta.BuildID)
	assert.Equal(t, domain.DefaultConfig().Categories, meta.Categories)

	assert.Equal(t, 1, store.resetCalls)
	assert.Equal(t, 1, store.persistCalls)
}

func TestPipeline_Build_UnknownCategory(t *testing.T) {
	store := newMockStore()
	p := NewPipeline(domain.DefaultConfig(), store)

	_, err := p.Build(context.Background(), []driven.RecordSource{
		&mockSource{category: "Gift_Cards"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Gift_Cards")

	// Refused before touching the store.
	assert.Equal(t, 0, store.resetCalls)
}

func TestPipeline_Build_DedupSpansSources(t *testing.T) {
	store := newMockStore()
	p := NewPipeline(domain.DefaultConfig(), store)

	// The same key appearing under two categories is still one
	// document; the master table's key is global.
	sources := []driven.RecordSource{
		&mockSource{category: "Books", records: []domain.RawRecord{record("A", "P1", 5)}},
		&mockSource{category: "Video_Games", records: []domain.RawRecord{record("A", "P1", 2)}},
	}

	report, err := p.Build(context.Background(), sources)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Accepted)
	assert.Equal(t, 1, report.Duplicates)

	games, err := store.GetAll(context.Background(), "video_games")
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestPipeline_Build_StoreFailureAborts(t *testing.T) {
	store := newMockStore()
	store.insertErr = errors.New("disk full")
	p := NewPipeline(domain.DefaultConfig(), store)

	_, err := p.Build(context.Background(), []driven.RecordSource{
		&mockSource{category: "Books", records: []domain.RawRecord{record("A", "P1", 5)}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 0, store.persistCalls)
}

// stalledSource never produces anything, so only cancellation can end
// the build.
type stalledSource struct{}

func (stalledSource) Category() string { return "Books" }
func (stalledSource) Records(context.Context) (<-chan domain.RawRecord, <-chan error) {
	return make(chan domain.RawRecord), make(chan error)
}
func (stalledSource) Close() error { return nil }

func TestPipeline_Build_ContextCancelled(t *testing.T) {
	store := newMockStore()
	p := NewPipeline(domain.DefaultConfig(), store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Build(ctx, []driven.RecordSource{stalledSource{}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_Build_EmptySources(t *testing.T) {
	store := newMockStore()
	p := NewPipeline(domain.DefaultConfig(), store)

	report, err := p.Build(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.RecordsRead)

	// Tables exist even when nothing was inserted.
	names, err := store.Tables(context.Background())
	require.NoError(t, err)
	assert.Contains(t, names, domain.MasterTable)
	assert.Contains(t, names, "books")

	meta, err := store.GetMetadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, meta.RecordCount)
}
