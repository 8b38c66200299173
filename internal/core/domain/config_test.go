package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_SegmentFor(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		category string
		want     string
	}{
		{"Books", SegmentEntertainment},
		{"Video_Games", SegmentEntertainment},
		{"Movies_and_TV", SegmentEntertainment},
		{"Home_and_Kitchen", SegmentHome},
		{"Tools_and_Home_Improvement", SegmentHome},
		{"Patio_Lawn_and_Garden", SegmentHome},
		{"Electronics", SegmentOther},
		{"", SegmentOther},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.SegmentFor(tt.category))
		})
	}
}

func TestConfig_TierFor(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		rating float64
		want   string
	}{
		{5, TierExcellent},
		{4.5, TierExcellent},
		{4.49, TierGood},
		{4, TierGood},
		{3.5, TierGood},
		{3.49, TierNeedsImprovement},
		{1, TierNeedsImprovement},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.TierFor(tt.rating), "rating %v", tt.rating)
	}
}

func TestConfig_TierFor_SubstitutedThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds = TierThresholds{Excellent: 5, Good: 2}

	assert.Equal(t, TierExcellent, cfg.TierFor(5))
	assert.Equal(t, TierGood, cfg.TierFor(4.5))
	assert.Equal(t, TierNeedsImprovement, cfg.TierFor(1.5))
}

func TestConfig_TableFor(t *testing.T) {
	cfg := DefaultConfig()

	table, ok := cfg.TableFor("Books")
	assert.True(t, ok)
	assert.Equal(t, "books", table)

	_, ok = cfg.TableFor("Electronics")
	assert.False(t, ok)
}

func TestConfig_KnownCategory(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.KnownCategory("Patio_Lawn_and_Garden"))
	assert.False(t, cfg.KnownCategory("Electronics"))
}

func TestReview_Field(t *testing.T) {
	r := Review{
		ReviewerID:        "A1",
		ProductID:         "P1",
		Rating:            5,
		ReviewText:        "great",
		Timestamp:         "2001-09-09",
		Category:          "Books",
		CommercialSegment: SegmentEntertainment,
		RatingTier:        TierExcellent,
		Meta:              map[string]any{"summary": "short"},
	}

	v, ok := r.Field("rating")
	assert.True(t, ok)
	assert.Equal(t, 5, v)

	v, ok = r.Field("summary")
	assert.True(t, ok)
	assert.Equal(t, "short", v)

	_, ok = r.Field("nonexistent")
	assert.False(t, ok)
}

func TestReview_Key(t *testing.T) {
	a := Review{ReviewerID: "A", ProductID: "P1"}
	b := Review{ReviewerID: "A", ProductID: "P1"}
	c := Review{ReviewerID: "A", ProductID: "P2"}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
