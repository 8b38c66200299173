package domain

// MasterTable is the table that receives every document regardless of
// category. Inserts into a category table dual-write here.
const MasterTable = "reviews"

// MetadataTable holds the single dataset-level metadata document.
const MetadataTable = "metadata"

// TierThresholds holds the numeric cut-offs for rating tiers.
// A rating >= Excellent is "excellent", >= Good is "good",
// anything below is "needs_improvement".
type TierThresholds struct {
	Excellent float64 `toml:"excellent"`
	Good      float64 `toml:"good"`
}

// Config is the immutable pipeline and query configuration. It is
// built once (defaults, optionally overridden from a config file) and
// passed into the services; module-level constants are deliberately
// avoided so tests can substitute thresholds.
type Config struct {
	// Categories is the closed set of accepted source categories.
	Categories []string `toml:"categories"`

	// SegmentMapping maps a category to its commercial segment.
	// Categories missing from the map fall back to SegmentOther.
	SegmentMapping map[string]string `toml:"segment_mapping"`

	// CategoryTables maps a category to its table name.
	CategoryTables map[string]string `toml:"category_tables"`

	// Thresholds are the rating tier cut-offs.
	Thresholds TierThresholds `toml:"thresholds"`

	// MaxReviewTextLen and MaxSummaryLen cap free-text fields during
	// cleaning. Zero disables the cap.
	MaxReviewTextLen int `toml:"max_review_text_len"`
	MaxSummaryLen    int `toml:"max_summary_len"`

	// SamplePerCategory is how many documents per category the sample
	// export takes.
	SamplePerCategory int `toml:"sample_per_category"`
}

// DefaultConfig returns the stock configuration matching the upstream
// dataset's categories and the established satisfaction thresholds.
func DefaultConfig() Config {
	return Config{
		Categories: []string{
			"Books",
			"Video_Games",
			"Movies_and_TV",
			"Home_and_Kitchen",
			"Tools_and_Home_Improvement",
			"Patio_Lawn_and_Garden",
		},
		SegmentMapping: map[string]string{
			"Books":                      SegmentEntertainment,
			"Video_Games":                SegmentEntertainment,
			"Movies_and_TV":              SegmentEntertainment,
			"Home_and_Kitchen":           SegmentHome,
			"Tools_and_Home_Improvement": SegmentHome,
			"Patio_Lawn_and_Garden":      SegmentHome,
		},
		CategoryTables: map[string]string{
			"Books":                      "books",
			"Video_Games":                "video_games",
			"Movies_and_TV":              "movies_tv",
			"Home_and_Kitchen":           "home_kitchen",
			"Tools_and_Home_Improvement": "tools",
			"Patio_Lawn_and_Garden":      "patio_garden",
		},
		Thresholds: TierThresholds{
			Excellent: 4.5,
			Good:      3.5,
		},
		MaxReviewTextLen:  1000,
		MaxSummaryLen:     200,
		SamplePerCategory: 50,
	}
}

// SegmentFor returns the commercial segment for a category,
// defaulting to SegmentOther for unmapped categories.
func (c *Config) SegmentFor(category string) string {
	if seg, ok := c.SegmentMapping[category]; ok {
		return seg
	}
	return SegmentOther
}

// TierFor returns the rating tier for a numeric rating.
func (c *Config) TierFor(rating float64) string {
	switch {
	case rating >= c.Thresholds.Excellent:
		return TierExcellent
	case rating >= c.Thresholds.Good:
		return TierGood
	default:
		return TierNeedsImprovement
	}
}

// TableFor returns the table name for a category. The second return
// is false for categories outside the configured set.
func (c *Config) TableFor(category string) (string, bool) {
	name, ok := c.CategoryTables[category]
	return name, ok
}

// KnownCategory reports whether the category is in the closed set.
func (c *Config) KnownCategory(category string) bool {
	for _, cat := range c.Categories {
		if cat == category {
			return true
		}
	}
	return false
}
