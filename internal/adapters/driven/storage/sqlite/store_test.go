package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func review(reviewer, product string, rating int) domain.Review {
	return domain.Review{
		ReviewerID:        reviewer,
		ProductID:         product,
		Rating:            rating,
		ReviewText:        "text for " + product,
		Timestamp:         "2011-03-15",
		Category:          "Books",
		CommercialSegment: domain.SegmentEntertainment,
		RatingTier:        domain.TierGood,
		Meta:              map[string]any{"summary": "s", "reviewTime": "03 15, 2011"},
	}
}

func setupTables(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.CreateTable(ctx, domain.MasterTable))
	require.NoError(t, store.CreateTable(ctx, "books"))
	require.NoError(t, store.CreateTable(ctx, "video_games"))
}

func TestStore_Migrations(t *testing.T) {
	store := setupTestStore(t)
	// Reopening over the same file re-runs migrate as a no-op.
	require.NoError(t, store.Load(context.Background()))
}

func TestStore_CreateTable_Duplicate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateTable(ctx, "books"))
	err := store.CreateTable(ctx, "books")
	assert.ErrorIs(t, err, domain.ErrTableExists)
}

func TestStore_Insert_DualWrite(t *testing.T) {
	store := setupTestStore(t)
	setupTables(t, store)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, "books", review("A", "P1", 4)))

	books, err := store.GetAll(ctx, "books")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "A", books[0].ReviewerID)
	assert.Equal(t, "s", books[0].Meta["summary"])

	master, err := store.GetAll(ctx, domain.MasterTable)
	require.NoError(t, err)
	require.Len(t, master, 1)
	assert.Equal(t, books[0], master[0])
}

func TestStore_Insert_UnknownTable(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateTable(ctx, domain.MasterTable))

	err := store.Insert(ctx, "books", review("A", "P1", 4))
	assert.ErrorIs(t, err, domain.ErrTableNotFound)
}

func TestStore_Insert_TransactionRollsBack(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// Master table missing: the transaction must leave nothing behind.
	require.NoError(t, store.CreateTable(ctx, "books"))

	err := store.Insert(ctx, "books", review("A", "P1", 4))
	require.ErrorIs(t, err, domain.ErrTableNotFound)

	books, err := store.GetAll(ctx, "books")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestStore_Insert_DuplicateKey(t *testing.T) {
	store := setupTestStore(t)
	setupTables(t, store)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, "books", review("A", "P1", 4)))

	err := store.Insert(ctx, "books", review("A", "P1", 1))
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)

	// Key uniqueness spans the master table across categories.
	err = store.Insert(ctx, "video_games", review("A", "P1", 1))
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)

	games, err := store.GetAll(ctx, "video_games")
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestStore_GetAll_InsertionOrder(t *testing.T) {
	store := setupTestStore(t)
	setupTables(t, store)
	ctx := context.Background()

	for i, product := range []string{"P9", "P2", "P5"} {
		require.NoError(t, store.Insert(ctx, "books", review("A", product, i+1)))
	}

	books, err := store.GetAll(ctx, "books")
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "P9", books[0].ProductID)
	assert.Equal(t, "P2", books[1].ProductID)
	assert.Equal(t, "P5", books[2].ProductID)
}

func TestStore_Query(t *testing.T) {
	store := setupTestStore(t)
	setupTables(t, store)
	ctx := context.Background()

	ratings := []int{5, 2, 5, 3}
	for i, rating := range ratings {
		r := review("A", string(rune('a'+i)), rating)
		require.NoError(t, store.Insert(ctx, "books", r))
	}

	high, err := store.Query(ctx, "books", []domain.Condition{
		{Field: "rating", Op: domain.OpGreaterOrEqual, Value: 4.5},
	})
	require.NoError(t, err)
	require.Len(t, high, 2)
	assert.Equal(t, "a", high[0].ProductID)
	assert.Equal(t, "c", high[1].ProductID)
}

func TestStore_Metadata_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.GetMetadata(ctx)
	assert.ErrorIs(t, err, domain.ErrNoMetadata)

	meta := domain.Metadata{
		RecordCount: 7,
		Categories:  []string{"Books", "Video_Games"},
		BuiltAt:     "2026-02-01T10:00:00Z",
		BuildID:     "b-42",
	}
	require.NoError(t, store.PutMetadata(ctx, meta))

	got, err := store.GetMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, meta, *got)

	meta.RecordCount = 9
	require.NoError(t, store.PutMetadata(ctx, meta))
	got, err = store.GetMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, got.RecordCount)
}

func TestStore_Reset(t *testing.T) {
	store := setupTestStore(t)
	setupTables(t, store)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, "books", review("A", "P1", 4)))
	require.NoError(t, store.PutMetadata(ctx, domain.Metadata{RecordCount: 1, Categories: []string{"Books"}, BuiltAt: "x", BuildID: "b"}))

	require.NoError(t, store.Reset(ctx))

	_, err := store.GetAll(ctx, "books")
	assert.ErrorIs(t, err, domain.ErrTableNotFound)
	_, err = store.GetMetadata(ctx)
	assert.ErrorIs(t, err, domain.ErrNoMetadata)
}

func TestStore_PersistAndLoad(t *testing.T) {
	store := setupTestStore(t)
	setupTables(t, store)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, "books", review("A", "P1", 4)))
	require.NoError(t, store.Persist(ctx))
	require.NoError(t, store.Load(ctx))
}

func TestStore_Tables(t *testing.T) {
	store := setupTestStore(t)
	setupTables(t, store)
	ctx := context.Background()

	names, err := store.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"books", domain.MasterTable, "video_games"}, names)

	require.NoError(t, store.PutMetadata(ctx, domain.Metadata{RecordCount: 0, Categories: nil, BuiltAt: "x", BuildID: "b"}))
	names, err = store.Tables(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, domain.MetadataTable)
}
