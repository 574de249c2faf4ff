package searchstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestSQLiteStore_PutAndList(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	minP := 10.0
	def := domain.SearchDefinition{
		SearchID:       "id-b",
		SearchQuery:    "vintage camera",
		Site:           "uk",
		MinPrice:       &minP,
		ListingType:    domain.ListingAuction,
		UpdateInterval: 15,
	}
	require.NoError(t, s.Put(ctx, "alice", def))
	require.NoError(t, s.Put(ctx, "alice", domain.SearchDefinition{
		SearchID:       "id-a",
		SearchQuery:    "record player",
		ListingType:    domain.ListingBoth,
		UpdateInterval: 30,
	}))
	require.NoError(t, s.Put(ctx, "bob", domain.SearchDefinition{
		SearchID:       "id-c",
		SearchQuery:    "other account",
		ListingType:    domain.ListingBoth,
		UpdateInterval: 15,
	}))

	defs, err := s.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "id-a", defs[0].SearchID)
	assert.Equal(t, "id-b", defs[1].SearchID)
	require.NotNil(t, defs[1].MinPrice)
	assert.InDelta(t, 10.0, *defs[1].MinPrice, 0.001)
}

func TestSQLiteStore_PutReplaces(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	def := domain.SearchDefinition{
		SearchID:       "id-1",
		SearchQuery:    "before",
		ListingType:    domain.ListingBoth,
		UpdateInterval: 15,
	}
	require.NoError(t, s.Put(ctx, "alice", def))

	def.SearchQuery = "after"
	require.NoError(t, s.Put(ctx, "alice", def))

	defs, err := s.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "after", defs[0].SearchQuery)
}

func TestSQLiteStore_Delete(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "alice", domain.SearchDefinition{
		SearchID: "id-1", SearchQuery: "q", ListingType: domain.ListingBoth, UpdateInterval: 15,
	}))

	require.NoError(t, s.Delete(ctx, "alice", "id-1"))

	defs, err := s.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, defs)

	// Deleting an absent definition is not an error.
	require.NoError(t, s.Delete(ctx, "alice", "id-1"))
}

func TestSQLiteStore_DeleteAccount(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		require.NoError(t, s.Put(ctx, "alice", domain.SearchDefinition{
			SearchID: id, SearchQuery: "q", ListingType: domain.ListingBoth, UpdateInterval: 15,
		}))
	}
	require.NoError(t, s.Put(ctx, "bob", domain.SearchDefinition{
		SearchID: "c", SearchQuery: "q", ListingType: domain.ListingBoth, UpdateInterval: 15,
	}))

	require.NoError(t, s.DeleteAccount(ctx, "alice"))

	defs, err := s.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, defs)

	defs, err = s.List(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, defs, 1)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/searches.db"

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), "alice", domain.SearchDefinition{
		SearchID: "id-1", SearchQuery: "persisted", ListingType: domain.ListingBoth, UpdateInterval: 15,
	}))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	defs, err := s2.List(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "persisted", defs[0].SearchQuery)
}
