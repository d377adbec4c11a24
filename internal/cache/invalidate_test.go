package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"screenlist/internal/logger"
)

func TestKeysPerKind(t *testing.T) {
	assert.Equal(t, []string{"user_watchlists_u1"}, Keys(KindUserWatchlists, "u1"))
	assert.Equal(t, []string{"watchlist_items_w1", "watchlist_w1", "user_watchlists_u1"}, Keys(KindWatchlist, "w1", "u1"))
	assert.Equal(t, Keys(KindWatchlist, "w1", "u1"), Keys(KindWatchlistItem, "w1", "u1"))
	assert.Equal(t, []string{"user_profile_u1"}, Keys(KindProfile, "u1"))

	assert.Nil(t, Keys(KindWatchlist, "w1"))
	assert.Nil(t, Keys(Kind("unknown"), "x"))
}

func TestInvalidateWatchlistPurgesFreshEntries(t *testing.T) {
	a, _, _ := newTestAccessor(t)
	inv := NewInvalidator(a, logger.Discard())
	ctx := context.Background()

	keys := []string{WatchlistItemsKey("w1"), WatchlistKey("w1"), UserWatchlistsKey("u1")}
	for _, k := range keys {
		a.Write(ctx, k, "cached", time.Hour)
	}
	a.Write(ctx, WatchlistItemsKey("w2"), "other", time.Hour)

	inv.WatchlistItem(ctx, "w1", "u1")

	for _, k := range keys {
		_, ok := Read[string](ctx, a, k, time.Hour)
		assert.False(t, ok, "expected %s to be purged", k)
	}
	_, ok := Read[string](ctx, a, WatchlistItemsKey("w2"), time.Hour)
	assert.True(t, ok, "unrelated watchlist must stay cached")
}

func TestInvalidateWatchlistsOnlyTouchesOwnerCollection(t *testing.T) {
	a, _, _ := newTestAccessor(t)
	inv := NewInvalidator(a, logger.Discard())
	ctx := context.Background()

	a.Write(ctx, UserWatchlistsKey("u1"), "cached", time.Hour)
	a.Write(ctx, WatchlistKey("w1"), "cached", time.Hour)

	inv.Watchlists(ctx, "u1")

	_, ok := Read[string](ctx, a, UserWatchlistsKey("u1"), time.Hour)
	assert.False(t, ok)
	_, ok = Read[string](ctx, a, WatchlistKey("w1"), time.Hour)
	assert.True(t, ok)
}

func TestInvalidateContinuesWhenDeletesFail(t *testing.T) {
	store := &failingStore{}
	inv := NewInvalidator(NewAccessor(store, logger.Discard()), logger.Discard())

	inv.Watchlist(context.Background(), "w1", "u1")

	assert.Equal(t, 3, store.deletes)
}
