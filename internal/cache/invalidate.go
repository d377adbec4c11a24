package cache

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Kind names the entity whose mutation triggers an invalidation.
type Kind string

const (
	// KindUserWatchlists takes (ownerID) and drops only the owner's collection.
	KindUserWatchlists Kind = "user_watchlists"
	// KindWatchlist takes (watchlistID, ownerID).
	KindWatchlist Kind = "watchlist"
	// KindWatchlistItem takes (watchlistID, ownerID) of the parent watchlist.
	KindWatchlistItem Kind = "watchlist_item"
	// KindProfile takes (userID).
	KindProfile Kind = "user_profile"
)

// Invalidator purges every key a mutation could have made stale.
type Invalidator struct {
	accessor *Accessor
	logger   *logrus.Logger
}

func NewInvalidator(accessor *Accessor, logger *logrus.Logger) *Invalidator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Invalidator{accessor: accessor, logger: logger}
}

// Keys lists the keys purged for kind. It returns nil when ids do not match
// what the kind expects.
func Keys(kind Kind, ids ...string) []string {
	switch kind {
	case KindUserWatchlists, KindProfile:
		if len(ids) != 1 {
			return nil
		}
		if kind == KindProfile {
			return []string{ProfileKey(ids[0])}
		}
		return []string{UserWatchlistsKey(ids[0])}
	case KindWatchlist, KindWatchlistItem:
		if len(ids) != 2 {
			return nil
		}
		watchlistID, ownerID := ids[0], ids[1]
		return []string{
			WatchlistItemsKey(watchlistID),
			WatchlistKey(watchlistID),
			UserWatchlistsKey(ownerID),
		}
	}
	return nil
}

// Invalidate deletes every key for kind. Each delete stands alone; a failing
// one is logged by the accessor and the rest still run.
func (i *Invalidator) Invalidate(ctx context.Context, kind Kind, ids ...string) {
	keys := Keys(kind, ids...)
	if keys == nil {
		i.logger.WithFields(logrus.Fields{
			"kind": kind,
			"ids":  ids,
		}).Error("Unknown invalidation target")
		return
	}

	for _, key := range keys {
		i.accessor.Delete(ctx, key)
	}

	i.logger.WithFields(logrus.Fields{
		"kind": kind,
		"keys": keys,
	}).Debug("Cache invalidated")
}

// Watchlists drops the owner's watchlist collection, e.g. after a create.
func (i *Invalidator) Watchlists(ctx context.Context, ownerID string) {
	i.Invalidate(ctx, KindUserWatchlists, ownerID)
}

// Watchlist runs the full fanout for a changed watchlist.
func (i *Invalidator) Watchlist(ctx context.Context, watchlistID, ownerID string) {
	i.Invalidate(ctx, KindWatchlist, watchlistID, ownerID)
}

// WatchlistItem runs the full fanout for the watchlist that owns a changed item.
func (i *Invalidator) WatchlistItem(ctx context.Context, watchlistID, ownerID string) {
	i.Invalidate(ctx, KindWatchlistItem, watchlistID, ownerID)
}

func (i *Invalidator) Profile(ctx context.Context, userID string) {
	i.Invalidate(ctx, KindProfile, userID)
}
