package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"screenlist/internal/models"
)

type WatchlistRepository interface {
	// ListByOwner returns the owner's watchlists, newest first, each with its items.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Watchlist, error)
	GetByID(ctx context.Context, id string) (*models.Watchlist, error)
	Create(ctx context.Context, ownerID, name string) (*models.Watchlist, error)
	Rename(ctx context.Context, id, name string) (*models.Watchlist, error)
	// Delete removes the watchlist and its items.
	Delete(ctx context.Context, id string) error
}

type watchlistRepository struct {
	db DBTX
}

func NewWatchlistRepository(db DBTX) WatchlistRepository {
	return &watchlistRepository{db: db}
}

const watchlistColumns = `id, owner_id, name, created_at, updated_at`

func scanWatchlist(row pgx.Row) (*models.Watchlist, error) {
	var w models.Watchlist
	if err := row.Scan(&w.ID, &w.OwnerID, &w.Name, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

func (r *watchlistRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Watchlist, error) {
	if !validID(ownerID) {
		return []models.Watchlist{}, nil
	}

	rows, err := r.db.Query(ctx, `
	SELECT `+watchlistColumns+`
	FROM watchlists
	WHERE owner_id = $1
	ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlists: %w", err)
	}

	watchlists := []models.Watchlist{}
	ids := []string{}
	for rows.Next() {
		w, err := scanWatchlist(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan watchlist: %w", err)
		}
		watchlists = append(watchlists, *w)
		ids = append(ids, w.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watchlists: %w", err)
	}
	if len(ids) == 0 {
		return watchlists, nil
	}

	itemRows, err := r.db.Query(ctx, `
	SELECT `+itemColumns+`
	FROM watchlist_items
	WHERE watchlist_id = ANY($1)
	ORDER BY created_at DESC
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist items: %w", err)
	}
	items, err := collectItems(itemRows)
	if err != nil {
		return nil, err
	}

	byWatchlist := make(map[string][]models.WatchlistItem, len(ids))
	for _, item := range items {
		byWatchlist[item.WatchlistID] = append(byWatchlist[item.WatchlistID], item)
	}
	for i := range watchlists {
		watchlists[i].Items = byWatchlist[watchlists[i].ID]
	}
	return watchlists, nil
}

func (r *watchlistRepository) GetByID(ctx context.Context, id string) (*models.Watchlist, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	return scanWatchlist(r.db.QueryRow(ctx, `SELECT `+watchlistColumns+` FROM watchlists WHERE id = $1`, id))
}

func (r *watchlistRepository) Create(ctx context.Context, ownerID, name string) (*models.Watchlist, error) {
	now := time.Now().UTC()
	w := &models.Watchlist{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
	INSERT INTO watchlists (id, owner_id, name, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $4)
	`
	if _, err := r.db.Exec(ctx, query, w.ID, w.OwnerID, w.Name, now); err != nil {
		return nil, fmt.Errorf("failed to create watchlist: %w", err)
	}
	return w, nil
}

func (r *watchlistRepository) Rename(ctx context.Context, id, name string) (*models.Watchlist, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	query := `
	UPDATE watchlists
	SET name = $2, updated_at = $3
	WHERE id = $1
	RETURNING ` + watchlistColumns
	return scanWatchlist(r.db.QueryRow(ctx, query, id, name, time.Now().UTC()))
}

func (r *watchlistRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM watchlist_items WHERE watchlist_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete watchlist items: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM watchlists WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete watchlist: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
