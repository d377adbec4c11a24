package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"screenlist/internal/models"
)

// ItemChanges carries the optional fields of an item update; nil means unchanged.
// ClearSchedule unsets scheduled_at and wins over ScheduledAt.
type ItemChanges struct {
	Status        *models.Status
	ScheduledAt   *time.Time
	ClearSchedule bool
}

func (c ItemChanges) Empty() bool {
	return c.Status == nil && c.ScheduledAt == nil && !c.ClearSchedule
}

type WatchlistItemRepository interface {
	ListByWatchlist(ctx context.Context, watchlistID string) ([]models.WatchlistItem, error)
	GetInWatchlist(ctx context.Context, watchlistID, itemID string) (*models.WatchlistItem, error)
	// ExistsByTMDBID reports whether any watchlist, of any owner, holds tmdbID.
	ExistsByTMDBID(ctx context.Context, tmdbID int) (bool, error)
	Create(ctx context.Context, item *models.WatchlistItem) error
	Update(ctx context.Context, itemID string, changes ItemChanges) (*models.WatchlistItem, error)
	Delete(ctx context.Context, watchlistID, itemID string) error
}

type watchlistItemRepository struct {
	db DBTX
}

func NewWatchlistItemRepository(db DBTX) WatchlistItemRepository {
	return &watchlistItemRepository{db: db}
}

const itemColumns = `id, watchlist_id, tmdb_id, media_type, status, scheduled_at, created_at, updated_at`

func scanItem(row pgx.Row) (*models.WatchlistItem, error) {
	var (
		item      models.WatchlistItem
		mediaType string
		status    string
	)
	err := row.Scan(&item.ID, &item.WatchlistID, &item.TMDBID, &mediaType, &status,
		&item.ScheduledAt, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	item.MediaType = models.MediaType(mediaType)
	item.Status = models.Status(status)
	return &item, nil
}

func collectItems(rows pgx.Rows) ([]models.WatchlistItem, error) {
	defer rows.Close()

	items := []models.WatchlistItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watchlist item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watchlist items: %w", err)
	}
	return items, nil
}

func (r *watchlistItemRepository) ListByWatchlist(ctx context.Context, watchlistID string) ([]models.WatchlistItem, error) {
	if !validID(watchlistID) {
		return []models.WatchlistItem{}, nil
	}
	rows, err := r.db.Query(ctx, `
	SELECT `+itemColumns+`
	FROM watchlist_items
	WHERE watchlist_id = $1
	ORDER BY created_at DESC
	`, watchlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist items: %w", err)
	}
	return collectItems(rows)
}

func (r *watchlistItemRepository) GetInWatchlist(ctx context.Context, watchlistID, itemID string) (*models.WatchlistItem, error) {
	if !validID(watchlistID) || !validID(itemID) {
		return nil, ErrNotFound
	}
	return scanItem(r.db.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM watchlist_items WHERE id = $1 AND watchlist_id = $2`, itemID, watchlistID))
}

func (r *watchlistItemRepository) ExistsByTMDBID(ctx context.Context, tmdbID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM watchlist_items WHERE tmdb_id = $1)", tmdbID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if item exists: %w", err)
	}
	return exists, nil
}

func (r *watchlistItemRepository) Create(ctx context.Context, item *models.WatchlistItem) error {
	now := time.Now().UTC()
	item.ID = uuid.NewString()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Status == "" {
		item.Status = models.StatusPlanned
	}

	query := `
	INSERT INTO watchlist_items (id, watchlist_id, tmdb_id, media_type, status, scheduled_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	_, err := r.db.Exec(ctx, query,
		item.ID, item.WatchlistID, item.TMDBID, string(item.MediaType), string(item.Status), item.ScheduledAt, now)
	if err != nil {
		return fmt.Errorf("failed to create watchlist item: %w", err)
	}
	return nil
}

func (r *watchlistItemRepository) Update(ctx context.Context, itemID string, changes ItemChanges) (*models.WatchlistItem, error) {
	if !validID(itemID) {
		return nil, ErrNotFound
	}

	var status *string
	if changes.Status != nil {
		s := string(*changes.Status)
		status = &s
	}

	// $3 only applies when $4 is set so a nil ScheduledAt leaves the column alone.
	query := `
	UPDATE watchlist_items
	SET status = COALESCE($2::text, status),
		scheduled_at = CASE WHEN $4::boolean THEN $3::timestamptz ELSE scheduled_at END,
		updated_at = $5
	WHERE id = $1
	RETURNING ` + itemColumns
	setSchedule := changes.ClearSchedule || changes.ScheduledAt != nil
	var scheduledAt *time.Time
	if !changes.ClearSchedule {
		scheduledAt = changes.ScheduledAt
	}
	return scanItem(r.db.QueryRow(ctx, query, itemID, status, scheduledAt, setSchedule, time.Now().UTC()))
}

func (r *watchlistItemRepository) Delete(ctx context.Context, watchlistID, itemID string) error {
	if !validID(watchlistID) || !validID(itemID) {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM watchlist_items WHERE id = $1 AND watchlist_id = $2`, itemID, watchlistID)
	if err != nil {
		return fmt.Errorf("failed to delete watchlist item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
