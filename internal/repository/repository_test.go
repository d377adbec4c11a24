package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenlist/internal/models"
)

const (
	userID      = "6f1c2a4e-8d3b-4b8e-9a51-1f2d3c4b5a69"
	watchlistID = "0b9e7f1a-2c3d-4e5f-8a9b-0c1d2e3f4a5b"
	itemID      = "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

var itemCols = []string{"id", "watchlist_id", "tmdb_id", "media_type", "status", "scheduled_at", "created_at", "updated_at"}

func TestUserCreateDuplicateEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &models.User{Email: "a@b.c", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserCreateAssignsID(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "a@b.c", "hash", "Ada", "Lovelace", (*string)(nil), (*string)(nil), false, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	u := &models.User{Email: "a@b.c", PasswordHash: "hash", FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.True(t, validID(u.ID))
	assert.False(t, u.CreatedAt.IsZero())
}

func TestUserGetByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("SELECT .* FROM users WHERE id = \\$1").
		WithArgs(userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), userID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserGetByIDRejectsMalformedID(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserDeleteCascadesInTransaction(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM watchlist_items").WithArgs(userID).WillReturnResult(pgxmock.NewResult("DELETE", 4))
	mock.ExpectExec("DELETE FROM watchlists WHERE owner_id").WithArgs(userID).WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("DELETE FROM users").WithArgs(userID).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), userID))
}

func TestUserDeleteRollsBackWhenMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM watchlist_items").WithArgs(userID).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM watchlists WHERE owner_id").WithArgs(userID).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM users").WithArgs(userID).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Delete(context.Background(), userID), ErrNotFound)
}

func TestWatchlistListByOwnerAttachesItems(t *testing.T) {
	mock := newMock(t)
	repo := NewWatchlistRepository(mock)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	other := "11111111-2222-4333-8444-555555555555"

	mock.ExpectQuery("FROM watchlists").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner_id", "name", "created_at", "updated_at"}).
			AddRow(watchlistID, userID, "Weekend", now, now).
			AddRow(other, userID, "Later", now, now))
	mock.ExpectQuery("FROM watchlist_items").
		WithArgs([]string{watchlistID, other}).
		WillReturnRows(pgxmock.NewRows(itemCols).
			AddRow(itemID, watchlistID, 438631, "movie", "planned", (*time.Time)(nil), now, now))

	lists, err := repo.ListByOwner(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	require.Len(t, lists[0].Items, 1)
	assert.Equal(t, models.MediaTypeMovie, lists[0].Items[0].MediaType)
	assert.Equal(t, models.StatusPlanned, lists[0].Items[0].Status)
	assert.Empty(t, lists[1].Items)
}

func TestWatchlistListByOwnerEmpty(t *testing.T) {
	mock := newMock(t)
	repo := NewWatchlistRepository(mock)

	mock.ExpectQuery("FROM watchlists").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner_id", "name", "created_at", "updated_at"}))

	lists, err := repo.ListByOwner(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, lists)
	assert.Empty(t, lists)
}

func TestWatchlistDeleteRemovesItemsFirst(t *testing.T) {
	mock := newMock(t)
	repo := NewWatchlistRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM watchlist_items WHERE watchlist_id").WithArgs(watchlistID).WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec("DELETE FROM watchlists WHERE id").WithArgs(watchlistID).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), watchlistID))
}

func TestItemExistsByTMDBIDIsGlobal(t *testing.T) {
	mock := newMock(t)
	repo := NewWatchlistItemRepository(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(438631).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByTMDBID(context.Background(), 438631)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestItemExistsByTMDBIDPropagatesErrors(t *testing.T) {
	mock := newMock(t)
	repo := NewWatchlistItemRepository(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(1).
		WillReturnError(errors.New("conn reset"))

	_, err := repo.ExistsByTMDBID(context.Background(), 1)
	assert.Error(t, err)
}

func TestItemCreateDefaultsToPlanned(t *testing.T) {
	mock := newMock(t)
	repo := NewWatchlistItemRepository(mock)

	mock.ExpectExec("INSERT INTO watchlist_items").
		WithArgs(pgxmock.AnyArg(), watchlistID, 1399, "tv", "planned", (*time.Time)(nil), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	item := &models.WatchlistItem{WatchlistID: watchlistID, TMDBID: 1399, MediaType: models.MediaTypeTV}
	require.NoError(t, repo.Create(context.Background(), item))
	assert.Equal(t, models.StatusPlanned, item.Status)
	assert.NotEmpty(t, item.ID)
}

func TestItemUpdateClearSchedule(t *testing.T) {
	mock := newMock(t)
	repo := NewWatchlistItemRepository(mock)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	watched := models.StatusWatched

	mock.ExpectQuery("UPDATE watchlist_items").
		WithArgs(itemID, pgxmock.AnyArg(), (*time.Time)(nil), true, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(itemCols).
			AddRow(itemID, watchlistID, 1399, "tv", "watched", (*time.Time)(nil), now, now))

	item, err := repo.Update(context.Background(), itemID, ItemChanges{Status: &watched, ClearSchedule: true})
	require.NoError(t, err)
	assert.Equal(t, models.StatusWatched, item.Status)
	assert.Nil(t, item.ScheduledAt)
}

func TestItemDeleteMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewWatchlistItemRepository(mock)

	mock.ExpectExec("DELETE FROM watchlist_items").
		WithArgs(itemID, watchlistID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), watchlistID, itemID), ErrNotFound)
}

func TestItemChangesEmpty(t *testing.T) {
	assert.True(t, ItemChanges{}.Empty())
	assert.False(t, ItemChanges{ClearSchedule: true}.Empty())
}
