package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"screenlist/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Onboard(ctx context.Context, id string, bio, country *string) (*models.User, error)
	// Delete removes the user with every watchlist and item they own.
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password, first_name, last_name, bio, country, on_boarded,
	watch_time, movies_watched, shows_watched, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Bio, &u.Country, &u.OnBoarded,
		&u.WatchTime, &u.MoviesWatched, &u.ShowsWatched, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
	INSERT INTO users (id, email, password, first_name, last_name, bio, country, on_boarded, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Bio, user.Country, user.OnBoarded, now)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if !validID(user.ID) {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now().UTC()

	query := `
	UPDATE users
	SET email = $2, first_name = $3, last_name = $4, bio = $5, country = $6, updated_at = $7
	WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.FirstName, user.LastName, user.Bio, user.Country, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) Onboard(ctx context.Context, id string, bio, country *string) (*models.User, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	query := `
	UPDATE users
	SET bio = $2, country = $3, on_boarded = TRUE, updated_at = $4
	WHERE id = $1
	RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, id, bio, country, time.Now().UTC()))
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
		DELETE FROM watchlist_items
		WHERE watchlist_id IN (SELECT id FROM watchlists WHERE owner_id = $1)
		`, id)
		if err != nil {
			return fmt.Errorf("failed to delete watchlist items: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM watchlists WHERE owner_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete watchlists: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
