package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusWatched    Status = "watched"
)

// ParseStatus accepts planned, in_progress (or in-progress) and watched in any case.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch Status(normalized) {
	case StatusPlanned, StatusInProgress, StatusWatched:
		return Status(normalized), nil
	}
	return "", fmt.Errorf("invalid status %q", s)
}

type User struct {
	ID            string    `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password"`
	FirstName     string    `json:"first_name" db:"first_name"`
	LastName      string    `json:"last_name" db:"last_name"`
	Bio           *string   `json:"bio" db:"bio"`
	Country       *string   `json:"country" db:"country"`
	OnBoarded     bool      `json:"on_boarded" db:"on_boarded"`
	WatchTime     int       `json:"watch_time" db:"watch_time"`
	MoviesWatched int       `json:"movies_watched" db:"movies_watched"`
	ShowsWatched  int       `json:"shows_watched" db:"shows_watched"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Profile is the part of a user returned by the profile endpoints.
type Profile struct {
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Bio           *string   `json:"bio"`
	Country       *string   `json:"country"`
	WatchTime     int       `json:"watch_time"`
	MoviesWatched int       `json:"movies_watched"`
	ShowsWatched  int       `json:"shows_watched"`
	CreatedAt     time.Time `json:"created_at"`
}

func (u *User) Profile() Profile {
	return Profile{
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		Bio:           u.Bio,
		Country:       u.Country,
		WatchTime:     u.WatchTime,
		MoviesWatched: u.MoviesWatched,
		ShowsWatched:  u.ShowsWatched,
		CreatedAt:     u.CreatedAt,
	}
}

type Watchlist struct {
	ID        string          `json:"id" db:"id"`
	OwnerID   string          `json:"owner_id" db:"owner_id"`
	Name      string          `json:"name" db:"name"`
	Items     []WatchlistItem `json:"items,omitempty"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// WatchlistItem points at a catalog entry by (TMDBID, MediaType); it never stores the entry itself.
type WatchlistItem struct {
	ID          string     `json:"id" db:"id"`
	WatchlistID string     `json:"watchlist_id" db:"watchlist_id"`
	TMDBID      int        `json:"tmdb_id" db:"tmdb_id"`
	MediaType   MediaType  `json:"media_type" db:"media_type"`
	Status      Status     `json:"status" db:"status"`
	ScheduledAt *time.Time `json:"scheduled_at" db:"scheduled_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// WatchlistItemWithMedia is an item enriched at read time; MediaDetails is nil when the catalog lookup failed.
type WatchlistItemWithMedia struct {
	WatchlistItem
	MediaDetails *MediaItem `json:"media_details"`
}

// OptionalTime tells an absent JSON field apart from an explicit null.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalTime) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}
	o.Value = &t
	return nil
}
