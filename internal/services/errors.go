package services

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnavailable     = errors.New("data not available")
	ErrUserExists      = errors.New("user already exists")
	ErrInvalidPassword = errors.New("invalid password")
	ErrDuplicateItem   = errors.New("this item already exists in a watchlist")
	ErrNoUpdates       = errors.New("no valid fields to update")
	ErrInvalidInput    = errors.New("invalid input")
)
