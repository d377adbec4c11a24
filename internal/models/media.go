package models

import (
	"fmt"
	"strings"
)

type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// ParseMediaType accepts movie/tv in any case.
func ParseMediaType(s string) (MediaType, error) {
	switch MediaType(strings.ToLower(strings.TrimSpace(s))) {
	case MediaTypeMovie:
		return MediaTypeMovie, nil
	case MediaTypeTV:
		return MediaTypeTV, nil
	}
	return "", fmt.Errorf("invalid media type %q", s)
}

// MediaItem is the single shape movies and TV shows are normalised into.
type MediaItem struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	PosterPath  *string   `json:"poster_path"`
	ReleaseDate string    `json:"release_date"`
	MediaType   MediaType `json:"media_type"`
}

type Pagination struct {
	Page         int `json:"page"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

type PaginatedMediaItems struct {
	Results    []MediaItem `json:"results"`
	Pagination Pagination  `json:"pagination"`
}

// HomeResponse is the first page of every home feed category.
type HomeResponse struct {
	TrendingMovies []MediaItem `json:"trending_movies"`
	TrendingTV     []MediaItem `json:"trending_tv"`
	PopularMovies  []MediaItem `json:"popular_movies"`
	PopularTV      []MediaItem `json:"popular_tv"`
	UpcomingMovies []MediaItem `json:"upcoming_movies"`
	OnAirTV        []MediaItem `json:"on_air_tv"`
	TopRatedMovies []MediaItem `json:"top_rated_movies"`
	TopRatedTV     []MediaItem `json:"top_rated_tv"`
}
