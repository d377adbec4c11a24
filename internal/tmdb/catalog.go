package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"screenlist/internal/models"
)

// Category is one of the home feed listings.
type Category struct {
	Name      string
	Path      string
	MediaType models.MediaType
}

// Categories in home feed order.
var Categories = []Category{
	{Name: "trending_movies", Path: "/trending/movie/day", MediaType: models.MediaTypeMovie},
	{Name: "trending_tv", Path: "/trending/tv/day", MediaType: models.MediaTypeTV},
	{Name: "popular_movies", Path: "/movie/popular", MediaType: models.MediaTypeMovie},
	{Name: "popular_tv", Path: "/tv/popular", MediaType: models.MediaTypeTV},
	{Name: "upcoming_movies", Path: "/movie/upcoming", MediaType: models.MediaTypeMovie},
	{Name: "on_air_tv", Path: "/tv/on_the_air", MediaType: models.MediaTypeTV},
	{Name: "top_rated_movies", Path: "/movie/top_rated", MediaType: models.MediaTypeMovie},
	{Name: "top_rated_tv", Path: "/tv/top_rated", MediaType: models.MediaTypeTV},
}

func CategoryByName(name string) (Category, bool) {
	for _, c := range Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// SearchQuery holds every input that changes a search response.
// An empty MediaType searches movies and TV together.
type SearchQuery struct {
	Query        string
	Page         int
	IncludeAdult bool
	Language     string
	MediaType    models.MediaType
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (c *Client) MapMovie(m MovieItem) models.MediaItem {
	return models.MediaItem{
		ID:          m.ID,
		Title:       firstNonEmpty(m.OriginalTitle, m.Title),
		PosterPath:  c.ImageURL(m.PosterPath),
		ReleaseDate: m.ReleaseDate,
		MediaType:   models.MediaTypeMovie,
	}
}

func (c *Client) MapTV(t TVItem) models.MediaItem {
	return models.MediaItem{
		ID:          t.ID,
		Title:       firstNonEmpty(t.OriginalName, t.Name),
		PosterPath:  c.ImageURL(t.PosterPath),
		ReleaseDate: t.FirstAirDate,
		MediaType:   models.MediaTypeTV,
	}
}

// MapMulti maps a mixed search result; people and unknown kinds are skipped.
func (c *Client) MapMulti(m MultiItem) (models.MediaItem, bool) {
	switch models.MediaType(m.MediaType) {
	case models.MediaTypeMovie:
		return c.MapMovie(MovieItem{ID: m.ID, OriginalTitle: m.OriginalTitle, Title: m.Title, PosterPath: m.PosterPath, ReleaseDate: m.ReleaseDate}), true
	case models.MediaTypeTV:
		return c.MapTV(TVItem{ID: m.ID, OriginalName: m.OriginalName, Name: m.Name, PosterPath: m.PosterPath, FirstAirDate: m.FirstAirDate}), true
	}
	return models.MediaItem{}, false
}

func mapPage[T any](p Page[T], mapItem func(T) models.MediaItem) models.PaginatedMediaItems {
	results := make([]models.MediaItem, 0, len(p.Results))
	for _, item := range p.Results {
		results = append(results, mapItem(item))
	}
	return models.PaginatedMediaItems{
		Results: results,
		Pagination: models.Pagination{
			Page:         p.Page,
			TotalPages:   p.TotalPages,
			TotalResults: p.TotalResults,
		},
	}
}

func pageQuery(page int) url.Values {
	q := url.Values{}
	q.Set("language", DefaultLanguage)
	q.Set("page", strconv.Itoa(page))
	return q
}

// CategoryPage fetches and normalises one page of a category listing.
func (c *Client) CategoryPage(ctx context.Context, category Category, page int) (models.PaginatedMediaItems, bool) {
	if category.MediaType == models.MediaTypeTV {
		p, ok := Fetch[Page[TVItem]](ctx, c, category.Path, pageQuery(page))
		if !ok {
			return models.PaginatedMediaItems{}, false
		}
		return mapPage(p, c.MapTV), true
	}

	p, ok := Fetch[Page[MovieItem]](ctx, c, category.Path, pageQuery(page))
	if !ok {
		return models.PaginatedMediaItems{}, false
	}
	return mapPage(p, c.MapMovie), true
}

// Search runs a title search, narrowed to one media type when q.MediaType is set.
func (c *Client) Search(ctx context.Context, q SearchQuery) (models.PaginatedMediaItems, bool) {
	query := url.Values{}
	query.Set("query", q.Query)
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("include_adult", strconv.FormatBool(q.IncludeAdult))
	query.Set("language", firstNonEmpty(q.Language, DefaultLanguage))

	switch q.MediaType {
	case models.MediaTypeMovie:
		p, ok := Fetch[Page[MovieItem]](ctx, c, "/search/movie", query)
		if !ok {
			return models.PaginatedMediaItems{}, false
		}
		return mapPage(p, c.MapMovie), true
	case models.MediaTypeTV:
		p, ok := Fetch[Page[TVItem]](ctx, c, "/search/tv", query)
		if !ok {
			return models.PaginatedMediaItems{}, false
		}
		return mapPage(p, c.MapTV), true
	}

	p, ok := Fetch[Page[MultiItem]](ctx, c, "/search/multi", query)
	if !ok {
		return models.PaginatedMediaItems{}, false
	}
	results := make([]models.MediaItem, 0, len(p.Results))
	for _, item := range p.Results {
		if mapped, ok := c.MapMulti(item); ok {
			results = append(results, mapped)
		}
	}
	return models.PaginatedMediaItems{
		Results: results,
		Pagination: models.Pagination{
			Page:         p.Page,
			TotalPages:   p.TotalPages,
			TotalResults: p.TotalResults,
		},
	}, true
}

func detailsQuery() url.Values {
	q := url.Values{}
	q.Set("language", DefaultLanguage)
	q.Set("append_to_response", "videos,similar,recommendations,reviews")
	return q
}

func (c *Client) MovieDetails(ctx context.Context, id int) (MovieDetails, bool) {
	return Fetch[MovieDetails](ctx, c, fmt.Sprintf("/movie/%d", id), detailsQuery())
}

func (c *Client) TVDetails(ctx context.Context, id int) (TVDetails, bool) {
	return Fetch[TVDetails](ctx, c, fmt.Sprintf("/tv/%d", id), detailsQuery())
}

func (c *Client) WatchProviders(ctx context.Context, mediaType models.MediaType, id int) (WatchProviders, bool) {
	return Fetch[WatchProviders](ctx, c, fmt.Sprintf("/%s/%d/watch/providers", mediaType, id), nil)
}

func (c *Client) Season(ctx context.Context, tvID, seasonNumber int) (SeasonDetails, bool) {
	q := url.Values{}
	q.Set("language", DefaultLanguage)
	return Fetch[SeasonDetails](ctx, c, fmt.Sprintf("/tv/%d/season/%d", tvID, seasonNumber), q)
}

// Media fetches a single title and normalises it.
func (c *Client) Media(ctx context.Context, mediaType models.MediaType, id int) (models.MediaItem, bool) {
	q := url.Values{}
	q.Set("language", DefaultLanguage)

	switch mediaType {
	case models.MediaTypeMovie:
		m, ok := Fetch[MovieItem](ctx, c, fmt.Sprintf("/movie/%d", id), q)
		if !ok {
			return models.MediaItem{}, false
		}
		return c.MapMovie(m), true
	case models.MediaTypeTV:
		t, ok := Fetch[TVItem](ctx, c, fmt.Sprintf("/tv/%d", id), q)
		if !ok {
			return models.MediaItem{}, false
		}
		return c.MapTV(t), true
	}
	return models.MediaItem{}, false
}
