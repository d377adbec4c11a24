package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/iter"

	"screenlist/internal/cache"
	"screenlist/internal/models"
	"screenlist/internal/tmdb"
)

type MovieDetailsResponse struct {
	Details        tmdb.MovieDetails                 `json:"details"`
	WatchProviders map[string]tmdb.WatchProviderData `json:"watchProviders"`
}

type TVDetailsResponse struct {
	Details        tmdb.TVDetails                    `json:"details"`
	WatchProviders map[string]tmdb.WatchProviderData `json:"watchProviders"`
	Seasons        []tmdb.SeasonDetails              `json:"seasons"`
}

// CatalogService serves TMDB-backed reads through the cache.
type CatalogService struct {
	tmdb   *tmdb.Client
	cache  *cache.Accessor
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCatalogService(client *tmdb.Client, accessor *cache.Accessor, ttl time.Duration, logger *logrus.Logger) *CatalogService {
	if logger == nil {
		logger = logrus.New()
	}
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &CatalogService{tmdb: client, cache: accessor, ttl: ttl, logger: logger}
}

// Home returns the first page of every category. Sections TMDB could not
// serve are empty; the feed itself never fails.
func (s *CatalogService) Home(ctx context.Context) models.HomeResponse {
	if cached, ok := cache.Read[models.HomeResponse](ctx, s.cache, cache.HomeKey(), s.ttl); ok {
		return cached
	}

	sections := make([][]models.MediaItem, len(tmdb.Categories))
	var wg conc.WaitGroup
	for i, category := range tmdb.Categories {
		wg.Go(func() {
			page, ok := s.tmdb.CategoryPage(ctx, category, 1)
			if !ok {
				s.logger.WithField("category", category.Name).Warn("Home section unavailable")
				sections[i] = []models.MediaItem{}
				return
			}
			sections[i] = page.Results
		})
	}
	wg.Wait()

	home := models.HomeResponse{
		TrendingMovies: sections[0],
		TrendingTV:     sections[1],
		PopularMovies:  sections[2],
		PopularTV:      sections[3],
		UpcomingMovies: sections[4],
		OnAirTV:        sections[5],
		TopRatedMovies: sections[6],
		TopRatedTV:     sections[7],
	}

	s.cache.Write(ctx, cache.HomeKey(), home, s.ttl)
	return home
}

func (s *CatalogService) CategoryPage(ctx context.Context, name string, page int) (models.PaginatedMediaItems, error) {
	category, ok := tmdb.CategoryByName(name)
	if !ok {
		return models.PaginatedMediaItems{}, fmt.Errorf("%w: unknown category %q", ErrNotFound, name)
	}
	if page < 1 {
		return models.PaginatedMediaItems{}, fmt.Errorf("%w: invalid page parameter", ErrInvalidInput)
	}

	return cache.Load(ctx, s.cache, cache.PageKey(category.Name, page), s.ttl,
		func(ctx context.Context) (models.PaginatedMediaItems, error) {
			result, ok := s.tmdb.CategoryPage(ctx, category, page)
			if !ok {
				return result, fmt.Errorf("%w: failed to fetch %s", ErrUnavailable, strings.ReplaceAll(category.Name, "_", " "))
			}
			return result, nil
		})
}

func (s *CatalogService) Search(ctx context.Context, q tmdb.SearchQuery) (models.PaginatedMediaItems, error) {
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		return models.PaginatedMediaItems{}, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	if q.Page < 1 {
		return models.PaginatedMediaItems{}, fmt.Errorf("%w: invalid page parameter", ErrInvalidInput)
	}
	if q.Language == "" {
		q.Language = tmdb.DefaultLanguage
	}

	key := cache.SearchKey(q.Query, q.Page, q.IncludeAdult, q.Language, string(q.MediaType))
	return cache.Load(ctx, s.cache, key, s.ttl,
		func(ctx context.Context) (models.PaginatedMediaItems, error) {
			result, ok := s.tmdb.Search(ctx, q)
			if !ok {
				return result, fmt.Errorf("%w: search failed", ErrUnavailable)
			}
			return result, nil
		})
}

func providersOrEmpty(p tmdb.WatchProviders, ok bool) map[string]tmdb.WatchProviderData {
	if !ok || p.Results == nil {
		return map[string]tmdb.WatchProviderData{}
	}
	return p.Results
}

// MovieDetails fetches details and watch providers together. Providers are optional.
func (s *CatalogService) MovieDetails(ctx context.Context, id int) (MovieDetailsResponse, error) {
	return cache.Load(ctx, s.cache, cache.DetailsKey(string(models.MediaTypeMovie), id), s.ttl,
		func(ctx context.Context) (MovieDetailsResponse, error) {
			var (
				details     tmdb.MovieDetails
				detailsOK   bool
				providers   tmdb.WatchProviders
				providersOK bool
				wg          conc.WaitGroup
			)
			wg.Go(func() { details, detailsOK = s.tmdb.MovieDetails(ctx, id) })
			wg.Go(func() { providers, providersOK = s.tmdb.WatchProviders(ctx, models.MediaTypeMovie, id) })
			wg.Wait()

			if !detailsOK {
				return MovieDetailsResponse{}, fmt.Errorf("%w: failed to fetch movie details", ErrUnavailable)
			}
			return MovieDetailsResponse{
				Details:        details,
				WatchProviders: providersOrEmpty(providers, providersOK),
			}, nil
		})
}

// TVDetails is MovieDetails plus every season; seasons TMDB could not serve are left out.
func (s *CatalogService) TVDetails(ctx context.Context, id int) (TVDetailsResponse, error) {
	return cache.Load(ctx, s.cache, cache.DetailsKey(string(models.MediaTypeTV), id), s.ttl,
		func(ctx context.Context) (TVDetailsResponse, error) {
			var (
				details     tmdb.TVDetails
				detailsOK   bool
				providers   tmdb.WatchProviders
				providersOK bool
				wg          conc.WaitGroup
			)
			wg.Go(func() { details, detailsOK = s.tmdb.TVDetails(ctx, id) })
			wg.Go(func() { providers, providersOK = s.tmdb.WatchProviders(ctx, models.MediaTypeTV, id) })
			wg.Wait()

			if !detailsOK {
				return TVDetailsResponse{}, fmt.Errorf("%w: failed to fetch TV show details", ErrUnavailable)
			}

			type seasonResult struct {
				details tmdb.SeasonDetails
				ok      bool
			}
			fetched := iter.Map(details.Seasons, func(season *tmdb.Season) seasonResult {
				d, ok := s.tmdb.Season(ctx, id, season.SeasonNumber)
				return seasonResult{details: d, ok: ok}
			})

			seasons := make([]tmdb.SeasonDetails, 0, len(fetched))
			for _, r := range fetched {
				if r.ok {
					seasons = append(seasons, r.details)
				}
			}

			return TVDetailsResponse{
				Details:        details,
				WatchProviders: providersOrEmpty(providers, providersOK),
				Seasons:        seasons,
			}, nil
		})
}

// Media returns the normalised catalog entry for a watchlist item.
func (s *CatalogService) Media(ctx context.Context, mediaType models.MediaType, id int) (models.MediaItem, bool) {
	key := cache.MediaKey(string(mediaType), id)
	if cached, ok := cache.Read[models.MediaItem](ctx, s.cache, key, s.ttl); ok {
		return cached, true
	}

	item, ok := s.tmdb.Media(ctx, mediaType, id)
	if !ok {
		return models.MediaItem{}, false
	}
	s.cache.Write(ctx, key, item, s.ttl)
	return item, true
}
