package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/iter"

	"screenlist/internal/cache"
	"screenlist/internal/models"
	"screenlist/internal/repository"
)

// MediaLookup resolves a watchlist item to its catalog entry.
type MediaLookup interface {
	Media(ctx context.Context, mediaType models.MediaType, id int) (models.MediaItem, bool)
}

type WatchlistInput struct {
	Name string `json:"name" validate:"required,max=200"`
}

type AddItemInput struct {
	TMDBID      int        `json:"tmdb_id" validate:"required,gt=0"`
	MediaType   string     `json:"media_type" validate:"required"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

type UpdateItemInput struct {
	Status      *string             `json:"status"`
	ScheduledAt models.OptionalTime `json:"scheduled_at"`
}

type WatchlistService struct {
	watchlists  repository.WatchlistRepository
	items       repository.WatchlistItemRepository
	media       MediaLookup
	cache       *cache.Accessor
	invalidator *cache.Invalidator
	ttl         time.Duration
	logger      *logrus.Logger
}

type WatchlistServiceConfig struct {
	Watchlists  repository.WatchlistRepository
	Items       repository.WatchlistItemRepository
	Media       MediaLookup
	Cache       *cache.Accessor
	Invalidator *cache.Invalidator
	TTL         time.Duration
	Logger      *logrus.Logger
}

func NewWatchlistService(config WatchlistServiceConfig) *WatchlistService {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	if config.TTL <= 0 {
		config.TTL = cache.DefaultTTL
	}
	return &WatchlistService{
		watchlists:  config.Watchlists,
		items:       config.Items,
		media:       config.Media,
		cache:       config.Cache,
		invalidator: config.Invalidator,
		ttl:         config.TTL,
		logger:      config.Logger,
	}
}

func (s *WatchlistService) List(ctx context.Context, ownerID string) ([]models.Watchlist, error) {
	return cache.Load(ctx, s.cache, cache.UserWatchlistsKey(ownerID), s.ttl,
		func(ctx context.Context) ([]models.Watchlist, error) {
			return s.watchlists.ListByOwner(ctx, ownerID)
		})
}

// owned loads the watchlist and checks it belongs to ownerID.
func (s *WatchlistService) owned(ctx context.Context, ownerID, watchlistID string) (models.Watchlist, error) {
	w, err := cache.Load(ctx, s.cache, cache.WatchlistKey(watchlistID), s.ttl,
		func(ctx context.Context) (models.Watchlist, error) {
			w, err := s.watchlists.GetByID(ctx, watchlistID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return models.Watchlist{}, fmt.Errorf("%w: watchlist not found", ErrNotFound)
				}
				return models.Watchlist{}, err
			}
			return *w, nil
		})
	if err != nil {
		return models.Watchlist{}, err
	}
	if w.OwnerID != ownerID {
		return models.Watchlist{}, ErrForbidden
	}
	return w, nil
}

func (s *WatchlistService) Get(ctx context.Context, ownerID, watchlistID string) (models.Watchlist, error) {
	return s.owned(ctx, ownerID, watchlistID)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: watchlist name is required", ErrInvalidInput)
	}
	return name, nil
}

func (s *WatchlistService) Create(ctx context.Context, ownerID string, in WatchlistInput) (*models.Watchlist, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}

	w, err := s.watchlists.Create(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}

	s.invalidator.Watchlists(ctx, ownerID)
	s.logger.WithFields(logrus.Fields{
		"user_id":      ownerID,
		"watchlist_id": w.ID,
	}).Info("Watchlist created")
	return w, nil
}

func (s *WatchlistService) Rename(ctx context.Context, ownerID, watchlistID string, in WatchlistInput) (*models.Watchlist, error) {
	if _, err := s.owned(ctx, ownerID, watchlistID); err != nil {
		return nil, err
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}

	w, err := s.watchlists.Rename(ctx, watchlistID, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: watchlist not found", ErrNotFound)
		}
		return nil, err
	}

	s.invalidator.Watchlist(ctx, watchlistID, ownerID)
	return w, nil
}

func (s *WatchlistService) Delete(ctx context.Context, ownerID, watchlistID string) error {
	if _, err := s.owned(ctx, ownerID, watchlistID); err != nil {
		return err
	}

	if err := s.watchlists.Delete(ctx, watchlistID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: watchlist not found", ErrNotFound)
		}
		return err
	}

	s.invalidator.Watchlist(ctx, watchlistID, ownerID)
	s.logger.WithFields(logrus.Fields{
		"user_id":      ownerID,
		"watchlist_id": watchlistID,
	}).Info("Watchlist deleted")
	return nil
}

// Items returns the watchlist's items, each enriched with its catalog entry
// when TMDB can provide one.
func (s *WatchlistService) Items(ctx context.Context, ownerID, watchlistID string) ([]models.WatchlistItemWithMedia, error) {
	if _, err := s.owned(ctx, ownerID, watchlistID); err != nil {
		return nil, err
	}

	return cache.Load(ctx, s.cache, cache.WatchlistItemsKey(watchlistID), s.ttl,
		func(ctx context.Context) ([]models.WatchlistItemWithMedia, error) {
			items, err := s.items.ListByWatchlist(ctx, watchlistID)
			if err != nil {
				return nil, err
			}
			return s.enrich(ctx, items), nil
		})
}

func (s *WatchlistService) enrich(ctx context.Context, items []models.WatchlistItem) []models.WatchlistItemWithMedia {
	return iter.Map(items, func(item *models.WatchlistItem) models.WatchlistItemWithMedia {
		out := models.WatchlistItemWithMedia{WatchlistItem: *item}
		if media, ok := s.media.Media(ctx, item.MediaType, item.TMDBID); ok {
			out.MediaDetails = &media
		}
		return out
	})
}

func (s *WatchlistService) AddItem(ctx context.Context, ownerID, watchlistID string, in AddItemInput) (*models.WatchlistItem, error) {
	if _, err := s.owned(ctx, ownerID, watchlistID); err != nil {
		return nil, err
	}

	if in.TMDBID <= 0 {
		return nil, fmt.Errorf("%w: valid TMDB ID is required", ErrInvalidInput)
	}
	mediaType, err := models.ParseMediaType(in.MediaType)
	if err != nil {
		return nil, fmt.Errorf("%w: valid media type (movie or tv) is required", ErrInvalidInput)
	}
	status := models.StatusPlanned
	if in.Status != "" {
		if status, err = models.ParseStatus(in.Status); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	exists, err := s.items.ExistsByTMDBID(ctx, in.TMDBID)
	switch {
	case err != nil:
		s.logger.WithError(err).WithField("tmdb_id", in.TMDBID).Error("Error checking for existing item")
	case exists:
		return nil, ErrDuplicateItem
	}

	item := &models.WatchlistItem{
		WatchlistID: watchlistID,
		TMDBID:      in.TMDBID,
		MediaType:   mediaType,
		Status:      status,
		ScheduledAt: in.ScheduledAt,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	s.invalidator.WatchlistItem(ctx, watchlistID, ownerID)
	return item, nil
}

func (s *WatchlistService) UpdateItem(ctx context.Context, ownerID, watchlistID, itemID string, in UpdateItemInput) (*models.WatchlistItem, error) {
	if _, err := s.owned(ctx, ownerID, watchlistID); err != nil {
		return nil, err
	}
	if _, err := s.items.GetInWatchlist(ctx, watchlistID, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: item not found in this watchlist", ErrNotFound)
		}
		return nil, err
	}

	var changes repository.ItemChanges
	if in.Status != nil {
		status, err := models.ParseStatus(*in.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		changes.Status = &status
	}
	if in.ScheduledAt.Set {
		changes.ScheduledAt = in.ScheduledAt.Value
		changes.ClearSchedule = in.ScheduledAt.Value == nil
	}
	if changes.Empty() {
		return nil, ErrNoUpdates
	}

	item, err := s.items.Update(ctx, itemID, changes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: item not found in this watchlist", ErrNotFound)
		}
		return nil, err
	}

	s.invalidator.WatchlistItem(ctx, watchlistID, ownerID)
	return item, nil
}

func (s *WatchlistService) DeleteItem(ctx context.Context, ownerID, watchlistID, itemID string) error {
	if _, err := s.owned(ctx, ownerID, watchlistID); err != nil {
		return err
	}

	if err := s.items.Delete(ctx, watchlistID, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: item not found in this watchlist", ErrNotFound)
		}
		return err
	}

	s.invalidator.WatchlistItem(ctx, watchlistID, ownerID)
	return nil
}
