package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"screenlist/internal/cache"
	"screenlist/internal/logger"
	"screenlist/internal/models"
	"screenlist/internal/repository"
	"screenlist/internal/tmdb"
)

type fakeUsers struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	deleted []string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) Update(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) Onboard(_ context.Context, id string, bio, country *string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Bio, u.Country, u.OnBoarded = bio, country, true
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeStore backs both watchlist fakes so items can be listed per watchlist.
type fakeStore struct {
	mu         sync.Mutex
	watchlists map[string]models.Watchlist
	items      map[string]models.WatchlistItem
	existsErr  error
	listErr    error
	lookups    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{watchlists: map[string]models.Watchlist{}, items: map[string]models.WatchlistItem{}}
}

type fakeWatchlists struct{ *fakeStore }

func (f fakeWatchlists) ListByOwner(_ context.Context, ownerID string) ([]models.Watchlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.Watchlist{}
	for _, w := range f.watchlists {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeWatchlists) GetByID(_ context.Context, id string) (*models.Watchlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	w, ok := f.watchlists[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (f fakeWatchlists) Create(_ context.Context, ownerID, name string) (*models.Watchlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := models.Watchlist{ID: uuid.NewString(), OwnerID: ownerID, Name: name, CreatedAt: time.Now().UTC()}
	f.watchlists[w.ID] = w
	return &w, nil
}

func (f fakeWatchlists) Rename(_ context.Context, id, name string) (*models.Watchlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.watchlists[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	w.Name = name
	f.watchlists[id] = w
	return &w, nil
}

func (f fakeWatchlists) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.watchlists[id]; !ok {
		return repository.ErrNotFound
	}
	for itemID, item := range f.items {
		if item.WatchlistID == id {
			delete(f.items, itemID)
		}
	}
	delete(f.watchlists, id)
	return nil
}

type fakeItems struct{ *fakeStore }

func (f fakeItems) ListByWatchlist(_ context.Context, watchlistID string) ([]models.WatchlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.WatchlistItem{}
	for _, item := range f.items {
		if item.WatchlistID == watchlistID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TMDBID < out[j].TMDBID })
	return out, nil
}

func (f fakeItems) GetInWatchlist(_ context.Context, watchlistID, itemID string) (*models.WatchlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok || item.WatchlistID != watchlistID {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

func (f fakeItems) ExistsByTMDBID(_ context.Context, tmdbID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, item := range f.items {
		if item.TMDBID == tmdbID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeItems) Create(_ context.Context, item *models.WatchlistItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = uuid.NewString()
	f.items[item.ID] = *item
	return nil
}

func (f fakeItems) Update(_ context.Context, itemID string, changes repository.ItemChanges) (*models.WatchlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if changes.Status != nil {
		item.Status = *changes.Status
	}
	if changes.ClearSchedule {
		item.ScheduledAt = nil
	} else if changes.ScheduledAt != nil {
		item.ScheduledAt = changes.ScheduledAt
	}
	f.items[itemID] = item
	return &item, nil
}

func (f fakeItems) Delete(_ context.Context, watchlistID, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok || item.WatchlistID != watchlistID {
		return repository.ErrNotFound
	}
	delete(f.items, itemID)
	return nil
}

type fakeMedia struct {
	mu      sync.Mutex
	known   map[int]models.MediaItem
	lookups int
}

func (f *fakeMedia) Media(_ context.Context, mediaType models.MediaType, id int) (models.MediaItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	item, ok := f.known[id]
	if !ok || item.MediaType != mediaType {
		return models.MediaItem{}, false
	}
	return item, true
}

func newAccessor() (*cache.Accessor, *cache.MemoryStore) {
	store := cache.NewMemoryStore(time.Minute)
	return cache.NewAccessor(store, logger.Discard()), store
}

// tmdbStub serves canned bodies by path; unknown paths answer 404.
type tmdbStub struct {
	mu     sync.Mutex
	bodies map[string]string
	status map[string]int
	hits   map[string]int
}

func newTMDBStub() *tmdbStub {
	return &tmdbStub{bodies: map[string]string{}, status: map[string]int{}, hits: map[string]int{}}
}

func (s *tmdbStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	body, ok := s.bodies[r.URL.Path]
	code, failing := s.status[r.URL.Path]
	s.mu.Unlock()

	switch {
	case failing:
		w.WriteHeader(code)
	case !ok:
		w.WriteHeader(http.StatusNotFound)
	default:
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}
}

func (s *tmdbStub) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func newTMDBClient(t *testing.T, stub *tmdbStub) *tmdb.Client {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return tmdb.NewClient(tmdb.ClientConfig{
		BaseURL:    srv.URL,
		APIKey:     "test",
		Timeout:    time.Second,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		Logger:     logger.Discard(),
	})
}
