package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenlist/internal/cache"
	"screenlist/internal/logger"
	"screenlist/internal/models"
)

type userFixture struct {
	svc    *UserService
	users  *fakeUsers
	store  *fakeStore
	tokens *TokenService
	cache  *cache.Accessor
}

func newUserFixture(t *testing.T) userFixture {
	t.Helper()
	accessor, _ := newAccessor()
	users := newFakeUsers()
	store := newFakeStore()
	tokens := NewTokenService("test-secret", time.Hour)
	svc := NewUserService(UserServiceConfig{
		Users:       users,
		Watchlists:  fakeWatchlists{store},
		Tokens:      tokens,
		Cache:       accessor,
		Invalidator: cache.NewInvalidator(accessor, logger.Discard()),
		Logger:      logger.Discard(),
	})
	return userFixture{svc: svc, users: users, store: store, tokens: tokens, cache: accessor}
}

func register(t *testing.T, f userFixture) *models.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     " Ada@Example.com ",
		Password:  "correct horse",
	})
	require.NoError(t, err)
	return u
}

func TestRegisterHashesPasswordAndNormalizesEmail(t *testing.T) {
	f := newUserFixture(t)
	u := register(t, f)

	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "correct horse", u.PasswordHash)
	assert.False(t, u.OnBoarded)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newUserFixture(t)
	register(t, f)

	_, err := f.svc.Register(context.Background(), RegisterInput{
		FirstName: "A", LastName: "L", Email: "ada@example.com", Password: "whatever1",
	})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLogin(t *testing.T) {
	f := newUserFixture(t)
	u := register(t, f)
	ctx := context.Background()

	token, err := f.svc.Login(ctx, LoginInput{Email: "ADA@example.com", Password: "correct horse"})
	require.NoError(t, err)
	claims, err := f.tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.ID)
	assert.False(t, claims.OnBoarded)

	_, err = f.svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = f.svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOnboardIssuesOnboardedToken(t *testing.T) {
	f := newUserFixture(t)
	u := register(t, f)
	ctx := context.Background()

	_, err := f.svc.Profile(ctx, u.ID)
	require.NoError(t, err)

	bio, country := "Mathematician", "GB"
	token, err := f.svc.Onboard(ctx, u.ID, OnboardInput{Bio: &bio, Country: &country})
	require.NoError(t, err)

	claims, err := f.tokens.Parse(token)
	require.NoError(t, err)
	assert.True(t, claims.OnBoarded)

	profile, err := f.svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.Bio)
	assert.Equal(t, "Mathematician", *profile.Bio)
}

func TestProfileIsCached(t *testing.T) {
	f := newUserFixture(t)
	u := register(t, f)
	ctx := context.Background()

	_, err := f.svc.Profile(ctx, u.ID)
	require.NoError(t, err)

	delete(f.users.byID, u.ID)

	profile, err := f.svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)
}

func TestUpdateProfileRewritesCache(t *testing.T) {
	f := newUserFixture(t)
	u := register(t, f)
	ctx := context.Background()

	_, err := f.svc.UpdateProfile(ctx, u.ID, ProfileUpdate{})
	assert.ErrorIs(t, err, ErrNoUpdates)

	name := "Augusta"
	updated, err := f.svc.UpdateProfile(ctx, u.ID, ProfileUpdate{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)

	cached, ok := cache.Read[models.Profile](ctx, f.cache, cache.ProfileKey(u.ID), time.Hour)
	require.True(t, ok)
	assert.Equal(t, "Augusta", cached.FirstName)
}

func TestDeleteAccountPurgesCaches(t *testing.T) {
	f := newUserFixture(t)
	u := register(t, f)
	ctx := context.Background()

	w, err := fakeWatchlists{f.store}.Create(ctx, u.ID, "Mine")
	require.NoError(t, err)
	f.cache.Write(ctx, cache.WatchlistKey(w.ID), *w, time.Hour)
	_, err = f.svc.Profile(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteAccount(ctx, u.ID))

	_, ok := cache.Read[models.Profile](ctx, f.cache, cache.ProfileKey(u.ID), time.Hour)
	assert.False(t, ok)
	_, ok = cache.Read[models.Watchlist](ctx, f.cache, cache.WatchlistKey(w.ID), time.Hour)
	assert.False(t, ok)
	assert.Equal(t, []string{u.ID}, f.users.deleted)

	assert.ErrorIs(t, f.svc.DeleteAccount(ctx, u.ID), ErrNotFound)
}

func TestDeleteAccountKeepsUserWhenWatchlistsCannotBeListed(t *testing.T) {
	f := newUserFixture(t)
	u := register(t, f)
	ctx := context.Background()

	w, err := fakeWatchlists{f.store}.Create(ctx, u.ID, "Mine")
	require.NoError(t, err)
	f.store.listErr = errors.New("db timeout")

	err = f.svc.DeleteAccount(ctx, u.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.users.deleted)

	_, err = f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)

	f.store.listErr = nil
	f.cache.Write(ctx, cache.WatchlistKey(w.ID), *w, time.Hour)
	require.NoError(t, f.svc.DeleteAccount(ctx, u.ID))
	_, ok := cache.Read[models.Watchlist](ctx, f.cache, cache.WatchlistKey(w.ID), time.Hour)
	assert.False(t, ok)
}

func TestTokenRejectsExpiredAndForeignTokens(t *testing.T) {
	tokens := NewTokenService("secret", time.Minute)
	now := time.Now()
	tokens.now = func() time.Time { return now }

	token, err := tokens.Issue(&models.User{ID: "u1", OnBoarded: true})
	require.NoError(t, err)
	_, err = tokens.Parse(token)
	require.NoError(t, err)

	tokens.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = tokens.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenService("other-secret", time.Minute)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
