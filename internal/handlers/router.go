package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Deps struct {
	Accounts   Accounts
	Catalog    Catalog
	Watchlists Watchlists
	Tokens     TokenParser

	// Health maps a dependency name to its probe, e.g. "database" or "cache".
	Health map[string]Pinger
	Logger *logrus.Logger
}

// NewRouter wires every API route under /api/v1.
func NewRouter(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}

	auth := NewAuthHandler(deps.Accounts, deps.Logger)
	catalog := NewCatalogHandler(deps.Catalog, deps.Logger)
	watchlists := NewWatchlistHandler(deps.Watchlists, deps.Logger)

	r := mux.NewRouter()
	r.Use(requestLogger(deps.Logger))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		jsonError(w, "Route not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	r.Handle("/health", &healthHandler{checks: deps.Health, logger: deps.Logger}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/register", auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost)

	private := api.NewRoute().Subrouter()
	private.Use(RequireAuth(deps.Tokens))

	private.HandleFunc("/auth/onboard", auth.Onboard).Methods(http.MethodPost)
	private.HandleFunc("/user/profile", auth.GetProfile).Methods(http.MethodGet)
	private.HandleFunc("/user/profile", auth.UpdateProfile).Methods(http.MethodPut)
	private.HandleFunc("/user/profile", auth.DeleteProfile).Methods(http.MethodDelete)

	private.HandleFunc("/home", catalog.Home).Methods(http.MethodGet)
	private.HandleFunc("/home/{category}", catalog.Category).Methods(http.MethodGet)
	private.HandleFunc("/search", catalog.Search).Methods(http.MethodGet)
	private.HandleFunc("/search/movie/{tmdbId}", catalog.MovieDetails).Methods(http.MethodGet)
	private.HandleFunc("/search/tv/{tmdbId}", catalog.TVDetails).Methods(http.MethodGet)

	private.HandleFunc("/watchlists", watchlists.List).Methods(http.MethodGet)
	private.HandleFunc("/watchlists", watchlists.Create).Methods(http.MethodPost)
	private.HandleFunc("/watchlists/{id}", watchlists.Get).Methods(http.MethodGet)
	private.HandleFunc("/watchlists/{id}", watchlists.Update).Methods(http.MethodPut)
	private.HandleFunc("/watchlists/{id}", watchlists.Delete).Methods(http.MethodDelete)
	private.HandleFunc("/watchlists/{id}/items", watchlists.Items).Methods(http.MethodGet)
	private.HandleFunc("/watchlists/{id}/items", watchlists.AddItem).Methods(http.MethodPost)
	private.HandleFunc("/watchlists/{id}/items/{itemId}", watchlists.UpdateItem).Methods(http.MethodPut)
	private.HandleFunc("/watchlists/{id}/items/{itemId}", watchlists.DeleteItem).Methods(http.MethodDelete)

	return corsMiddleware(r)
}
