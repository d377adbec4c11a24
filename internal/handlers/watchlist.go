package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"screenlist/internal/models"
	"screenlist/internal/services"
)

type Watchlists interface {
	List(ctx context.Context, ownerID string) ([]models.Watchlist, error)
	Get(ctx context.Context, ownerID, watchlistID string) (models.Watchlist, error)
	Create(ctx context.Context, ownerID string, in services.WatchlistInput) (*models.Watchlist, error)
	Rename(ctx context.Context, ownerID, watchlistID string, in services.WatchlistInput) (*models.Watchlist, error)
	Delete(ctx context.Context, ownerID, watchlistID string) error
	Items(ctx context.Context, ownerID, watchlistID string) ([]models.WatchlistItemWithMedia, error)
	AddItem(ctx context.Context, ownerID, watchlistID string, in services.AddItemInput) (*models.WatchlistItem, error)
	UpdateItem(ctx context.Context, ownerID, watchlistID, itemID string, in services.UpdateItemInput) (*models.WatchlistItem, error)
	DeleteItem(ctx context.Context, ownerID, watchlistID, itemID string) error
}

type WatchlistHandler struct {
	*base
	watchlists Watchlists
}

func NewWatchlistHandler(watchlists Watchlists, logger *logrus.Logger) *WatchlistHandler {
	return &WatchlistHandler{base: newBase(logger), watchlists: watchlists}
}

// GET /api/v1/watchlists
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	lists, err := h.watchlists.List(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "watchlists": lists})
}

// POST /api/v1/watchlists
func (h *WatchlistHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var in services.WatchlistInput
	if err := h.decode(r, &in); err != nil {
		h.badRequest(w, err)
		return
	}

	created, err := h.watchlists.Create(r.Context(), userID, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "watchlist": created})
}

// GET /api/v1/watchlists/{id}
func (h *WatchlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	found, err := h.watchlists.Get(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "watchlist": found})
}

// PUT /api/v1/watchlists/{id}
func (h *WatchlistHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var in services.WatchlistInput
	if err := h.decode(r, &in); err != nil {
		h.badRequest(w, err)
		return
	}

	updated, err := h.watchlists.Rename(r.Context(), userID, mux.Vars(r)["id"], in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "watchlist": updated})
}

// DELETE /api/v1/watchlists/{id}
func (h *WatchlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := h.watchlists.Delete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Watchlist deleted successfully"})
}

// GET /api/v1/watchlists/{id}/items
func (h *WatchlistHandler) Items(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	items, err := h.watchlists.Items(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "items": items})
}

// POST /api/v1/watchlists/{id}/items
func (h *WatchlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var in services.AddItemInput
	if err := h.decode(r, &in); err != nil {
		h.badRequest(w, err)
		return
	}

	item, err := h.watchlists.AddItem(r.Context(), userID, mux.Vars(r)["id"], in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "item": item})
}

// PUT /api/v1/watchlists/{id}/items/{itemId}
func (h *WatchlistHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	vars := mux.Vars(r)

	var in services.UpdateItemInput
	if err := h.decode(r, &in); err != nil {
		h.badRequest(w, err)
		return
	}

	item, err := h.watchlists.UpdateItem(r.Context(), userID, vars["id"], vars["itemId"], in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "item": item})
}

// DELETE /api/v1/watchlists/{id}/items/{itemId}
func (h *WatchlistHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	vars := mux.Vars(r)

	if err := h.watchlists.DeleteItem(r.Context(), userID, vars["id"], vars["itemId"]); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Item removed from watchlist"})
}
