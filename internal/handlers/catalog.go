package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"screenlist/internal/models"
	"screenlist/internal/services"
	"screenlist/internal/tmdb"
)

type Catalog interface {
	Home(ctx context.Context) models.HomeResponse
	CategoryPage(ctx context.Context, name string, page int) (models.PaginatedMediaItems, error)
	Search(ctx context.Context, q tmdb.SearchQuery) (models.PaginatedMediaItems, error)
	MovieDetails(ctx context.Context, id int) (services.MovieDetailsResponse, error)
	TVDetails(ctx context.Context, id int) (services.TVDetailsResponse, error)
}

type CatalogHandler struct {
	*base
	catalog Catalog
}

func NewCatalogHandler(catalog Catalog, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{base: newBase(logger), catalog: catalog}
}

// pageParam parses ?page=, defaulting to 1.
func pageParam(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, false
	}
	return page, true
}

// Home returns the first page of every category.
// GET /api/v1/home
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Home(r.Context()))
}

// GET /api/v1/home/{category}?page=N
func (h *CatalogHandler) Category(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(r)
	if !ok {
		jsonError(w, "Invalid page parameter", http.StatusBadRequest)
		return
	}

	result, err := h.catalog.CategoryPage(r.Context(), mux.Vars(r)["category"], page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GET /api/v1/search?query=&page=&include_adult=&language=&media_type=
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, ok := pageParam(r)
	if !ok {
		jsonError(w, "Invalid page parameter", http.StatusBadRequest)
		return
	}

	includeAdult := false
	if raw := q.Get("include_adult"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			jsonError(w, "Invalid include_adult parameter", http.StatusBadRequest)
			return
		}
		includeAdult = parsed
	}

	var mediaType models.MediaType
	if raw := q.Get("media_type"); raw != "" && raw != "all" && raw != "multi" {
		parsed, err := models.ParseMediaType(raw)
		if err != nil {
			jsonError(w, "Invalid media_type parameter", http.StatusBadRequest)
			return
		}
		mediaType = parsed
	}

	result, err := h.catalog.Search(r.Context(), tmdb.SearchQuery{
		Query:        q.Get("query"),
		Page:         page,
		IncludeAdult: includeAdult,
		Language:     q.Get("language"),
		MediaType:    mediaType,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func tmdbIDParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["tmdbId"])
	return id, err == nil && id > 0
}

// GET /api/v1/search/movie/{tmdbId}
func (h *CatalogHandler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := tmdbIDParam(r)
	if !ok {
		jsonError(w, "Invalid TMDB ID", http.StatusBadRequest)
		return
	}

	details, err := h.catalog.MovieDetails(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": details})
}

// GET /api/v1/search/tv/{tmdbId}
func (h *CatalogHandler) TVDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := tmdbIDParam(r)
	if !ok {
		jsonError(w, "Invalid TMDB ID", http.StatusBadRequest)
		return
	}

	details, err := h.catalog.TVDetails(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": details})
}
