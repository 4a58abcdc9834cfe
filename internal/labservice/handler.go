package labservice

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/csproj/cyberlab/internal/api"
	"github.com/go-chi/chi/v5"
)

// Handler serves the read-only document endpoints the portal's fetch
// boundary consumes.
type Handler struct {
	store *Store
}

// NewHandler creates a lab service handler.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes registers the document routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/users/{id}", h.GetUser)
	r.Get("/lab-template/list", h.ListTemplates)
	r.Get("/lab-template/{id}", h.GetTemplate)
}

// GetUser serves one user document.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		slog.Error("Failed to load user", "error", err, "user_id", id)
		api.Error(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		api.Error(w, http.StatusNotFound, "user not found")
		return
	}
	api.JSON(w, http.StatusOK, user)
}

// GetTemplate serves one lab template document.
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tmpl, err := h.store.GetTemplate(r.Context(), id)
	if err != nil {
		slog.Error("Failed to load template", "error", err, "template_id", id)
		api.Error(w, http.StatusInternalServerError, "failed to load template")
		return
	}
	if tmpl == nil {
		api.Error(w, http.StatusNotFound, "template not found")
		return
	}
	api.JSON(w, http.StatusOK, tmpl)
}

// ListTemplates serves a page of templates for the authoring list.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	templates, err := h.store.ListTemplates(r.Context(), limit, offset)
	if err != nil {
		slog.Error("Failed to list templates", "error", err, "limit", limit, "offset", offset)
		api.Error(w, http.StatusInternalServerError, "failed to list templates")
		return
	}
	api.JSON(w, http.StatusOK, templates)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
