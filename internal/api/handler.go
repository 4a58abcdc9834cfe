// Package api provides HTTP handlers for the cyberlab portal.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/csproj/cyberlab/internal/cache"
	"github.com/csproj/cyberlab/internal/config"
	"github.com/csproj/cyberlab/internal/fetch"
	"github.com/csproj/cyberlab/internal/handoff"
	"github.com/csproj/cyberlab/internal/lab"
)

// EntryRoute is where gated screens send users whose session is absent
// or expired.
const EntryRoute = "/"

// Handler carries the portal's shared dependencies.
type Handler struct {
	cache    *cache.Cache
	client   *fetch.Client
	resolver *handoff.Resolver
	runners  *lab.Manager
	cfg      *config.Config
}

// NewHandler creates a portal handler.
func NewHandler(c *cache.Cache, client *fetch.Client, resolver *handoff.Resolver, runners *lab.Manager, cfg *config.Config) *Handler {
	return &Handler{
		cache:    c,
		client:   client,
		resolver: resolver,
		runners:  runners,
		cfg:      cfg,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// sessionRole reads the logged-in role from the session cache. A miss
// means the session is absent or expired; gated handlers respond with
// a redirect hint to the entry screen, never with empty data.
func (h *Handler) sessionRole() (string, bool) {
	return cache.Value[string](h.cache, cache.KeyUser)
}

func (h *Handler) requireSession(w http.ResponseWriter) bool {
	if _, ok := h.sessionRole(); !ok {
		JSON(w, http.StatusUnauthorized, map[string]string{
			"error":    "no active session",
			"redirect": EntryRoute,
		})
		return false
	}
	return true
}
