package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/csproj/cyberlab/internal/authoring"
	"github.com/csproj/cyberlab/internal/cache"
)

// SubmitTemplate captures a whole authoring tree as one immutable
// snapshot in the session cache. There is no partial save and no server
// write; downstream teacher screens read the snapshot back.
func (h *Handler) SubmitTemplate(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w) {
		return
	}

	var tree authoring.Tree
	if err := json.NewDecoder(r.Body).Decode(&tree); err != nil {
		Error(w, http.StatusBadRequest, "invalid template payload")
		return
	}

	if err := tree.Submit(h.cache); err != nil {
		Error(w, http.StatusInternalServerError, "failed to capture template")
		return
	}
	JSON(w, http.StatusOK, map[string]int{"objectives": len(tree.Objectives)})
}

// TemplateSnapshot reads the last submitted authoring tree back for the
// creation-overview, assignment, and finalization screens.
func (h *Handler) TemplateSnapshot(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w) {
		return
	}

	snap, ok := authoring.Snapshot(h.cache)
	if !ok {
		JSON(w, http.StatusNotFound, map[string]string{
			"error":    "no submitted template",
			"redirect": EntryRoute,
		})
		return
	}
	JSON(w, http.StatusOK, snap)
}

type selectTemplateRequest struct {
	TemplateID string `json:"templateId"`
}

// SelectTemplate resolves a template by id and caches it under the
// selection key for the assignment and point screens.
func (h *Handler) SelectTemplate(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w) {
		return
	}

	var req selectTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TemplateID == "" {
		Error(w, http.StatusBadRequest, "invalid selection payload")
		return
	}

	tmpl := h.client.FetchLabTemplate(r.Context(), req.TemplateID)
	if tmpl.IsZero() {
		Error(w, http.StatusNotFound, "template not found")
		return
	}

	h.cache.Set(cache.KeySelectedLabTemplate, tmpl, h.cfg.HandoffTTL)
	JSON(w, http.StatusOK, tmpl)
}

// ListTemplates returns a page of templates for the authoring list.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w) {
		return
	}

	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	JSON(w, http.StatusOK, h.client.FetchLabTemplates(r.Context(), limit, offset))
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
