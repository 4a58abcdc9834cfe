package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/csproj/cyberlab/internal/lab"
	"github.com/go-chi/chi/v5"
)

// currentUser tracks which injected account holds the process session.
// It mirrors the session cache's lifetime: one interactive user per
// portal process.
var (
	currentUserMu sync.Mutex
	currentUserID string
)

func (h *Handler) setCurrentUser(id string) {
	currentUserMu.Lock()
	defer currentUserMu.Unlock()
	currentUserID = id
}

func (h *Handler) currentUser() string {
	currentUserMu.Lock()
	defer currentUserMu.Unlock()
	return currentUserID
}

// RegisterRoutes registers the portal's API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/session/resolve", h.ResolveSession)
		r.Get("/labs", h.ListLabs)
		r.Get("/lab", h.CurrentObjective)
		r.Post("/lab/next", h.NextObjective)
		r.Post("/lab/prev", h.PrevObjective)
		r.Post("/lab/answer", h.AnswerQuestion)
		r.Post("/template/submit", h.SubmitTemplate)
		r.Get("/template", h.TemplateSnapshot)
		r.Post("/template/select", h.SelectTemplate)
		r.Get("/templates", h.ListTemplates)
	})
}

// ResolveSession performs the identity hand-off: it derives the current
// user's active lab and leaves its identifier in the session cache for
// the lab screen to pick up.
func (h *Handler) ResolveSession(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w) {
		return
	}
	userID := h.currentUser()

	labID := h.resolver.ResolveActiveLab(r.Context(), userID)
	if labID == "" {
		Error(w, http.StatusNotFound, "no active lab")
		return
	}

	// Bind the student's instance to their runner so answers and
	// completion land on it.
	user := h.client.FetchUser(r.Context(), userID)
	runner := h.runners.GetOrCreate(userID)
	for i := range user.LabInstances {
		if user.LabInstances[i].TemplateID == labID {
			runner.AttachInstance(&user.LabInstances[i])
			break
		}
	}

	JSON(w, http.StatusOK, map[string]string{"labId": labID})
}

type labListEntry struct {
	TemplateName string    `json:"templateName"`
	TemplateID   string    `json:"templateId"`
	DueDate      time.Time `json:"dueDate"`
	Completed    bool      `json:"completed"`
}

// ListLabs splits the user's assigned labs into upcoming and previous
// by due date, the course-list view.
func (h *Handler) ListLabs(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w) {
		return
	}

	user := h.client.FetchUser(r.Context(), h.currentUser())
	now := time.Now()
	upcoming := []labListEntry{}
	previous := []labListEntry{}
	for i := range user.LabInstances {
		inst := &user.LabInstances[i]
		entry := labListEntry{
			TemplateName: inst.TemplateName,
			TemplateID:   inst.TemplateID,
			DueDate:      inst.DueDate,
			Completed:    inst.Completed,
		}
		if inst.Due(now) {
			upcoming = append(upcoming, entry)
		} else {
			previous = append(previous, entry)
		}
	}

	JSON(w, http.StatusOK, map[string][]labListEntry{
		"upcoming": upcoming,
		"previous": previous,
	})
}

type labStateResponse struct {
	State     string             `json:"state"`
	Index     int                `json:"index,omitempty"`
	Progress  *float64           `json:"progress,omitempty"`
	Objective *lab.ObjectiveView `json:"objective,omitempty"`
	Handoff   string             `json:"handoff,omitempty"`
}

func labState(runner *lab.Runner) labStateResponse {
	if !runner.Loaded() {
		return labStateResponse{State: "loading"}
	}
	resp := labStateResponse{State: "objective", Index: runner.Index()}
	if p, ok := runner.Progress(); ok {
		resp.Progress = &p
	}
	if obj, ok := runner.Current(); ok {
		resp.Objective = &obj
	}
	return resp
}

// CurrentObjective renders the stepper's current position. A runner
// that cannot resolve its lab identifier stays in the loading state and
// renders inert rather than failing.
func (h *Handler) CurrentObjective(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w) {
		return
	}
	runner := h.runners.GetOrCreate(h.currentUser())
	if !runner.Loaded() {
		runner.Load(r.Context())
	}
	JSON(w, http.StatusOK, labState(runner))
}

// NextObjective advances the stepper; past the last objective it
// reports the results hand-off.
func (h *Handler) NextObjective(w http.ResponseWriter, r *http.Request) {
	h.step(w, (*lab.Runner).Next)
}

// PrevObjective steps back; before the first objective it reports the
// course-list hand-off.
func (h *Handler) PrevObjective(w http.ResponseWriter, r *http.Request) {
	h.step(w, (*lab.Runner).Prev)
}

func (h *Handler) step(w http.ResponseWriter, move func(*lab.Runner) lab.Handoff) {
	if !h.requireSession(w) {
		return
	}
	runner := h.runners.GetOrCreate(h.currentUser())
	handoff := move(runner)
	resp := labState(runner)
	if handoff != lab.HandoffNone {
		resp.Handoff = handoff.String()
	}
	JSON(w, http.StatusOK, resp)
}

type answerRequest struct {
	QuestionNumber int     `json:"questionNumber"`
	Text           *string `json:"text,omitempty"`
	OptionIndex    *int    `json:"optionIndex,omitempty"`
}

// AnswerQuestion captures a written or choice answer for the current
// run.
func (h *Handler) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w) {
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid answer payload")
		return
	}

	runner := h.runners.GetOrCreate(h.currentUser())
	var ok bool
	switch {
	case req.Text != nil:
		ok = runner.SetWritten(req.QuestionNumber, *req.Text)
	case req.OptionIndex != nil:
		ok = runner.Select(req.QuestionNumber, *req.OptionIndex)
	default:
		Error(w, http.StatusBadRequest, "answer needs text or optionIndex")
		return
	}
	if !ok {
		Error(w, http.StatusBadRequest, "answer rejected")
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"captured": true})
}
