// Package lab implements the lab progression engine: the stepper state
// machine that resolves a template from the hand-off cache, renders it
// objective by objective, and captures per-question answers.
package lab

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/csproj/cyberlab/internal/cache"
	"github.com/csproj/cyberlab/internal/domain"
	"github.com/csproj/cyberlab/internal/fetch"
)

// Handoff is the outcome of a navigation call. Stepping past either
// boundary is not an error and not a clamp: it hands the user off to an
// adjacent routed screen.
type Handoff int

const (
	// HandoffNone means the runner stayed on this screen.
	HandoffNone Handoff = iota
	// HandoffResults means the student finished the last objective and
	// leaves for the results screen.
	HandoffResults
	// HandoffCourses means the student backed out of the first
	// objective and returns to the course list.
	HandoffCourses
)

func (h Handoff) String() string {
	switch h {
	case HandoffResults:
		return "results"
	case HandoffCourses:
		return "courses"
	default:
		return "none"
	}
}

// Runner owns one user's progression through a lab template.
//
// It starts in a loading state and stays there, inert, until Load
// resolves the lab identifier from the cache and the template from the
// remote service. Navigation on an unloaded runner is a no-op; a failed
// or absent hand-off degrades to an empty render, never a fault.
type Runner struct {
	mu     sync.Mutex
	cache  *cache.Cache
	client *fetch.Client
	now    func() time.Time

	template   *domain.LabTemplate
	instance   *domain.LabInstance
	objectives []ObjectiveView
	sheet      *AnswerSheet
	idx        int
	loaded     bool
	finished   bool

	// gen invalidates in-flight loads: a fetch that resolves after the
	// user navigated or reloaded must not overwrite the later state.
	gen uint64
}

// NewRunner creates a runner reading hand-off state from c and
// templates from client.
func NewRunner(c *cache.Cache, client *fetch.Client) *Runner {
	return &Runner{cache: c, client: client, now: time.Now}
}

// AttachInstance binds the student's lab instance so answer capture and
// completion are recorded against it.
func (r *Runner) AttachInstance(inst *domain.LabInstance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instance = inst
}

// Loaded reports whether the runner has left the loading state.
func (r *Runner) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// Load resolves the lab identifier from the cache and fetches its
// template. If the identifier is absent, expired, or not a string, the
// runner stays in its loading state; there is no retry. A load that
// completes after the runner has navigated or reloaded is discarded.
func (r *Runner) Load(ctx context.Context) bool {
	r.mu.Lock()
	gen := r.gen
	r.mu.Unlock()

	labID, ok := cache.Value[string](r.cache, cache.KeyLabID)
	if !ok {
		slog.Warn("No lab identifier in session cache, runner stays inert")
		return false
	}

	tmpl := r.client.FetchLabTemplate(ctx, labID)
	if tmpl.IsZero() {
		slog.Warn("Lab template unavailable, runner stays inert", "lab_id", labID)
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		slog.Debug("Discarding stale template load", "lab_id", labID)
		return false
	}

	r.template = tmpl
	r.objectives = groupObjectives(tmpl)
	r.sheet = NewAnswerSheet(tmpl.Questions)
	r.idx = 0
	r.loaded = true
	r.finished = false
	slog.Info("Lab template loaded", "lab_id", labID, "objectives", len(r.objectives), "questions", len(tmpl.Questions))
	return true
}

// Next advances to the following objective. At the last objective it
// finalizes the attached instance and hands off to the results screen.
func (r *Runner) Next() Handoff {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return HandoffNone
	}
	r.gen++
	if r.idx < len(r.objectives)-1 {
		r.idx++
		return HandoffNone
	}
	if !r.finished {
		r.finished = true
		if r.instance != nil {
			r.instance.Finalize(r.sheet.Answers(), r.now())
		}
		slog.Info("Lab run finished", "objectives", len(r.objectives))
	}
	return HandoffResults
}

// Prev steps back to the preceding objective. At the first objective it
// hands off to the course list.
func (r *Runner) Prev() Handoff {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return HandoffNone
	}
	r.gen++
	if r.idx > 0 {
		r.idx--
		return HandoffNone
	}
	return HandoffCourses
}

// Current returns the objective view for the current stepper position.
// Rendering re-reads the in-memory template copy; it never re-fetches.
func (r *Runner) Current() (ObjectiveView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded || len(r.objectives) == 0 {
		return ObjectiveView{}, false
	}
	return r.objectives[r.idx], true
}

// Index returns the 0-based current objective index.
func (r *Runner) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.idx
}

// Progress returns the stepper position as a percentage. For a template
// with no objectives the metric is undefined and reported as not ok;
// there is no division fault.
func (r *Runner) Progress() (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.objectives)
	if !r.loaded || n == 0 {
		return 0, false
	}
	return float64(r.idx+1) / float64(n) * 100, true
}

// SetWritten captures free text for a written question and stamps the
// instance access time.
func (r *Runner) SetWritten(questionNumber int, text string) bool {
	r.mu.Lock()
	sheet := r.sheet
	r.mu.Unlock()
	if sheet == nil || !sheet.SetWritten(questionNumber, text) {
		return false
	}
	r.touchInstance()
	return true
}

// Select captures a choice answer and stamps the instance access time.
func (r *Runner) Select(questionNumber, optionIndex int) bool {
	r.mu.Lock()
	sheet := r.sheet
	r.mu.Unlock()
	if sheet == nil || !sheet.Select(questionNumber, optionIndex) {
		return false
	}
	r.touchInstance()
	return true
}

// Answers returns the captured answers in template order.
func (r *Runner) Answers() []string {
	r.mu.Lock()
	sheet := r.sheet
	r.mu.Unlock()
	if sheet == nil {
		return nil
	}
	return sheet.Answers()
}

// Sheet exposes the answer sheet for result screens.
func (r *Runner) Sheet() *AnswerSheet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sheet
}

// Reset returns the runner to its loading state and invalidates any
// in-flight load.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.template = nil
	r.objectives = nil
	r.sheet = nil
	r.idx = 0
	r.loaded = false
	r.finished = false
}

func (r *Runner) touchInstance() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.instance != nil {
		r.instance.DateLastAccessed = r.now()
	}
}
