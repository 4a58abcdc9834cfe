// Package handoff implements the store-mediated identity hand-off: the
// screen that knows who is logged in resolves the user's active lab and
// leaves its identifier in the session cache for the independently
// routed lab screen to pick up. The cache is the only channel between
// the two screens, so the hand-off TTL bounds how long a student may
// navigate away before losing lab context.
package handoff

import (
	"context"
	"log/slog"
	"time"

	"github.com/csproj/cyberlab/internal/cache"
	"github.com/csproj/cyberlab/internal/fetch"
)

// DefaultTTL is the window granted to a fresh hand-off. User activity
// extends the session through the cache's shorter touch window; the two
// timers are distinct and both are honored.
const DefaultTTL = 20 * time.Minute

// Resolver writes the active lab identity into the session cache.
type Resolver struct {
	cache        *cache.Cache
	client       *fetch.Client
	ttl          time.Duration
	defaultLabID string
}

// NewResolver creates a resolver. defaultLabID is the fallback used
// when a user has no derivable active lab; a zero ttl falls back to
// DefaultTTL.
func NewResolver(c *cache.Cache, client *fetch.Client, ttl time.Duration, defaultLabID string) *Resolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Resolver{cache: c, client: client, ttl: ttl, defaultLabID: defaultLabID}
}

// ResolveActiveLab fetches the user, derives their active lab
// identifier, and writes it (with the user's role) into the cache under
// the well-known keys. It returns the identifier, or "" when neither a
// derivation nor a fallback was possible; the caller then treats the
// session as having no active lab.
func (r *Resolver) ResolveActiveLab(ctx context.Context, userID string) string {
	user := r.client.FetchUser(ctx, userID)
	if user.IsZero() {
		slog.Warn("User unavailable for lab hand-off", "user_id", userID)
		// An unreachable service still gets the fallback identifier so
		// the lab screen can attempt its own fetch.
	}

	labID := r.defaultLabID
	if active := user.ActiveLab(); active != nil && active.TemplateID != "" {
		labID = active.TemplateID
	}
	if labID == "" {
		slog.Warn("No active lab to hand off", "user_id", userID)
		return ""
	}

	r.cache.Set(cache.KeyLabID, labID, r.ttl)
	if user.UserType.Valid() {
		r.cache.Set(cache.KeyUser, string(user.UserType), r.ttl)
	}
	slog.Info("Lab identity handed off", "user_id", userID, "lab_id", labID, "ttl", r.ttl)
	return labID
}
