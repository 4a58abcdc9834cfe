package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/csproj/cyberlab/internal/cache"
	"github.com/csproj/cyberlab/internal/config"
	"github.com/csproj/cyberlab/internal/fetch"
	"github.com/csproj/cyberlab/internal/handoff"
	"github.com/csproj/cyberlab/internal/lab"
)

func newActivityServer(t *testing.T, touchWindow time.Duration) (*httptest.Server, *cache.Cache) {
	t.Helper()
	c := cache.New(touchWindow)
	client := fetch.New("http://localhost:0", nil)
	resolver := handoff.NewResolver(c, client, 20*time.Minute, "")
	runners := lab.NewManager(func() *lab.Runner { return lab.NewRunner(c, client) })
	base := NewHandler(c, client, resolver, runners, &config.Config{HandoffTTL: 20 * time.Minute})
	handler := NewActivityHandler(base)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/activity", handler.ServeHTTP)
	mux.HandleFunc("/api/activity/touch", handler.Touch)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, c
}

func TestTouchFallbackExtendsSession(t *testing.T) {
	srv, c := newActivityServer(t, 10*time.Minute)
	c.Set(cache.KeyUser, "student", 50*time.Millisecond)

	resp, err := http.Post(srv.URL+"/api/activity/touch", "application/json", nil)
	if err != nil {
		t.Fatalf("touch: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// The original 50ms TTL would have expired by now; the touch re-armed
	// the key to the full sliding window.
	time.Sleep(100 * time.Millisecond)
	if _, ok := c.Get(cache.KeyUser); !ok {
		t.Error("expected the touched key to outlive its original TTL")
	}
}

func TestActivitySocketTouchesOnMessage(t *testing.T) {
	srv, c := newActivityServer(t, 10*time.Minute)
	c.Set(cache.KeyUser, "student", time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws, _, err := websocket.Dial(ctx, "ws"+srv.URL[len("http"):]+"/ws/activity", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close(websocket.StatusNormalClosure, "done")

	if err := ws.Write(ctx, websocket.MessageText, []byte("ping")); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Wait past the original TTL; the message-driven touch keeps the key
	// alive for the whole sliding window.
	time.Sleep(1500 * time.Millisecond)
	if _, ok := c.Get(cache.KeyUser); !ok {
		t.Error("expected the session key to survive its original TTL after socket activity")
	}
}
