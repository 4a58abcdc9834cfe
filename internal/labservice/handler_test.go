package labservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/csproj/cyberlab/internal/domain"
	"github.com/go-chi/chi/v5"
)

func newTestServer(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	store := newTestStore(t)

	r := chi.NewRouter()
	NewHandler(store).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func TestGetUserEndpoint(t *testing.T) {
	srv, store := newTestServer(t)

	user := &domain.User{ID: "u1", Username: "Stest", UserType: domain.RoleStudent}
	if err := store.UpsertUser(context.Background(), user); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	resp, err := http.Get(srv.URL + "/users/u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got domain.User
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "u1" || got.Username != "Stest" {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestGetUserNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/users/nobody")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetTemplateEndpoint(t *testing.T) {
	srv, store := newTestServer(t)

	tmpl := &domain.LabTemplate{ID: "t1", Name: "Recon", Questions: []domain.LabQuestion{
		{QuestionNumber: 1, QuestionType: domain.QuestionWritten, Prompt: "Which host?"},
	}}
	if err := store.UpsertTemplate(context.Background(), tmpl); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	resp, err := http.Get(srv.URL + "/lab-template/t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var got domain.LabTemplate
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Recon" || len(got.Questions) != 1 {
		t.Errorf("unexpected template: %+v", got)
	}
}

func TestListEndpointPaging(t *testing.T) {
	srv, store := newTestServer(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := store.UpsertTemplate(context.Background(), &domain.LabTemplate{ID: id, Name: id}); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}

	resp, err := http.Get(srv.URL + "/lab-template/list?limit=2&offset=1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var got []domain.LabTemplate
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 templates, got %d", len(got))
	}
}

func TestListEndpointIgnoresBadPaging(t *testing.T) {
	srv, store := newTestServer(t)

	if err := store.UpsertTemplate(context.Background(), &domain.LabTemplate{ID: "a", Name: "a"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	resp, err := http.Get(srv.URL + "/lab-template/list?limit=bogus&offset=-3")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got []domain.LabTemplate
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected fallback paging to return the template, got %d", len(got))
	}
}
