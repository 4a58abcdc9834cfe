package api

import (
	"net/http"
	"testing"

	"github.com/csproj/cyberlab/internal/authoring"
	"github.com/csproj/cyberlab/internal/cache"
	"github.com/csproj/cyberlab/internal/domain"
)

func TestSubmitAndSnapshotRoundTrip(t *testing.T) {
	srv, _ := newPortal(t)
	login(t, srv, "Ttest", "T")

	tree := authoring.Tree{Objectives: []authoring.Objective{
		{
			Name:          "Scanning",
			Steps:         []authoring.Step{{Name: "sweep", Description: "ping the subnet"}},
			TextQuestions: []authoring.TextQuestion{{Name: "Which host responded?"}},
		},
		{
			Name:            "Reporting",
			ChoiceQuestions: []authoring.ChoiceQuestion{{Name: "Which service?", Answers: []string{"ssh", "ftp"}}},
		},
	}}

	resp := postJSON(t, srv.URL+"/api/template/submit", tree)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decode[map[string]int](t, resp)
	if body["objectives"] != 2 {
		t.Errorf("unexpected submit response: %v", body)
	}

	snap, err := http.Get(srv.URL + "/api/template")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	got := decode[authoring.Tree](t, snap)
	if len(got.Objectives) != 2 || got.Objectives[0].Name != "Scanning" {
		t.Errorf("unexpected snapshot: %+v", got)
	}
	if len(got.Objectives[1].ChoiceQuestions[0].Answers) != 2 {
		t.Errorf("expected answer options to survive the round trip, got %+v", got.Objectives[1])
	}
}

func TestSnapshotAbsent(t *testing.T) {
	srv, _ := newPortal(t)
	login(t, srv, "Ttest", "T")

	resp, err := http.Get(srv.URL + "/api/template")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 without a submitted template, got %d", resp.StatusCode)
	}
	body := decode[map[string]string](t, resp)
	if body["redirect"] != EntryRoute {
		t.Errorf("expected redirect hint, got %v", body)
	}
}

func TestSelectTemplate(t *testing.T) {
	srv, c := newPortal(t)
	login(t, srv, "Ttest", "T")

	resp := postJSON(t, srv.URL+"/api/template/select", map[string]string{"templateId": "t1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	got := decode[domain.LabTemplate](t, resp)
	if got.Name != "Recon basics" {
		t.Errorf("unexpected template: %+v", got)
	}

	if sel, ok := cache.Value[*domain.LabTemplate](c, cache.KeySelectedLabTemplate); !ok || sel.ID != "t1" {
		t.Errorf("expected selection in cache, got %+v ok=%v", sel, ok)
	}
}

func TestSelectUnknownTemplate(t *testing.T) {
	srv, c := newPortal(t)
	login(t, srv, "Ttest", "T")

	resp := postJSON(t, srv.URL+"/api/template/select", map[string]string{"templateId": "missing"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown template, got %d", resp.StatusCode)
	}
	if _, ok := c.Get(cache.KeySelectedLabTemplate); ok {
		t.Error("a failed selection must not leave a cached template")
	}
}

func TestListTemplatesProxiesUpstream(t *testing.T) {
	srv, _ := newPortal(t)
	login(t, srv, "Ttest", "T")

	resp, err := http.Get(srv.URL + "/api/templates?limit=5&offset=0")
	if err != nil {
		t.Fatalf("get templates: %v", err)
	}
	got := decode[[]domain.LabTemplate](t, resp)
	if len(got) != 1 || got[0].ID != "t1" {
		t.Errorf("unexpected template list: %+v", got)
	}
}
