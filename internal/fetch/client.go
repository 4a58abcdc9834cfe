// Package fetch is the read-only HTTP boundary to the remote lab
// service. Every call is a single best-effort request: transport errors,
// non-success statuses, and undecodable bodies are logged and collapsed
// into an empty sentinel, so callers treat "no data" and "fetch failed"
// identically and never see a raised fault.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/csproj/cyberlab/internal/domain"
)

const defaultTimeout = 15 * time.Second

// Client fetches User and LabTemplate documents by identifier.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the lab service at baseURL. A nil httpClient
// gets a default with a request timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// FetchUser retrieves a user by id. On any failure it returns the empty
// sentinel user.
func (c *Client) FetchUser(ctx context.Context, id string) *domain.User {
	var user domain.User
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(id), &user); err != nil {
		slog.Error("Failed to fetch user", "error", err, "user_id", id)
		return &domain.User{}
	}
	return &user
}

// FetchLabTemplate retrieves a lab template by id. On any failure it
// returns the empty sentinel template.
func (c *Client) FetchLabTemplate(ctx context.Context, id string) *domain.LabTemplate {
	var tmpl domain.LabTemplate
	if err := c.getJSON(ctx, "/lab-template/"+url.PathEscape(id), &tmpl); err != nil {
		slog.Error("Failed to fetch lab template", "error", err, "template_id", id)
		return &domain.LabTemplate{}
	}
	return &tmpl
}

// FetchLabTemplates retrieves a page of templates for the authoring
// list. On any failure it returns an empty slice.
func (c *Client) FetchLabTemplates(ctx context.Context, limit, offset int) []domain.LabTemplate {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var templates []domain.LabTemplate
	if err := c.getJSON(ctx, "/lab-template/list?"+q.Encode(), &templates); err != nil {
		slog.Error("Failed to fetch lab template list", "error", err, "limit", limit, "offset", offset)
		return []domain.LabTemplate{}
	}
	if templates == nil {
		templates = []domain.LabTemplate{}
	}
	return templates
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
