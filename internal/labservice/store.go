// Package labservice implements the reference remote service the portal
// fetches from: a read-mostly document store of users and lab templates
// behind the JSON endpoints the fetch boundary consumes.
package labservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/csproj/cyberlab/internal/domain"
	"github.com/csproj/cyberlab/internal/shared"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists user and template documents in SQLite. Documents are
// stored as JSON blobs: the portal consumes whole documents and never
// queries inside them, so relational decomposition would buy nothing.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		doc_json TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS lab_templates (
		template_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		doc_json TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_templates_created ON lab_templates(created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetUser retrieves a user document by id. Returns (nil, nil) when the
// user does not exist.
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT doc_json FROM users WHERE user_id = ?`, userID)

	var raw string
	if err := row.Scan(&raw); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decode user document: %w", err)
	}
	return &user, nil
}

// UpsertUser creates or replaces a user document, assigning an id when
// the document carries none.
func (s *Store) UpsertUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user document: %w", err)
	}

	query := `
	INSERT INTO users (user_id, username, doc_json, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		username = excluded.username,
		doc_json = excluded.doc_json,
		updated_at = excluded.updated_at`

	err = shared.RetrySQLite(ctx, 3, func() error {
		_, execErr := s.db.ExecContext(ctx, query, user.ID, user.Username, string(raw), time.Now().Unix())
		return execErr
	})
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetTemplate retrieves a template document by id. Returns (nil, nil)
// when the template does not exist.
func (s *Store) GetTemplate(ctx context.Context, templateID string) (*domain.LabTemplate, error) {
	row := s.db.QueryRowContext(ctx, `SELECT doc_json FROM lab_templates WHERE template_id = ?`, templateID)

	var raw string
	if err := row.Scan(&raw); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("scan template row: %w", err)
	}

	var tmpl domain.LabTemplate
	if err := json.Unmarshal([]byte(raw), &tmpl); err != nil {
		return nil, fmt.Errorf("decode template document: %w", err)
	}
	return &tmpl, nil
}

// UpsertTemplate creates or replaces a template document, assigning an
// id when the document carries none.
func (s *Store) UpsertTemplate(ctx context.Context, tmpl *domain.LabTemplate) error {
	if tmpl.ID == "" {
		tmpl.ID = uuid.NewString()
	}
	raw, err := json.Marshal(tmpl)
	if err != nil {
		return fmt.Errorf("encode template document: %w", err)
	}

	query := `
	INSERT INTO lab_templates (template_id, name, doc_json, created_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(template_id) DO UPDATE SET
		name = excluded.name,
		doc_json = excluded.doc_json`

	err = shared.RetrySQLite(ctx, 3, func() error {
		_, execErr := s.db.ExecContext(ctx, query, tmpl.ID, tmpl.Name, string(raw), time.Now().Unix())
		return execErr
	})
	if err != nil {
		return fmt.Errorf("upsert template: %w", err)
	}
	return nil
}

// ListTemplates returns a page of templates in insertion order.
func (s *Store) ListTemplates(ctx context.Context, limit, offset int) ([]domain.LabTemplate, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_json FROM lab_templates ORDER BY created_at, template_id LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	templates := []domain.LabTemplate{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan template row: %w", err)
		}
		var tmpl domain.LabTemplate
		if err := json.Unmarshal([]byte(raw), &tmpl); err != nil {
			return nil, fmt.Errorf("decode template document: %w", err)
		}
		templates = append(templates, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate template rows: %w", err)
	}
	return templates, nil
}
