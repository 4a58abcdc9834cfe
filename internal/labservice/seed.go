package labservice

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/csproj/cyberlab/internal/domain"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML fixture document used to populate the store for
// development and demos.
type seedFile struct {
	Users     []domain.User        `yaml:"users"`
	Templates []domain.LabTemplate `yaml:"templates"`
}

// Seed loads the YAML fixture file at path and upserts its documents.
// Seeding is idempotent: documents keep their fixture ids, so repeated
// startups replace rather than duplicate.
func (s *Store) Seed(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for i := range seed.Users {
		if seed.Users[i].ID == "" {
			return fmt.Errorf("seed user %d (%s) has no _id; seeded documents need stable ids", i, seed.Users[i].Username)
		}
		if err := s.UpsertUser(ctx, &seed.Users[i]); err != nil {
			return fmt.Errorf("seed user %s: %w", seed.Users[i].ID, err)
		}
	}
	for i := range seed.Templates {
		if seed.Templates[i].ID == "" {
			return fmt.Errorf("seed template %d (%s) has no _id; seeded documents need stable ids", i, seed.Templates[i].Name)
		}
		if err := s.UpsertTemplate(ctx, &seed.Templates[i]); err != nil {
			return fmt.Errorf("seed template %s: %w", seed.Templates[i].ID, err)
		}
	}

	slog.Info("Seed data loaded", "users", len(seed.Users), "templates", len(seed.Templates), "path", path)
	return nil
}
