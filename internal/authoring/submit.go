package authoring

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/csproj/cyberlab/internal/cache"
	"github.com/csproj/cyberlab/internal/domain"
)

// SnapshotTTL is how long a submitted authoring snapshot stays readable
// by the downstream teacher screens.
const SnapshotTTL = 20 * time.Minute

// Clone deep-copies the tree through a JSON round trip. The cache holds
// snapshots by value, so mutating the builder after submit must never
// retroactively change what was captured.
func (t *Tree) Clone() (*Tree, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal authoring tree: %w", err)
	}
	var clone Tree
	if err := json.Unmarshal(raw, &clone); err != nil {
		return nil, fmt.Errorf("unmarshal authoring tree: %w", err)
	}
	return &clone, nil
}

// Submit captures the whole tree as one immutable snapshot under the
// template key. There is no partial save and, by design, no server
// write here: downstream screens (assignment selection, point
// assignment, finalization) consume the snapshot from the cache.
func (t *Tree) Submit(c *cache.Cache) error {
	snapshot, err := t.Clone()
	if err != nil {
		return err
	}
	c.Set(cache.KeyLabTemplate, snapshot, SnapshotTTL)
	slog.Info("Authoring snapshot cached", "objectives", len(snapshot.Objectives), "ttl", SnapshotTTL)
	return nil
}

// Snapshot reads the last submitted tree back from the cache.
func Snapshot(c *cache.Cache) (*Tree, bool) {
	return cache.Value[*Tree](c, cache.KeyLabTemplate)
}

// Flatten produces the consumption-shape template: questions numbered
// contiguously from 1 across objectives in authoring order, each tagged
// with its 1-based objective number. Within an objective, written
// questions come first, then multiple choice, then true/false, matching
// the builder's layout.
func (t *Tree) Flatten(name, description, creator string) domain.LabTemplate {
	tmpl := domain.LabTemplate{
		Name:        name,
		Description: description,
		Creator:     creator,
	}
	num := 0
	for oi, obj := range t.Objectives {
		tmpl.Objectives = append(tmpl.Objectives, obj.Name)
		for _, q := range obj.TextQuestions {
			num++
			tmpl.Questions = append(tmpl.Questions, domain.LabQuestion{
				QuestionNumber:  num,
				ObjectiveNumber: oi + 1,
				QuestionType:    domain.QuestionWritten,
				Prompt:          q.Name,
			})
		}
		for _, q := range obj.ChoiceQuestions {
			num++
			tmpl.Questions = append(tmpl.Questions, domain.LabQuestion{
				QuestionNumber:  num,
				ObjectiveNumber: oi + 1,
				QuestionType:    domain.QuestionMultipleChoice,
				Prompt:          q.Name,
				Options:         append([]string(nil), q.Answers...),
			})
		}
		for _, q := range obj.TFQuestions {
			num++
			tmpl.Questions = append(tmpl.Questions, domain.LabQuestion{
				QuestionNumber:  num,
				ObjectiveNumber: oi + 1,
				QuestionType:    domain.QuestionTrueFalse,
				Prompt:          q.Name,
				Options:         []string{"True", "False"},
			})
		}
	}
	return tmpl
}
