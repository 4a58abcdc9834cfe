package authoring

import (
	"testing"
	"time"

	"github.com/csproj/cyberlab/internal/cache"
	"github.com/csproj/cyberlab/internal/domain"
)

func TestNewTreeStartsWithOneObjective(t *testing.T) {
	tree := NewTree()
	if len(tree.Objectives) != 1 {
		t.Fatalf("expected 1 seeded objective, got %d", len(tree.Objectives))
	}
}

func TestRemoveStepReindexesSiblings(t *testing.T) {
	tree := NewTree()
	for i := 0; i < 3; i++ {
		tree.AddStep(0)
	}
	tree.Objectives[0].Steps[0].Name = "first"
	tree.Objectives[0].Steps[1].Name = "second"
	tree.Objectives[0].Steps[2].Name = "third"

	if !tree.RemoveStep(0, 1) {
		t.Fatal("expected removal at index 1 to succeed")
	}

	steps := tree.Objectives[0].Steps
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	// The former index 2 is now addressable at index 1.
	if steps[1].Name != "third" {
		t.Errorf("expected third at index 1 after re-indexing, got %q", steps[1].Name)
	}

	// An add afterward appends at index 2, not 3.
	tree.AddStep(0)
	if len(tree.Objectives[0].Steps) != 3 {
		t.Errorf("expected append at index 2, got %d steps", len(tree.Objectives[0].Steps))
	}
}

func TestStaleIndicesAreGuardedNoOps(t *testing.T) {
	tree := NewTree()
	tree.AddStep(0)
	tree.RemoveStep(0, 0)

	tests := []struct {
		name string
		op   func() bool
	}{
		{"remove step at stale index", func() bool { return tree.RemoveStep(0, 0) }},
		{"remove objective out of range", func() bool { return tree.RemoveObjective(5) }},
		{"remove objective negative", func() bool { return tree.RemoveObjective(-1) }},
		{"add step to missing objective", func() bool { return tree.AddStep(3) }},
		{"remove answer from missing question", func() bool { return tree.RemoveAnswer(0, 0, 0) }},
		{"add answer to missing question", func() bool { return tree.AddAnswer(0, 2, "x") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.op() {
				t.Error("expected guarded no-op, got success")
			}
		})
	}
}

func TestAnswerOptionsAddRemove(t *testing.T) {
	tree := NewTree()
	tree.AddChoiceQuestion(0)
	tree.AddAnswer(0, 0, "tcp")
	tree.AddAnswer(0, 0, "udp")
	tree.AddAnswer(0, 0, "icmp")

	if !tree.RemoveAnswer(0, 0, 1) {
		t.Fatal("expected answer removal to succeed")
	}
	answers := tree.Objectives[0].ChoiceQuestions[0].Answers
	if len(answers) != 2 || answers[1] != "icmp" {
		t.Errorf("expected [tcp icmp] after re-indexing, got %v", answers)
	}
}

func TestSubmitSnapshotIsImmutable(t *testing.T) {
	c := cache.New(cache.DefaultTouchWindow)
	tree := NewTree()
	tree.Objectives[0].Name = "Recon"
	tree.AddChoiceQuestion(0)
	tree.AddAnswer(0, 0, "nmap")

	if err := tree.Submit(c); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Mutating the builder after submit must not change the snapshot.
	tree.Objectives[0].Name = "Renamed"
	tree.AddAnswer(0, 0, "masscan")

	snap, ok := Snapshot(c)
	if !ok {
		t.Fatal("expected snapshot in cache")
	}
	if snap.Objectives[0].Name != "Recon" {
		t.Errorf("expected snapshot to keep the submitted name, got %q", snap.Objectives[0].Name)
	}
	if got := snap.Objectives[0].ChoiceQuestions[0].Answers; len(got) != 1 {
		t.Errorf("expected snapshot to keep 1 answer, got %v", got)
	}
}

func TestSnapshotExpires(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := cache.NewWithClock(cache.DefaultTouchWindow, func() time.Time { return clock() })

	tree := NewTree()
	if err := tree.Submit(c); err != nil {
		t.Fatalf("submit: %v", err)
	}

	now = now.Add(SnapshotTTL)
	if _, ok := Snapshot(c); ok {
		t.Error("expected snapshot to expire with the template key TTL")
	}
}

func TestFlattenNumbersContiguously(t *testing.T) {
	tree := NewTree()
	tree.Objectives[0].Name = "Scanning"
	tree.AddTextQuestion(0)
	tree.Objectives[0].TextQuestions[0].Name = "Which subnet?"
	tree.AddChoiceQuestion(0)
	tree.Objectives[0].ChoiceQuestions[0].Name = "Which tool?"
	tree.AddAnswer(0, 0, "nmap")
	tree.AddAnswer(0, 0, "dig")

	tree.AddObjective()
	tree.Objectives[1].Name = "Reporting"
	tree.AddTFQuestion(1)
	tree.Objectives[1].TFQuestions[0].Name = "Scope was honored."

	tmpl := tree.Flatten("Recon", "Intro lab", "teacher-1")

	if len(tmpl.Objectives) != 2 {
		t.Fatalf("expected 2 objectives, got %d", len(tmpl.Objectives))
	}
	if len(tmpl.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(tmpl.Questions))
	}
	for i, q := range tmpl.Questions {
		if q.QuestionNumber != i+1 {
			t.Errorf("question %d: expected contiguous number %d, got %d", i, i+1, q.QuestionNumber)
		}
	}
	if tmpl.Questions[2].ObjectiveNumber != 2 {
		t.Errorf("expected the TF question under objective 2, got %d", tmpl.Questions[2].ObjectiveNumber)
	}
	if tmpl.Questions[2].QuestionType != domain.QuestionTrueFalse {
		t.Errorf("expected TRUE_FALSE, got %s", tmpl.Questions[2].QuestionType)
	}
	if got := tmpl.Questions[2].Options; len(got) != 2 || got[0] != "True" {
		t.Errorf("expected True/False options, got %v", got)
	}
	if got := tmpl.Questions[1].Options; len(got) != 2 || got[0] != "nmap" {
		t.Errorf("expected authored options in order, got %v", got)
	}
}
