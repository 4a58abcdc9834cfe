package lab

import (
	"testing"

	"github.com/csproj/cyberlab/internal/domain"
)

func sheetQuestions() []domain.LabQuestion {
	return []domain.LabQuestion{
		{QuestionNumber: 1, QuestionType: domain.QuestionMultipleChoice, Prompt: "Which scanner?", Options: []string{"nmap", "dig", "ping"}},
		{QuestionNumber: 2, QuestionType: domain.QuestionMultipleChoice, Prompt: "Which shell?", Options: []string{"bash", "zsh", "fish"}},
		{QuestionNumber: 3, QuestionType: domain.QuestionWritten, Prompt: "Describe the finding."},
		{QuestionNumber: 4, QuestionType: domain.QuestionTrueFalse, Prompt: "Port 22 is open.", Options: []string{"True", "False"}},
	}
}

func TestOptionGroupIsolation(t *testing.T) {
	s := NewAnswerSheet(sheetQuestions())

	if !s.Select(1, 2) {
		t.Fatal("expected selection on question 1 to succeed")
	}
	if !s.Select(2, 0) {
		t.Fatal("expected selection on question 2 to succeed")
	}

	// Re-selecting within question 1 replaces only question 1's choice.
	if !s.Select(1, 1) {
		t.Fatal("expected re-selection on question 1 to succeed")
	}

	if idx, ok := s.Selected(1); !ok || idx != 1 {
		t.Errorf("question 1: expected selection 1, got %d ok=%v", idx, ok)
	}
	if idx, ok := s.Selected(2); !ok || idx != 0 {
		t.Errorf("question 2: expected selection 0 untouched, got %d ok=%v", idx, ok)
	}
}

func TestSelectRejectsInvalid(t *testing.T) {
	s := NewAnswerSheet(sheetQuestions())

	tests := []struct {
		name           string
		questionNumber int
		optionIndex    int
	}{
		{"unknown question", 99, 0},
		{"written question", 3, 0},
		{"negative index", 1, -1},
		{"index past options", 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s.Select(tt.questionNumber, tt.optionIndex) {
				t.Errorf("expected Select(%d, %d) to be rejected", tt.questionNumber, tt.optionIndex)
			}
		})
	}
}

func TestSetWrittenOnlyForWrittenQuestions(t *testing.T) {
	s := NewAnswerSheet(sheetQuestions())

	if !s.SetWritten(3, "anonymous FTP allowed") {
		t.Fatal("expected written capture to succeed")
	}
	if s.SetWritten(1, "not a text question") {
		t.Error("expected written capture on a choice question to be rejected")
	}

	text, ok := s.Written(3)
	if !ok || text != "anonymous FTP allowed" {
		t.Errorf("expected captured text, got %q ok=%v", text, ok)
	}
}

func TestAnswersParallelToQuestions(t *testing.T) {
	s := NewAnswerSheet(sheetQuestions())

	s.Select(1, 0)
	s.SetWritten(3, "ssh exposed")
	s.Select(4, 1)

	got := s.Answers()
	want := []string{"nmap", "", "ssh exposed", "False"}
	if len(got) != len(want) {
		t.Fatalf("expected %d answers, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("answer %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestMissingOptionListRendersEmpty(t *testing.T) {
	// A choice question with no options is a structural mismatch: it
	// must render inert, not panic.
	s := NewAnswerSheet([]domain.LabQuestion{
		{QuestionNumber: 1, QuestionType: domain.QuestionMultipleChoice, Prompt: "Broken"},
	})
	if s.Select(1, 0) {
		t.Error("expected selection on an optionless question to be rejected")
	}
	if got := s.Answers(); len(got) != 1 || got[0] != "" {
		t.Errorf("expected one empty answer, got %v", got)
	}
}
