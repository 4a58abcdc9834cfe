package lab

import (
	"sync"

	"github.com/csproj/cyberlab/internal/domain"
)

// AnswerSheet tracks a student's captured answers for one template run.
// Answers are keyed by question number, so selecting an option in one
// question can never disturb another question's selection: each option
// group is isolated by construction.
//
// Capturing answers never mutates the template document itself.
type AnswerSheet struct {
	mu       sync.Mutex
	order    []int
	kinds    map[int]domain.QuestionType
	options  map[int][]string
	written  map[int]string
	selected map[int]int
}

// NewAnswerSheet builds a sheet for the given questions, preserving
// template order for the final answer list.
func NewAnswerSheet(questions []domain.LabQuestion) *AnswerSheet {
	s := &AnswerSheet{
		kinds:    make(map[int]domain.QuestionType, len(questions)),
		options:  make(map[int][]string, len(questions)),
		written:  make(map[int]string),
		selected: make(map[int]int),
	}
	for _, q := range questions {
		if _, dup := s.kinds[q.QuestionNumber]; dup {
			continue
		}
		s.order = append(s.order, q.QuestionNumber)
		s.kinds[q.QuestionNumber] = q.QuestionType
		if q.QuestionType.HasOptions() {
			s.options[q.QuestionNumber] = q.Options
		}
	}
	return s
}

// SetWritten captures free text for a WRITTEN question. Returns false
// for unknown question numbers and non-written questions.
func (s *AnswerSheet) SetWritten(questionNumber int, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kinds[questionNumber] != domain.QuestionWritten {
		return false
	}
	s.written[questionNumber] = text
	return true
}

// Select captures a mutually exclusive option choice. Any previous
// selection for this question is replaced; selections on other
// questions are untouched. Returns false for unknown questions,
// non-choice questions, and out-of-range option indices.
func (s *AnswerSheet) Select(questionNumber, optionIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	kind, ok := s.kinds[questionNumber]
	if !ok || !kind.HasOptions() {
		return false
	}
	opts := s.options[questionNumber]
	if optionIndex < 0 || optionIndex >= len(opts) {
		return false
	}
	s.selected[questionNumber] = optionIndex
	return true
}

// Selected returns the selected option index for a choice question.
func (s *AnswerSheet) Selected(questionNumber int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.selected[questionNumber]
	return idx, ok
}

// Written returns the captured text for a written question.
func (s *AnswerSheet) Written(questionNumber int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.written[questionNumber]
	return text, ok
}

// Answers returns the captured answers in template order, parallel to
// the question list. Unanswered questions yield an empty string.
func (s *AnswerSheet) Answers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	answers := make([]string, len(s.order))
	for i, qn := range s.order {
		switch {
		case s.kinds[qn] == domain.QuestionWritten:
			answers[i] = s.written[qn]
		default:
			if idx, ok := s.selected[qn]; ok {
				answers[i] = s.options[qn][idx]
			}
		}
	}
	return answers
}
