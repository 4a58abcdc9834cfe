package lab

import (
	"github.com/csproj/cyberlab/internal/domain"
)

// QuestionView is the renderable description of one question: the
// presentation layer turns it into interactive controls. The reference
// answer is deliberately absent; it never reaches the student screen.
type QuestionView struct {
	Number  int                 `json:"questionNumber"`
	Type    domain.QuestionType `json:"questionType"`
	Prompt  string              `json:"question"`
	Options []string            `json:"options,omitempty"`
}

// ObjectiveView groups the questions rendered for one stepper position.
type ObjectiveView struct {
	Title     string         `json:"title"`
	Questions []QuestionView `json:"questions"`
}

// renderQuestion produces the view for a single question. Choice
// questions with a missing option list render with no options rather
// than faulting; the answer field is stripped.
func renderQuestion(q domain.LabQuestion) QuestionView {
	v := QuestionView{
		Number: q.QuestionNumber,
		Type:   q.QuestionType,
		Prompt: q.Prompt,
	}
	if q.QuestionType.HasOptions() && len(q.Options) > 0 {
		v.Options = append([]string(nil), q.Options...)
	}
	return v
}

// groupObjectives derives the objective view groups from a template's
// flat question list. Questions are assigned by their 1-based objective
// number, clamped into the declared range; a template with no declared
// objectives gets a single synthetic group so its questions still
// render. Groups keep declared order, questions keep ascending question
// number within a group.
func groupObjectives(t *domain.LabTemplate) []ObjectiveView {
	titles := t.Objectives
	if len(titles) == 0 {
		if len(t.Questions) == 0 {
			return nil
		}
		title := t.Name
		if title == "" {
			title = "Objectives"
		}
		titles = []string{title}
	}

	groups := make([]ObjectiveView, len(titles))
	for i, title := range titles {
		groups[i].Title = title
	}

	for _, q := range t.Questions {
		idx := q.ObjectiveNumber - 1
		if idx < 0 {
			idx = 0
		}
		if idx >= len(groups) {
			idx = len(groups) - 1
		}
		groups[idx].Questions = append(groups[idx].Questions, renderQuestion(q))
	}

	for i := range groups {
		sortQuestionViews(groups[i].Questions)
	}
	return groups
}

func sortQuestionViews(views []QuestionView) {
	// Insertion sort: question lists are small and usually presorted.
	for i := 1; i < len(views); i++ {
		for j := i; j > 0 && views[j].Number < views[j-1].Number; j-- {
			views[j], views[j-1] = views[j-1], views[j]
		}
	}
}
