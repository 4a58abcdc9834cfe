// Package authoring models the teacher-side template builder: a mutable
// tree of objectives, steps, questions, and answer options, addressed
// purely by position. On submit the tree is captured as one immutable
// snapshot in the session cache for downstream teacher screens.
package authoring

// Step is a guided instruction inside an objective.
type Step struct {
	Name        string `json:"stepName"`
	Description string `json:"stepDesc"`
}

// TextQuestion is a free-text question being authored.
type TextQuestion struct {
	Name string `json:"questionName"`
}

// TFQuestion is a true/false question being authored.
type TFQuestion struct {
	Name string `json:"questionName"`
}

// ChoiceQuestion is a multiple-choice question with its ordered answer
// options.
type ChoiceQuestion struct {
	Name    string   `json:"questionName"`
	Answers []string `json:"answers"`
}

// Objective is one named group of steps and questions.
type Objective struct {
	Name            string           `json:"objectiveName"`
	Description     string           `json:"objectiveDesc"`
	Steps           []Step           `json:"steps"`
	TextQuestions   []TextQuestion   `json:"textQuestions"`
	ChoiceQuestions []ChoiceQuestion `json:"choiceQuestions"`
	TFQuestions     []TFQuestion     `json:"tfQuestions"`
}

// Tree is the authoring document. Every collection supports append-add
// and positional removal; removal re-indexes later siblings, so callers
// holding an index across a removal must re-address. All mutators guard
// their indices and no-op (returning false) on stale or out-of-range
// positions instead of faulting.
type Tree struct {
	Objectives []Objective `json:"objectives"`
}

// NewTree returns a tree seeded with one blank objective, matching the
// builder's starting screen.
func NewTree() *Tree {
	return &Tree{Objectives: []Objective{{}}}
}

// AddObjective appends a blank objective.
func (t *Tree) AddObjective() {
	t.Objectives = append(t.Objectives, Objective{})
}

// RemoveObjective deletes the objective at the given position.
func (t *Tree) RemoveObjective(i int) bool {
	if i < 0 || i >= len(t.Objectives) {
		return false
	}
	t.Objectives = append(t.Objectives[:i], t.Objectives[i+1:]...)
	return true
}

func (t *Tree) objective(i int) *Objective {
	if i < 0 || i >= len(t.Objectives) {
		return nil
	}
	return &t.Objectives[i]
}

// AddStep appends a blank step to the objective at obj.
func (t *Tree) AddStep(obj int) bool {
	o := t.objective(obj)
	if o == nil {
		return false
	}
	o.Steps = append(o.Steps, Step{})
	return true
}

// RemoveStep deletes the step at the given position within an objective.
func (t *Tree) RemoveStep(obj, i int) bool {
	o := t.objective(obj)
	if o == nil || i < 0 || i >= len(o.Steps) {
		return false
	}
	o.Steps = append(o.Steps[:i], o.Steps[i+1:]...)
	return true
}

// AddTextQuestion appends a blank written question.
func (t *Tree) AddTextQuestion(obj int) bool {
	o := t.objective(obj)
	if o == nil {
		return false
	}
	o.TextQuestions = append(o.TextQuestions, TextQuestion{})
	return true
}

// RemoveTextQuestion deletes the written question at the given position.
func (t *Tree) RemoveTextQuestion(obj, i int) bool {
	o := t.objective(obj)
	if o == nil || i < 0 || i >= len(o.TextQuestions) {
		return false
	}
	o.TextQuestions = append(o.TextQuestions[:i], o.TextQuestions[i+1:]...)
	return true
}

// AddChoiceQuestion appends a blank multiple-choice question.
func (t *Tree) AddChoiceQuestion(obj int) bool {
	o := t.objective(obj)
	if o == nil {
		return false
	}
	o.ChoiceQuestions = append(o.ChoiceQuestions, ChoiceQuestion{})
	return true
}

// RemoveChoiceQuestion deletes the choice question at the given position.
func (t *Tree) RemoveChoiceQuestion(obj, i int) bool {
	o := t.objective(obj)
	if o == nil || i < 0 || i >= len(o.ChoiceQuestions) {
		return false
	}
	o.ChoiceQuestions = append(o.ChoiceQuestions[:i], o.ChoiceQuestions[i+1:]...)
	return true
}

// AddTFQuestion appends a blank true/false question.
func (t *Tree) AddTFQuestion(obj int) bool {
	o := t.objective(obj)
	if o == nil {
		return false
	}
	o.TFQuestions = append(o.TFQuestions, TFQuestion{})
	return true
}

// RemoveTFQuestion deletes the true/false question at the given position.
func (t *Tree) RemoveTFQuestion(obj, i int) bool {
	o := t.objective(obj)
	if o == nil || i < 0 || i >= len(o.TFQuestions) {
		return false
	}
	o.TFQuestions = append(o.TFQuestions[:i], o.TFQuestions[i+1:]...)
	return true
}

// AddAnswer appends an answer option to a choice question.
func (t *Tree) AddAnswer(obj, q int, text string) bool {
	o := t.objective(obj)
	if o == nil || q < 0 || q >= len(o.ChoiceQuestions) {
		return false
	}
	o.ChoiceQuestions[q].Answers = append(o.ChoiceQuestions[q].Answers, text)
	return true
}

// RemoveAnswer deletes the answer option at the given position.
func (t *Tree) RemoveAnswer(obj, q, i int) bool {
	o := t.objective(obj)
	if o == nil || q < 0 || q >= len(o.ChoiceQuestions) {
		return false
	}
	answers := o.ChoiceQuestions[q].Answers
	if i < 0 || i >= len(answers) {
		return false
	}
	o.ChoiceQuestions[q].Answers = append(answers[:i], answers[i+1:]...)
	return true
}
