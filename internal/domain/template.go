package domain

// QuestionType enumerates the three interactive question kinds a lab
// template may declare.
type QuestionType string

const (
	QuestionWritten        QuestionType = "WRITTEN"
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTrueFalse      QuestionType = "TRUE_FALSE"
)

// HasOptions reports whether the question type renders a mutually
// exclusive option group rather than a free-text control.
func (t QuestionType) HasOptions() bool {
	return t == QuestionMultipleChoice || t == QuestionTrueFalse
}

// LabQuestion is one question in the consumption shape of a template.
// QuestionNumber is 1-based and defines render and navigation order;
// ObjectiveNumber is 1-based and groups the question under a declared
// objective.
type LabQuestion struct {
	QuestionNumber  int          `json:"questionNumber" yaml:"questionNumber"`
	ObjectiveNumber int          `json:"objectiveNumber" yaml:"objectiveNumber"`
	QuestionType    QuestionType `json:"questionType" yaml:"questionType"`
	Prompt          string       `json:"question" yaml:"question"`
	Options         []string     `json:"options,omitempty" yaml:"options"`
	Answer          string       `json:"answer" yaml:"answer"`
}

// LabTemplate is a lab exercise document. Objectives hold the declared
// objective titles; Questions is the flat, ordered consumption shape.
type LabTemplate struct {
	ID          string        `json:"_id" yaml:"_id"`
	Creator     string        `json:"creator" yaml:"creator"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Objectives  []string      `json:"objectives" yaml:"objectives"`
	VmTemplates []string      `json:"vmTemplateIds" yaml:"vmTemplateIds"`
	Questions   []LabQuestion `json:"questions" yaml:"questions"`
}

// IsZero reports whether the template is the empty sentinel returned by
// the fetch boundary on a miss or a failed request.
func (t *LabTemplate) IsZero() bool {
	return t.ID == "" && t.Name == "" && len(t.Questions) == 0
}
