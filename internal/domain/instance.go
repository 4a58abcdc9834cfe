package domain

import (
	"time"
)

// VmInstance is an opaque handle to a cloned lab VM. The portal carries
// these for display and console launch; it never drives virtualization.
type VmInstance struct {
	ID        string    `json:"_id" yaml:"_id"`
	ProxmoxID int       `json:"proxmoxId" yaml:"proxmoxId"`
	Node      string    `json:"vmNode" yaml:"vmNode"`
	Name      string    `json:"vmName" yaml:"vmName"`
	CloneDate time.Time `json:"vmCloneDate" yaml:"vmCloneDate"`
	ParentID  int       `json:"vmParentId" yaml:"vmParentId"`
}

// LabInstance is a user's run of a lab template: the denormalized join
// the remote service creates when a lab is assigned. The progression
// engine mutates the answer list and the completed flag; everything else
// is server-owned.
type LabInstance struct {
	TemplateName     string       `json:"templateName" yaml:"templateName"`
	TemplateID       string       `json:"templateId" yaml:"templateId"`
	CourseID         string       `json:"courseId" yaml:"courseId"`
	DateLastAccessed time.Time    `json:"dateLastAccessed" yaml:"dateLastAccessed"`
	DueDate          time.Time    `json:"dueDate" yaml:"dueDate"`
	VmInstances      []string     `json:"vminstances" yaml:"vminstances"`
	VmNodes          []VmInstance `json:"vmNodes" yaml:"vmNodes"`
	UserAnswers      []string     `json:"userAnswers" yaml:"userAnswers"`
	Completed        bool         `json:"completed" yaml:"completed"`
}

// Due reports whether the instance is still due relative to now.
func (li *LabInstance) Due(now time.Time) bool {
	return now.Before(li.DueDate)
}

// Finalize marks the instance completed and records the captured
// answers, stamping the access time.
func (li *LabInstance) Finalize(answers []string, now time.Time) {
	li.UserAnswers = answers
	li.Completed = true
	li.DateLastAccessed = now
}
