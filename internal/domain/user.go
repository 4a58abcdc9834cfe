// Package domain contains core domain types for the cyberlab portal.
package domain

import (
	"time"
)

// Role discriminates the two account types the portal serves.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid reports whether the role is one of the known account types.
func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}

// User represents a portal user as served by the remote lab service.
// The portal treats it as read-only; the remote service owns it.
type User struct {
	ID           string        `json:"_id" yaml:"_id"`
	Username     string        `json:"username" yaml:"username"`
	UserType     Role          `json:"userType" yaml:"userType"`
	LastVisited  time.Time     `json:"lastTimeVisited" yaml:"lastTimeVisited"`
	LabInstances []LabInstance `json:"labInstances" yaml:"labInstances"`
	Courses      []string      `json:"courses" yaml:"courses"`
}

// IsZero reports whether the user is the empty sentinel returned by the
// fetch boundary on a miss or a failed request.
func (u *User) IsZero() bool {
	return u.ID == "" && u.Username == ""
}

// ActiveLab returns the incomplete lab instance with the earliest due
// date, or nil if every assigned lab is completed (or none exist).
func (u *User) ActiveLab() *LabInstance {
	var active *LabInstance
	for i := range u.LabInstances {
		inst := &u.LabInstances[i]
		if inst.Completed {
			continue
		}
		if active == nil || inst.DueDate.Before(active.DueDate) {
			active = inst
		}
	}
	return active
}
