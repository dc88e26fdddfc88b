package todo

import (
	"strings"
	"time"
)

// TaskUpdate enumerates the mutable fields of a task. Nil fields are
// left untouched. Identity and completion state are not patchable;
// completion changes go through ToggleComplete.
type TaskUpdate struct {
	Title         *string
	Description   *string
	DueDate       *time.Time
	Priority      *Priority
	Notes         *string
	EstimatedTime *int
}

// Validate checks every present field; an update is applied all or
// nothing
func (u TaskUpdate) Validate() bool {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return false
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return false
	}
	if u.DueDate != nil && u.DueDate.IsZero() {
		return false
	}
	if u.EstimatedTime != nil && *u.EstimatedTime < 0 {
		return false
	}
	return true
}

func (u TaskUpdate) apply(t *Task) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Notes != nil {
		t.Notes = *u.Notes
	}
	if u.EstimatedTime != nil {
		t.EstimatedTime = *u.EstimatedTime
	}
}

// ProjectUpdate enumerates the mutable fields of a project. IsDefault
// is deliberately absent: it is only ever set by creation and seeding.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Color       *string
	View        *string
}

// Validate checks every present field
func (u ProjectUpdate) Validate() bool {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return false
	}
	return true
}

func (u ProjectUpdate) apply(p *Project) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Color != nil {
		p.Color = *u.Color
	}
	if u.View != nil {
		p.View = *u.View
	}
}
