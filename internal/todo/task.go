package todo

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Urgency buckets a task's due date relative to a reference time
type Urgency string

const (
	UrgencyOverdue Urgency = "overdue"
	UrgencyToday   Urgency = "due-today"
	UrgencySoon    Urgency = "due-soon" // due within two days
	UrgencyNone    Urgency = "not-urgent"
)

// ChecklistItem is a single subtask on a task's checklist
type ChecklistItem struct {
	ID        string
	Text      string
	Completed bool
	CreatedAt time.Time
}

// Task is a single unit of work
type Task struct {
	ID            string
	Title         string
	Description   string
	DueDate       time.Time
	Priority      Priority
	CreatedAt     time.Time
	Completed     bool
	CompletedAt   *time.Time
	Notes         string
	Tags          []string
	Checklist     []ChecklistItem
	EstimatedTime int // minutes, 0 when not estimated
	ActualTime    int // minutes, grows only through AddTimeSpent
}

// NewTask creates a task with a generated ID. An unknown priority
// falls back to medium so the priority invariant holds from birth.
func NewTask(title, description string, dueDate time.Time, priority Priority, now time.Time) *Task {
	if !priority.Valid() {
		priority = PriorityMedium
	}
	return &Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Priority:    priority,
		CreatedAt:   now,
	}
}

// ToggleComplete flips completion and stamps or clears CompletedAt
func (t *Task) ToggleComplete(now time.Time) {
	t.Completed = !t.Completed
	if t.Completed {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
}

// UpdatePriority applies p only if it is a known priority
func (t *Task) UpdatePriority(p Priority) bool {
	if !p.Valid() {
		return false
	}
	t.Priority = p
	return true
}

// dueDateFormats are the layouts ParseDueDate accepts: full timestamps
// and the bare date a date input produces.
var dueDateFormats = []string{time.RFC3339, "2006-01-02"}

// ParseDueDate parses a due date entered as text
func ParseDueDate(value string) (time.Time, bool) {
	for _, layout := range dueDateFormats {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// UpdateDueDate parses value and applies it only if it is a valid
// point in time, keeping the prior due date otherwise
func (t *Task) UpdateDueDate(value string) bool {
	parsed, ok := ParseDueDate(value)
	if !ok {
		return false
	}
	t.DueDate = parsed
	return true
}

// AddChecklistItem appends a new item and returns its generated ID
func (t *Task) AddChecklistItem(text string, completed bool, now time.Time) string {
	item := ChecklistItem{
		ID:        uuid.NewString(),
		Text:      text,
		Completed: completed,
		CreatedAt: now,
	}
	t.Checklist = append(t.Checklist, item)
	return item.ID
}

// RemoveChecklistItem deletes the item with the given ID, reporting
// whether it was present
func (t *Task) RemoveChecklistItem(id string) bool {
	for i, item := range t.Checklist {
		if item.ID == id {
			t.Checklist = append(t.Checklist[:i], t.Checklist[i+1:]...)
			return true
		}
	}
	return false
}

// ToggleChecklistItem flips the completion of the item with the given
// ID, reporting whether it was present
func (t *Task) ToggleChecklistItem(id string) bool {
	for i := range t.Checklist {
		if t.Checklist[i].ID == id {
			t.Checklist[i].Completed = !t.Checklist[i].Completed
			return true
		}
	}
	return false
}

// HasTag reports whether the task carries tag (case-sensitive)
func (t *Task) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// AddTag appends tag unless already present
func (t *Task) AddTag(tag string) bool {
	if t.HasTag(tag) {
		return false
	}
	t.Tags = append(t.Tags, tag)
	return true
}

// RemoveTag removes tag, reporting whether it was present
func (t *Task) RemoveTag(tag string) bool {
	for i, have := range t.Tags {
		if have == tag {
			t.Tags = append(t.Tags[:i], t.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// AddTimeSpent accumulates minutes of actual work; non-positive
// amounts are rejected
func (t *Task) AddTimeSpent(minutes int) bool {
	if minutes <= 0 {
		return false
	}
	t.ActualTime += minutes
	return true
}

// IsOverdue reports whether the task is incomplete and past due at now.
// A task without a due date is never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.Completed && !t.DueDate.IsZero() && t.DueDate.Before(now)
}

// DaysUntilDue returns the number of whole days until the due date,
// rounded up. Negative when the due date has passed.
func (t *Task) DaysUntilDue(now time.Time) int {
	return int(math.Ceil(t.DueDate.Sub(now).Hours() / 24))
}

// Urgency buckets the task's due date relative to now. A task
// without a due date is never urgent.
func (t *Task) Urgency(now time.Time) Urgency {
	switch {
	case t.DueDate.IsZero():
		return UrgencyNone
	case t.IsOverdue(now):
		return UrgencyOverdue
	case sameCalendarDay(t.DueDate, now):
		return UrgencyToday
	case t.DaysUntilDue(now) <= 2:
		return UrgencySoon
	}
	return UrgencyNone
}

// ChecklistProgress returns the percentage of checklist items
// completed, 0 for an empty checklist
func (t *Task) ChecklistProgress() float64 {
	if len(t.Checklist) == 0 {
		return 0
	}
	done := 0
	for _, item := range t.Checklist {
		if item.Completed {
			done++
		}
	}
	return float64(done) / float64(len(t.Checklist)) * 100
}

func sameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
