package todo

import (
	"fmt"
	"time"
)

// Snapshot types mirror the persisted JSON shape. All timestamps are
// absolute RFC 3339 strings so snapshots survive any storage that can
// hold text.

type ChecklistItemSnapshot struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

type TaskSnapshot struct {
	ID            string                  `json:"id"`
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	DueDate       string                  `json:"dueDate"`
	Priority      string                  `json:"priority"`
	CreatedAt     string                  `json:"createdAt"`
	Completed     bool                    `json:"completed"`
	CompletedAt   *string                 `json:"completedAt"`
	Notes         string                  `json:"notes"`
	Checklist     []ChecklistItemSnapshot `json:"checklist"`
	Tags          []string                `json:"tags"`
	EstimatedTime int                     `json:"estimatedTime"`
	ActualTime    int                     `json:"actualTime"`
}

type FiltersSnapshot struct {
	Completed string   `json:"completed"`
	Priority  string   `json:"priority"`
	DueDate   string   `json:"dueDate"`
	Tags      []string `json:"tags"`
}

type ProjectSnapshot struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Color         string          `json:"color"`
	CreatedAt     string          `json:"createdAt"`
	TodoIDs       []string        `json:"todoIds"`
	IsDefault     bool            `json:"isDefault"`
	View          string          `json:"view"`
	SortBy        string          `json:"sortBy"`
	SortDirection string          `json:"sortDirection"`
	Filters       FiltersSnapshot `json:"filters"`
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", field, err)
	}
	return t, nil
}

// Snapshot produces the task's plain serialized form
func (t *Task) Snapshot() TaskSnapshot {
	s := TaskSnapshot{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		DueDate:       formatTime(t.DueDate),
		Priority:      string(t.Priority),
		CreatedAt:     formatTime(t.CreatedAt),
		Completed:     t.Completed,
		Notes:         t.Notes,
		Checklist:     make([]ChecklistItemSnapshot, 0, len(t.Checklist)),
		Tags:          append([]string{}, t.Tags...),
		EstimatedTime: t.EstimatedTime,
		ActualTime:    t.ActualTime,
	}
	if t.CompletedAt != nil {
		at := formatTime(*t.CompletedAt)
		s.CompletedAt = &at
	}
	for _, item := range t.Checklist {
		s.Checklist = append(s.Checklist, ChecklistItemSnapshot{
			ID:        item.ID,
			Text:      item.Text,
			Completed: item.Completed,
			CreatedAt: formatTime(item.CreatedAt),
		})
	}
	return s
}

// TaskFromSnapshot reconstructs a task from its serialized form. An
// unknown priority falls back to medium so the priority invariant
// survives round-trips through foreign data.
func TaskFromSnapshot(s TaskSnapshot) (*Task, error) {
	dueDate, err := parseTime("dueDate", s.DueDate)
	if err != nil {
		return nil, err
	}
	createdAt, err := parseTime("createdAt", s.CreatedAt)
	if err != nil {
		return nil, err
	}

	priority := Priority(s.Priority)
	if !priority.Valid() {
		priority = PriorityMedium
	}

	t := &Task{
		ID:            s.ID,
		Title:         s.Title,
		Description:   s.Description,
		DueDate:       dueDate,
		Priority:      priority,
		CreatedAt:     createdAt,
		Completed:     s.Completed,
		Notes:         s.Notes,
		Tags:          append([]string{}, s.Tags...),
		Checklist:     make([]ChecklistItem, 0, len(s.Checklist)),
		EstimatedTime: s.EstimatedTime,
		ActualTime:    s.ActualTime,
	}
	if s.Completed && s.CompletedAt != nil {
		at, err := parseTime("completedAt", *s.CompletedAt)
		if err != nil {
			return nil, err
		}
		t.CompletedAt = &at
	}
	for _, item := range s.Checklist {
		createdAt, err := parseTime("checklist createdAt", item.CreatedAt)
		if err != nil {
			return nil, err
		}
		t.Checklist = append(t.Checklist, ChecklistItem{
			ID:        item.ID,
			Text:      item.Text,
			Completed: item.Completed,
			CreatedAt: createdAt,
		})
	}
	return t, nil
}

// Snapshot produces the project's plain serialized form
func (p *Project) Snapshot() ProjectSnapshot {
	return ProjectSnapshot{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Color:         p.Color,
		CreatedAt:     formatTime(p.CreatedAt),
		TodoIDs:       append([]string{}, p.TodoIDs...),
		IsDefault:     p.IsDefault,
		View:          p.View,
		SortBy:        p.SortBy,
		SortDirection: p.SortDirection,
		Filters: FiltersSnapshot{
			Completed: p.Filters.Completed,
			Priority:  p.Filters.Priority,
			DueDate:   p.Filters.DueDate,
			Tags:      append([]string{}, p.Filters.Tags...),
		},
	}
}

// ProjectFromSnapshot reconstructs a project from its serialized form,
// defaulting any absent view/sort/filter state
func ProjectFromSnapshot(s ProjectSnapshot) (*Project, error) {
	createdAt, err := parseTime("createdAt", s.CreatedAt)
	if err != nil {
		return nil, err
	}

	p := &Project{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		Color:         s.Color,
		CreatedAt:     createdAt,
		TodoIDs:       append([]string{}, s.TodoIDs...),
		IsDefault:     s.IsDefault,
		View:          s.View,
		SortBy:        s.SortBy,
		SortDirection: s.SortDirection,
		Filters: Filters{
			Completed: s.Filters.Completed,
			Priority:  s.Filters.Priority,
			DueDate:   s.Filters.DueDate,
			Tags:      append([]string{}, s.Filters.Tags...),
		},
	}
	if p.Color == "" {
		p.Color = DefaultColor
	}
	if p.View == "" {
		p.View = ViewList
	}
	if p.SortBy == "" {
		p.SortBy = SortByDueDate
	}
	if p.SortDirection == "" {
		p.SortDirection = SortAsc
	}
	if p.Filters.Completed == "" {
		p.Filters.Completed = FilterAll
	}
	if p.Filters.Priority == "" {
		p.Filters.Priority = FilterAll
	}
	if p.Filters.DueDate == "" {
		p.Filters.DueDate = FilterAll
	}
	return p, nil
}
