package todo

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// View modes a project can present
const (
	ViewList     = "list"
	ViewBoard    = "board"
	ViewCalendar = "calendar"
)

// Sort keys and directions
const (
	SortByDueDate   = "dueDate"
	SortByPriority  = "priority"
	SortByCreatedAt = "createdAt"
	SortByTitle     = "title"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Filter values shared by the completion, priority and due-date filters
const (
	FilterAll       = "all"
	FilterActive    = "active"
	FilterCompleted = "completed"

	DueFilterToday   = "today"
	DueFilterWeek    = "week"
	DueFilterOverdue = "overdue"
)

// DefaultColor is the accent color assigned to new projects
const DefaultColor = "#3B82F6"

// Filters is a project's active filter set. Zero values mean "all";
// an empty Tags list means no tag filtering.
type Filters struct {
	Completed string
	Priority  string
	DueDate   string
	Tags      []string
}

func defaultFilters() Filters {
	return Filters{Completed: FilterAll, Priority: FilterAll, DueDate: FilterAll, Tags: []string{}}
}

// Project is a named collection of task references with its own view,
// sort and filter state. It holds references, not task copies.
type Project struct {
	ID            string
	Name          string
	Description   string
	Color         string
	CreatedAt     time.Time
	TodoIDs       []string
	IsDefault     bool
	View          string
	SortBy        string
	SortDirection string
	Filters       Filters
}

// NewProject creates a project with a generated ID and default
// view/sort/filter state
func NewProject(name, description, color string, now time.Time) *Project {
	if color == "" {
		color = DefaultColor
	}
	return &Project{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   description,
		Color:         color,
		CreatedAt:     now,
		TodoIDs:       []string{},
		View:          ViewList,
		SortBy:        SortByDueDate,
		SortDirection: SortAsc,
		Filters:       defaultFilters(),
	}
}

// AddTodo appends a task reference unless already present
func (p *Project) AddTodo(todoID string) bool {
	for _, id := range p.TodoIDs {
		if id == todoID {
			return false
		}
	}
	p.TodoIDs = append(p.TodoIDs, todoID)
	return true
}

// RemoveTodo drops a task reference, reporting whether it was present
func (p *Project) RemoveTodo(todoID string) bool {
	for i, id := range p.TodoIDs {
		if id == todoID {
			p.TodoIDs = append(p.TodoIDs[:i], p.TodoIDs[i+1:]...)
			return true
		}
	}
	return false
}

// TodoCount returns the number of referenced tasks
func (p *Project) TodoCount() int {
	return len(p.TodoIDs)
}

// CompletedCount returns how many referenced tasks are completed
func (p *Project) CompletedCount(ws *Workspace) int {
	count := 0
	for _, id := range p.TodoIDs {
		if task, ok := ws.GetTodo(id); ok && task.Completed {
			count++
		}
	}
	return count
}

// FilteredTodos resolves the project's references through the
// workspace, drops any that no longer resolve, applies the active
// filters (completion, then priority, then due-date bucket, then
// tags) and returns the result sorted by the project's sort state.
func (p *Project) FilteredTodos(ws *Workspace, now time.Time) []*Task {
	todos := make([]*Task, 0, len(p.TodoIDs))
	for _, id := range p.TodoIDs {
		if task, ok := ws.GetTodo(id); ok {
			todos = append(todos, task)
		}
	}

	switch p.Filters.Completed {
	case FilterActive:
		todos = keep(todos, func(t *Task) bool { return !t.Completed })
	case FilterCompleted:
		todos = keep(todos, func(t *Task) bool { return t.Completed })
	}

	if p.Filters.Priority != FilterAll && p.Filters.Priority != "" {
		todos = keep(todos, func(t *Task) bool { return string(t.Priority) == p.Filters.Priority })
	}

	switch p.Filters.DueDate {
	case DueFilterToday:
		todos = keep(todos, func(t *Task) bool { return sameCalendarDay(t.DueDate, now) })
	case DueFilterWeek:
		// Through the end of the current week, Sunday-based
		endOfWeek := now.AddDate(0, 0, 7-int(now.Weekday()))
		todos = keep(todos, func(t *Task) bool {
			return !t.DueDate.Before(now) && !t.DueDate.After(endOfWeek)
		})
	case DueFilterOverdue:
		todos = keep(todos, func(t *Task) bool { return t.IsOverdue(now) })
	}

	if len(p.Filters.Tags) > 0 {
		todos = keep(todos, func(t *Task) bool {
			for _, tag := range p.Filters.Tags {
				if t.HasTag(tag) {
					return true
				}
			}
			return false
		})
	}

	return p.SortTodos(todos)
}

func keep(todos []*Task, pred func(*Task) bool) []*Task {
	kept := todos[:0]
	for _, t := range todos {
		if pred(t) {
			kept = append(kept, t)
		}
	}
	return kept
}

var titleCollator = collate.New(language.Und)

// SortTodos returns a stably sorted copy of todos ordered by the
// project's sort key. The one direction flag negates every base
// comparison uniformly: ascending on priority yields lowest priority
// first, while ascending on created-at yields newest first.
func (p *Project) SortTodos(todos []*Task) []*Task {
	sorted := make([]*Task, len(todos))
	copy(sorted, todos)
	sort.SliceStable(sorted, func(i, j int) bool {
		c := p.compareTodos(sorted[i], sorted[j])
		if p.SortDirection == SortDesc {
			c = -c
		}
		return c < 0
	})
	return sorted
}

func (p *Project) compareTodos(a, b *Task) int {
	switch p.SortBy {
	case SortByPriority:
		return a.Priority.Rank() - b.Priority.Rank()
	case SortByCreatedAt:
		return b.CreatedAt.Compare(a.CreatedAt) // newest first
	case SortByTitle:
		return titleCollator.CompareString(a.Title, b.Title)
	default:
		return a.DueDate.Compare(b.DueDate)
	}
}

// UpdateFilter sets one filter by key, reporting whether the key and
// value type were recognized. The "tags" filter takes a []string,
// every other filter takes a string.
func (p *Project) UpdateFilter(filterType string, value any) bool {
	switch filterType {
	case "completed":
		if s, ok := value.(string); ok {
			p.Filters.Completed = s
			return true
		}
	case "priority":
		if s, ok := value.(string); ok {
			p.Filters.Priority = s
			return true
		}
	case "dueDate":
		if s, ok := value.(string); ok {
			p.Filters.DueDate = s
			return true
		}
	case "tags":
		if tags, ok := value.([]string); ok {
			p.Filters.Tags = tags
			return true
		}
	}
	return false
}

// UpdateSort sets the sort key and direction unconditionally
func (p *Project) UpdateSort(sortBy, direction string) {
	p.SortBy = sortBy
	p.SortDirection = direction
}
