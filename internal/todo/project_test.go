package todo

import (
	"testing"
	"time"
)

func TestProjectAddRemoveTodo(t *testing.T) {
	p := NewProject("Work", "", "", testNow)

	if !p.AddTodo("a") {
		t.Error("adding a new reference should return true")
	}
	if p.AddTodo("a") {
		t.Error("adding a duplicate reference should return false")
	}
	p.AddTodo("b")
	if p.TodoCount() != 2 {
		t.Fatalf("todo count = %d, want 2", p.TodoCount())
	}

	if !p.RemoveTodo("a") {
		t.Error("removing a present reference should return true")
	}
	if p.RemoveTodo("a") {
		t.Error("removing an absent reference should return false")
	}
	if p.TodoCount() != 1 {
		t.Errorf("todo count = %d, want 1", p.TodoCount())
	}
}

func TestFilteredTodosCompletionAndPriority(t *testing.T) {
	ws := newTestWorkspace(t)
	p, _ := ws.GetCurrentProject()

	active := ws.CreateTodo("Active task", "", testNow.AddDate(0, 0, 1), PriorityLow, "")
	done := ws.CreateTodo("Done task", "", testNow.AddDate(0, 0, 2), PriorityCritical, "")
	ws.ToggleTodo(done.ID)

	tests := []struct {
		name       string
		filterType string
		value      any
		wantIDs    []string
	}{
		{"all completion states", "completed", FilterAll, []string{active.ID, done.ID}},
		{"active only", "completed", FilterActive, []string{active.ID}},
		{"completed only", "completed", FilterCompleted, []string{done.ID}},
		{"critical priority", "priority", string(PriorityCritical), []string{done.ID}},
		{"low priority", "priority", string(PriorityLow), []string{active.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.Filters = defaultFilters()
			if !p.UpdateFilter(tt.filterType, tt.value) {
				t.Fatalf("UpdateFilter(%q, %v) rejected", tt.filterType, tt.value)
			}
			got := p.FilteredTodos(ws, testNow)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d todos, want %d", len(got), len(tt.wantIDs))
			}
			for i, task := range got {
				if task.ID != tt.wantIDs[i] {
					t.Errorf("todo[%d] = %q, want %q", i, task.Title, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestFilteredTodosDueDateBuckets(t *testing.T) {
	ws := newTestWorkspace(t)
	p, _ := ws.GetCurrentProject()

	yesterday := ws.CreateTodo("Yesterday", "", testNow.AddDate(0, 0, -1), PriorityLow, "")
	today := ws.CreateTodo("Today", "", testNow.Add(3*time.Hour), PriorityLow, "")
	inThree := ws.CreateTodo("In three days", "", testNow.AddDate(0, 0, 3), PriorityLow, "")
	inTen := ws.CreateTodo("In ten days", "", testNow.AddDate(0, 0, 10), PriorityLow, "")
	someday := ws.CreateTodo("Someday", "", time.Time{}, PriorityLow, "")

	tests := []struct {
		name    string
		bucket  string
		wantIDs []string
	}{
		// testNow is a Wednesday; the week runs through Sunday
		{"week keeps now through end of week", DueFilterWeek, []string{today.ID, inThree.ID}},
		{"today matches the calendar day", DueFilterToday, []string{today.ID}},
		{"overdue skips tasks without a due date", DueFilterOverdue, []string{yesterday.ID}},
		{"all keeps everything", FilterAll, []string{yesterday.ID, today.ID, inThree.ID, inTen.ID, someday.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.UpdateFilter("dueDate", tt.bucket)
			got := p.FilteredTodos(ws, testNow)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d todos, want %d", len(got), len(tt.wantIDs))
			}
			for i, task := range got {
				if task.ID != tt.wantIDs[i] {
					t.Errorf("todo[%d] = %q out of place", i, task.Title)
				}
			}
		})
	}
}

func TestFilteredTodosTags(t *testing.T) {
	ws := newTestWorkspace(t)
	p, _ := ws.GetCurrentProject()

	home := ws.CreateTodo("Mow lawn", "", testNow.AddDate(0, 0, 1), PriorityLow, "")
	home.AddTag("home")
	work := ws.CreateTodo("File report", "", testNow.AddDate(0, 0, 2), PriorityLow, "")
	work.AddTag("work")
	both := ws.CreateTodo("Pay bills", "", testNow.AddDate(0, 0, 3), PriorityLow, "")
	both.AddTag("home")
	both.AddTag("work")

	p.UpdateFilter("tags", []string{"home"})
	got := p.FilteredTodos(ws, testNow)
	if len(got) != 2 || got[0].ID != home.ID || got[1].ID != both.ID {
		t.Errorf("tag filter returned %d todos, want the two tagged home", len(got))
	}

	// Any overlap with the filter tags matches
	p.UpdateFilter("tags", []string{"home", "work"})
	if got := p.FilteredTodos(ws, testNow); len(got) != 3 {
		t.Errorf("multi-tag filter returned %d todos, want 3", len(got))
	}

	// No tags means no tag filtering
	p.UpdateFilter("tags", []string{})
	if got := p.FilteredTodos(ws, testNow); len(got) != 3 {
		t.Errorf("empty tag filter returned %d todos, want 3", len(got))
	}
}

func TestFilteredTodosDropsDanglingReferences(t *testing.T) {
	ws := newTestWorkspace(t)
	p, _ := ws.GetCurrentProject()
	task := ws.CreateTodo("Real", "", testNow.AddDate(0, 0, 1), PriorityLow, "")
	p.TodoIDs = append(p.TodoIDs, "no-such-task")

	got := p.FilteredTodos(ws, testNow)
	if len(got) != 1 || got[0].ID != task.ID {
		t.Errorf("got %d todos, want only the resolvable one", len(got))
	}
}

func TestSortTodos(t *testing.T) {
	mk := func(title string, due time.Time, priority Priority, created time.Time) *Task {
		return NewTask(title, "", due, priority, created)
	}
	low := mk("banana", testNow.AddDate(0, 0, 4), PriorityLow, testNow.Add(-4*time.Hour))
	med := mk("apple", testNow.AddDate(0, 0, 2), PriorityMedium, testNow.Add(-3*time.Hour))
	high := mk("date", testNow.AddDate(0, 0, 3), PriorityHigh, testNow.Add(-2*time.Hour))
	crit := mk("cherry", testNow.AddDate(0, 0, 1), PriorityCritical, testNow.Add(-time.Hour))
	todos := []*Task{low, med, high, crit}

	tests := []struct {
		name      string
		sortBy    string
		direction string
		want      []*Task
	}{
		{"due date ascending is soonest first", SortByDueDate, SortAsc, []*Task{crit, med, high, low}},
		{"due date descending is latest first", SortByDueDate, SortDesc, []*Task{low, high, med, crit}},
		// The one direction flag flips the priority comparator like every
		// other key: descending is critical first, ascending is low first.
		{"priority descending", SortByPriority, SortDesc, []*Task{crit, high, med, low}},
		{"priority ascending", SortByPriority, SortAsc, []*Task{low, med, high, crit}},
		{"created-at ascending is newest first", SortByCreatedAt, SortAsc, []*Task{crit, high, med, low}},
		{"created-at descending is oldest first", SortByCreatedAt, SortDesc, []*Task{low, med, high, crit}},
		{"title ascending", SortByTitle, SortAsc, []*Task{med, low, crit, high}},
		{"title descending", SortByTitle, SortDesc, []*Task{high, crit, low, med}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProject("Sorting", "", "", testNow)
			p.UpdateSort(tt.sortBy, tt.direction)
			got := p.SortTodos(todos)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("position %d = %q, want %q", i, got[i].Title, tt.want[i].Title)
				}
			}
		})
	}

}

func TestSortTodosDoesNotMutateInput(t *testing.T) {
	a := NewTask("b", "", testNow.AddDate(0, 0, 2), PriorityLow, testNow)
	b := NewTask("a", "", testNow.AddDate(0, 0, 1), PriorityLow, testNow)
	todos := []*Task{a, b}

	p := NewProject("Sorting", "", "", testNow)
	p.SortTodos(todos)
	if todos[0] != a || todos[1] != b {
		t.Error("SortTodos reordered its input slice")
	}
}

func TestUpdateFilter(t *testing.T) {
	tests := []struct {
		name       string
		filterType string
		value      any
		want       bool
	}{
		{"completed key", "completed", FilterActive, true},
		{"priority key", "priority", string(PriorityHigh), true},
		{"dueDate key", "dueDate", DueFilterWeek, true},
		{"tags key", "tags", []string{"home"}, true},
		{"unknown key", "status", FilterAll, false},
		{"wrong value type", "completed", 7, false},
		{"wrong tags type", "tags", "home", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProject("Filters", "", "", testNow)
			if got := p.UpdateFilter(tt.filterType, tt.value); got != tt.want {
				t.Errorf("UpdateFilter(%q, %v) = %v, want %v", tt.filterType, tt.value, got, tt.want)
			}
		})
	}
}
