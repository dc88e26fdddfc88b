package todo

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC) // a Wednesday

func TestToggleComplete(t *testing.T) {
	task := NewTask("Buy milk", "", testNow.AddDate(0, 0, 1), PriorityMedium, testNow)

	if task.Completed {
		t.Fatal("new task should not be completed")
	}
	if task.CompletedAt != nil {
		t.Fatal("new task should have no completion timestamp")
	}

	done := testNow.Add(time.Hour)
	task.ToggleComplete(done)
	if !task.Completed {
		t.Error("task should be completed after toggle")
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(done) {
		t.Errorf("CompletedAt = %v, want %v", task.CompletedAt, done)
	}

	// Toggling twice returns to the original state
	task.ToggleComplete(done.Add(time.Hour))
	if task.Completed {
		t.Error("task should not be completed after second toggle")
	}
	if task.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil", task.CompletedAt)
	}
}

func TestUpdatePriority(t *testing.T) {
	tests := []struct {
		name     string
		priority Priority
		want     bool
	}{
		{"low is valid", PriorityLow, true},
		{"medium is valid", PriorityMedium, true},
		{"high is valid", PriorityHigh, true},
		{"critical is valid", PriorityCritical, true},
		{"unknown value is rejected", Priority("urgent"), false},
		{"empty value is rejected", Priority(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := NewTask("Test", "", testNow, PriorityMedium, testNow)
			got := task.UpdatePriority(tt.priority)
			if got != tt.want {
				t.Errorf("UpdatePriority(%q) = %v, want %v", tt.priority, got, tt.want)
			}
			if tt.want && task.Priority != tt.priority {
				t.Errorf("priority = %q, want %q", task.Priority, tt.priority)
			}
			if !tt.want && task.Priority != PriorityMedium {
				t.Errorf("rejected update changed priority to %q", task.Priority)
			}
		})
	}
}

func TestUpdateDueDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"full timestamp", "2025-04-01T09:30:00Z", true},
		{"bare date", "2025-04-01", true},
		{"garbage", "next tuesday", false},
		{"empty", "", false},
		{"impossible date", "2025-13-45", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := testNow.AddDate(0, 0, 3)
			task := NewTask("Test", "", original, PriorityLow, testNow)
			got := task.UpdateDueDate(tt.value)
			if got != tt.want {
				t.Errorf("UpdateDueDate(%q) = %v, want %v", tt.value, got, tt.want)
			}
			if !tt.want && !task.DueDate.Equal(original) {
				t.Errorf("rejected update changed due date to %v", task.DueDate)
			}
		})
	}
}

func TestTags(t *testing.T) {
	task := NewTask("Test", "", testNow, PriorityLow, testNow)

	if !task.AddTag("errands") {
		t.Error("adding a new tag should return true")
	}
	if task.AddTag("errands") {
		t.Error("adding a duplicate tag should return false")
	}
	if !task.AddTag("Errands") {
		t.Error("tags are case-sensitive; differently-cased tag should add")
	}
	if len(task.Tags) != 2 {
		t.Fatalf("tags = %v, want 2 entries", task.Tags)
	}

	if !task.RemoveTag("errands") {
		t.Error("removing a present tag should return true")
	}
	if task.RemoveTag("errands") {
		t.Error("removing an absent tag should return false")
	}
	if len(task.Tags) != 1 || task.Tags[0] != "Errands" {
		t.Errorf("tags = %v, want [Errands]", task.Tags)
	}
}

func TestChecklist(t *testing.T) {
	task := NewTask("Test", "", testNow, PriorityLow, testNow)

	if got := task.ChecklistProgress(); got != 0 {
		t.Errorf("empty checklist progress = %v, want 0", got)
	}

	first := task.AddChecklistItem("step one", false, testNow)
	second := task.AddChecklistItem("step two", false, testNow)
	if first == "" || second == "" || first == second {
		t.Fatalf("checklist item IDs %q and %q should be unique and non-empty", first, second)
	}

	if !task.ToggleChecklistItem(first) {
		t.Error("toggling an existing item should return true")
	}
	if task.ToggleChecklistItem("missing") {
		t.Error("toggling a missing item should return false")
	}
	if got := task.ChecklistProgress(); got != 50 {
		t.Errorf("progress = %v, want 50", got)
	}

	if !task.RemoveChecklistItem(second) {
		t.Error("removing an existing item should return true")
	}
	if task.RemoveChecklistItem(second) {
		t.Error("removing an already-removed item should return false")
	}
	if got := task.ChecklistProgress(); got != 100 {
		t.Errorf("progress = %v, want 100", got)
	}
}

func TestAddTimeSpent(t *testing.T) {
	task := NewTask("Test", "", testNow, PriorityLow, testNow)

	if task.AddTimeSpent(0) {
		t.Error("zero minutes should be rejected")
	}
	if task.AddTimeSpent(-15) {
		t.Error("negative minutes should be rejected")
	}
	if task.ActualTime != 0 {
		t.Errorf("actual time = %d after rejected additions, want 0", task.ActualTime)
	}

	if !task.AddTimeSpent(25) {
		t.Error("positive minutes should be accepted")
	}
	task.AddTimeSpent(35)
	if task.ActualTime != 60 {
		t.Errorf("actual time = %d, want 60", task.ActualTime)
	}
}

func TestIsOverdue(t *testing.T) {
	tests := []struct {
		name      string
		dueDate   time.Time
		completed bool
		want      bool
	}{
		{"past due and incomplete", testNow.Add(-time.Hour), false, true},
		{"past due but completed", testNow.Add(-time.Hour), true, false},
		{"due in the future", testNow.Add(time.Hour), false, false},
		{"no due date", time.Time{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := NewTask("Test", "", tt.dueDate, PriorityLow, testNow.AddDate(0, 0, -7))
			if tt.completed {
				task.ToggleComplete(testNow)
			}
			if got := task.IsOverdue(testNow); got != tt.want {
				t.Errorf("IsOverdue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysUntilDue(t *testing.T) {
	tests := []struct {
		name    string
		dueDate time.Time
		want    int
	}{
		{"due in an hour rounds up to one day", testNow.Add(time.Hour), 1},
		{"due in exactly three days", testNow.AddDate(0, 0, 3), 3},
		{"due twelve hours ago", testNow.Add(-12 * time.Hour), 0},
		{"due two days ago", testNow.AddDate(0, 0, -2), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := NewTask("Test", "", tt.dueDate, PriorityLow, testNow)
			if got := task.DaysUntilDue(testNow); got != tt.want {
				t.Errorf("DaysUntilDue = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUrgency(t *testing.T) {
	tests := []struct {
		name    string
		dueDate time.Time
		want    Urgency
	}{
		{"past due", testNow.Add(-time.Hour), UrgencyOverdue},
		{"later today", testNow.Add(2 * time.Hour), UrgencyToday},
		{"in two days", testNow.AddDate(0, 0, 2), UrgencySoon},
		{"next week", testNow.AddDate(0, 0, 8), UrgencyNone},
		{"no due date", time.Time{}, UrgencyNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := NewTask("Test", "", tt.dueDate, PriorityLow, testNow)
			if got := task.Urgency(testNow); got != tt.want {
				t.Errorf("Urgency = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewTaskNormalizesPriority(t *testing.T) {
	task := NewTask("Test", "", testNow, Priority("someday"), testNow)
	if task.Priority != PriorityMedium {
		t.Errorf("priority = %q, want %q", task.Priority, PriorityMedium)
	}
}
