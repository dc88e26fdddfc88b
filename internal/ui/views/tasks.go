package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todoterm/internal/todo"
	"todoterm/internal/ui/keys"
	"todoterm/internal/ui/styles"
)

var completionFilters = []string{todo.FilterAll, todo.FilterActive, todo.FilterCompleted}

var sortKeys = []string{todo.SortByDueDate, todo.SortByPriority, todo.SortByCreatedAt, todo.SortByTitle}

// TaskListView shows the tasks of the current project
type TaskListView struct {
	ws     *todo.Workspace
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int
	status string

	tasks  []*todo.Task
	cursor int

	searching bool
	search    textinput.Model

	creating bool
	focusIdx int // 0=title, 1=desc, 2=due, 3=priority, 4=confirm
	newTitle textinput.Model
	newDesc  textinput.Model
	newDue   textinput.Model
	priority int

	confirmingDelete bool
	deleteTargetID   string
}

// NewTaskListView creates the task list view
func NewTaskListView(ws *todo.Workspace) *TaskListView {
	search := textinput.New()
	search.Placeholder = "Search tasks"
	search.CharLimit = 100

	newTitle := textinput.New()
	newTitle.Placeholder = "Task title"
	newTitle.CharLimit = 200

	newDesc := textinput.New()
	newDesc.Placeholder = "Description (optional)"
	newDesc.CharLimit = 200

	newDue := textinput.New()
	newDue.Placeholder = "Due date, e.g. 2026-01-15 (optional)"
	newDue.CharLimit = 35

	return &TaskListView{
		ws:       ws,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		search:   search,
		newTitle: newTitle,
		newDesc:  newDesc,
		newDue:   newDue,
		priority: 1, // medium
	}
}

func (v *TaskListView) Init() tea.Cmd {
	return v.loadTasks
}

type tasksLoadedMsg struct {
	tasks []*todo.Task
}

func (v *TaskListView) loadTasks() tea.Msg {
	p, ok := v.ws.GetCurrentProject()
	if !ok {
		return tasksLoadedMsg{}
	}

	if strings.TrimSpace(v.search.Value()) != "" {
		matches := v.ws.SearchTodos(v.search.Value())
		keep := make(map[string]bool, len(matches))
		for _, t := range matches {
			keep[t.ID] = true
		}
		tasks := p.FilteredTodos(v.ws, v.ws.Now())
		filtered := tasks[:0:0]
		for _, t := range tasks {
			if keep[t.ID] {
				filtered = append(filtered, t)
			}
		}
		return tasksLoadedMsg{tasks: filtered}
	}

	return tasksLoadedMsg{tasks: p.FilteredTodos(v.ws, v.ws.Now())}
}

func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		if v.cursor >= len(v.tasks) {
			v.cursor = max(len(v.tasks)-1, 0)
		}
		return v, nil

	case tea.KeyMsg:
		v.status = ""

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.creating {
			return v.updateCreating(msg)
		}
		if v.searching {
			return v.updateSearching(msg)
		}
		return v.updateBrowsing(msg)
	}

	return v, nil
}

func (v *TaskListView) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p, hasProject := v.ws.GetCurrentProject()

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		if strings.TrimSpace(v.search.Value()) != "" {
			v.search.Reset()
			return v, v.loadTasks
		}
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if v.cursor < len(v.tasks) {
			v.ws.ToggleTodo(v.tasks[v.cursor].ID)
		}
		return v, v.loadTasks

	case key.Matches(msg, v.keys.New):
		v.creating = true
		v.focusIdx = 0
		v.priority = 1
		v.newTitle.Reset()
		v.newDesc.Reset()
		v.newDue.Reset()
		v.newTitle.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if v.cursor < len(v.tasks) {
			v.confirmingDelete = true
			v.deleteTargetID = v.tasks[v.cursor].ID
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.searching = true
		v.search.Reset()
		v.search.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Filter):
		if hasProject {
			p.UpdateFilter("completed", cycle(completionFilters, p.Filters.Completed))
			v.ws.Save()
		}
		return v, v.loadTasks

	case key.Matches(msg, v.keys.Sort):
		if hasProject {
			p.UpdateSort(cycle(sortKeys, p.SortBy), p.SortDirection)
			v.ws.Save()
		}
		return v, v.loadTasks

	case key.Matches(msg, v.keys.Order):
		if hasProject {
			dir := todo.SortAsc
			if p.SortDirection == todo.SortAsc {
				dir = todo.SortDesc
			}
			p.UpdateSort(p.SortBy, dir)
			v.ws.Save()
		}
		return v, v.loadTasks
	}

	return v, nil
}

func (v *TaskListView) updateSearching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.searching = false
		v.search.Blur()
		v.search.Reset()
		return v, v.loadTasks
	case key.Matches(msg, v.keys.Enter):
		// Keep the query applied, hand the keys back to the list
		v.searching = false
		v.search.Blur()
		return v, v.loadTasks
	}

	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	return v, tea.Batch(cmd, v.loadTasks)
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		v.ws.DeleteTodo(v.deleteTargetID)
		return v, v.loadTasks
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	priorities := todo.Priorities()

	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 4) % 5
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 5
		v.updateFocus()
		return v, nil

	case v.focusIdx == 3 && (msg.String() == "left" || msg.String() == "h"):
		v.priority = (v.priority + len(priorities) - 1) % len(priorities)
		return v, nil

	case v.focusIdx == 3 && (msg.String() == "right" || msg.String() == "l"):
		v.priority = (v.priority + 1) % len(priorities)
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < 4 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		title := strings.TrimSpace(v.newTitle.Value())
		if title == "" {
			v.status = "A task needs a title"
			return v, nil
		}
		var due time.Time
		if raw := strings.TrimSpace(v.newDue.Value()); raw != "" {
			parsed, ok := todo.ParseDueDate(raw)
			if !ok {
				v.status = "Due date must look like 2026-01-15"
				return v, nil
			}
			due = parsed
		}
		v.ws.CreateTodo(title,
			strings.TrimSpace(v.newDesc.Value()),
			due,
			priorities[v.priority],
			"")
		v.creating = false
		return v, v.loadTasks
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newTitle, cmd = v.newTitle.Update(msg)
	case 1:
		v.newDesc, cmd = v.newDesc.Update(msg)
	case 2:
		v.newDue, cmd = v.newDue.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) updateFocus() {
	v.newTitle.Blur()
	v.newDesc.Blur()
	v.newDue.Blur()
	switch v.focusIdx {
	case 0:
		v.newTitle.Focus()
	case 1:
		v.newDesc.Focus()
	case 2:
		v.newDue.Focus()
	}
}

// View renders the view
func (v *TaskListView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.creating {
		return v.renderCreateForm()
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	p, hasProject := v.ws.GetCurrentProject()

	var b strings.Builder

	title := "Tasks"
	if hasProject {
		title = p.Name
	}
	b.WriteString(s.Title.Render(title))
	if hasProject {
		b.WriteString("  ")
		b.WriteString(s.TitleMuted.Render(fmt.Sprintf("%s • %s %s",
			p.Filters.Completed, p.SortBy, p.SortDirection)))
	}
	b.WriteString("\n\n")

	if v.searching {
		b.WriteString(s.InputFocused.Width(clamp(contentWidth-6, 20, 50)).Render(v.search.View()))
		b.WriteString("\n\n")
	} else if q := strings.TrimSpace(v.search.Value()); q != "" {
		b.WriteString(s.TitleMuted.Render(fmt.Sprintf("search: %q (esc clears)", q)))
		b.WriteString("\n\n")
	}

	if len(v.tasks) == 0 {
		b.WriteString(s.TitleMuted.Render("No tasks here. Press n to add one."))
		b.WriteString("\n")
	}

	now := v.ws.Now()
	for i, t := range v.tasks {
		b.WriteString(v.renderTaskLine(t, i == v.cursor, now, contentWidth))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	if v.status != "" {
		b.WriteString("\n")
		b.WriteString(s.ErrorText.Render(v.status))
	}

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderTaskLine(t *todo.Task, selected bool, now time.Time, width int) string {
	s := v.styles

	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	title := t.Title
	var line string
	switch {
	case t.Completed:
		line = s.TaskDone.Render(check + " " + title)
	case t.IsOverdue(now):
		line = s.TaskOverdue.Render(check + " " + title)
	default:
		line = lipgloss.NewStyle().
			Foreground(styles.PriorityColor(string(t.Priority))).
			Render(check + " " + title)
	}

	if label := dueLabel(t, now); label != "" {
		line += s.TitleMuted.Render("  " + label)
	}
	for _, tag := range t.Tags {
		line += s.Tag.Render("#" + tag)
	}

	if selected {
		return s.ListSelected.Width(max(width-4, 20)).Render(line)
	}
	return s.ListItem.Render(line)
}

// dueLabel turns a task's due date into a short human label
func dueLabel(t *todo.Task, now time.Time) string {
	if t.DueDate.IsZero() || t.Completed {
		return ""
	}
	days := t.DaysUntilDue(now)
	switch {
	case days < -1:
		return fmt.Sprintf("%d days overdue", -days)
	case days < 0:
		return "1 day overdue"
	case days == 0:
		return "due today"
	case days == 1:
		return "due tomorrow"
	case days <= 7:
		return fmt.Sprintf("due in %d days", days)
	}
	return "due " + t.DueDate.Format("Jan 2")
}

func (v *TaskListView) renderStatusBar() string {
	stats := v.ws.Stats()
	return v.styles.StatusBar.Render(fmt.Sprintf(
		"%d tasks • %d done • %d overdue • %.0f%% complete",
		stats.TotalTodos, stats.CompletedTodos, stats.OverdueTodos, stats.CompletionRate,
	))
}

func (v *TaskListView) renderHelp() string {
	s := v.styles
	return s.Help.Render(fmt.Sprintf(
		"%s toggle • %s new • %s del • %s search • %s filter • %s sort • %s order • %s back",
		s.HelpKey.Render("space"),
		s.HelpKey.Render("n"),
		s.HelpKey.Render("d"),
		s.HelpKey.Render("/"),
		s.HelpKey.Render("f"),
		s.HelpKey.Render("s"),
		s.HelpKey.Render("o"),
		s.HelpKey.Render("esc"),
	))
}

func (v *TaskListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	priorities := todo.Priorities()

	fieldStyle := func(idx int) lipgloss.Style {
		if v.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}

	btnStyle := s.Button
	if v.focusIdx == 4 {
		btnStyle = s.ButtonFocused
	}

	var prioParts []string
	for i, p := range priorities {
		label := " " + string(p) + " "
		if i == v.priority {
			prioParts = append(prioParts, lipgloss.NewStyle().
				Foreground(styles.Current.Background).
				Background(styles.PriorityColor(string(p))).
				Render(label))
		} else {
			prioParts = append(prioParts, s.TitleMuted.Render(label))
		}
	}
	prioRow := lipgloss.JoinHorizontal(lipgloss.Center, prioParts...)
	if v.focusIdx == 3 {
		prioRow = s.InputFocused.Render(prioRow)
	} else {
		prioRow = s.Input.Render(prioRow)
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New Task"),
		"",
		"Title:",
		fieldStyle(0).Width(inputWidth).Render(v.newTitle.View()),
		"",
		"Description:",
		fieldStyle(1).Width(inputWidth).Render(v.newDesc.View()),
		"",
		"Due date:",
		fieldStyle(2).Width(inputWidth).Render(v.newDue.View()),
		"",
		"Priority (←/→):",
		prioRow,
		"",
		btnStyle.Render(" Create "),
		"",
		s.TitleMuted.Render("Tab: next • Enter: save • Esc: cancel"),
	)
	if v.status != "" {
		form = lipgloss.JoinVertical(lipgloss.Left, form, "", s.ErrorText.Render(v.status))
	}

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(form),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// cycle returns the element after cur in vals, wrapping around
func cycle(vals []string, cur string) string {
	for i, v := range vals {
		if v == cur {
			return vals[(i+1)%len(vals)]
		}
	}
	return vals[0]
}
