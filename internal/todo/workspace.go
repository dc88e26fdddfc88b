package todo

import (
	"encoding/json"
	"strings"
	"time"

	orderedmap "github.com/elliotchance/orderedmap/v3"
	"github.com/sirupsen/logrus"

	"todoterm/internal/store"
)

// StorageKey is the fixed key the workspace persists under
const StorageKey = "todoAppData"

// Stats aggregates counts across the whole workspace
type Stats struct {
	TotalTodos     int
	CompletedTodos int
	OverdueTodos   int
	ActiveTodos    int
	CompletionRate float64
	PriorityCounts map[Priority]int
	TotalProjects  int
}

// Workspace owns the canonical set of projects and tasks, enforces
// the cross-entity invariants and persists a full snapshot to the
// backing store after every mutation. Store failures never roll back
// the in-memory mutation; they are logged and the states diverge
// until the next successful save.
type Workspace struct {
	projects         []*Project
	todos            *orderedmap.OrderedMap[string, *Task]
	currentProjectID string

	store store.Store
	log   *logrus.Logger
	now   func() time.Time
}

// NewWorkspace loads the persisted snapshot from st, seeding the
// default project when there is none
func NewWorkspace(st store.Store, log *logrus.Logger) *Workspace {
	return NewWorkspaceWithClock(st, log, time.Now)
}

// NewWorkspaceWithClock is NewWorkspace with an explicit time source,
// used by tests to pin date-derived behavior
func NewWorkspaceWithClock(st store.Store, log *logrus.Logger, clock func() time.Time) *Workspace {
	if log == nil {
		log = logrus.StandardLogger()
	}
	ws := &Workspace{
		todos: orderedmap.NewOrderedMap[string, *Task](),
		store: st,
		log:   log,
		now:   clock,
	}
	ws.load()
	if len(ws.projects) == 0 {
		ws.CreateDefaultProject()
	}
	return ws
}

// Now returns the workspace's current time
func (ws *Workspace) Now() time.Time {
	return ws.now()
}

// Close persists a final snapshot
func (ws *Workspace) Close() {
	ws.Save()
}

// Projects returns all projects in insertion order
func (ws *Workspace) Projects() []*Project {
	return ws.projects
}

// CreateProject appends a new project. The very first project ever
// created becomes the default and current project.
func (ws *Workspace) CreateProject(name, description, color string) *Project {
	p := NewProject(name, description, color, ws.now())
	ws.projects = append(ws.projects, p)
	if len(ws.projects) == 1 {
		p.IsDefault = true
		ws.currentProjectID = p.ID
	}
	ws.Save()
	return p
}

// CreateDefaultProject seeds the inbox used when no persisted state
// exists
func (ws *Workspace) CreateDefaultProject() *Project {
	inbox := NewProject("Inbox", "Your default project for all todos", DefaultColor, ws.now())
	inbox.IsDefault = true
	ws.projects = append(ws.projects, inbox)
	ws.currentProjectID = inbox.ID
	ws.Save()
	return inbox
}

// GetProject looks up a project by ID
func (ws *Workspace) GetProject(id string) (*Project, bool) {
	for _, p := range ws.projects {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// GetCurrentProject returns the project presented to the user
func (ws *Workspace) GetCurrentProject() (*Project, bool) {
	return ws.GetProject(ws.currentProjectID)
}

// CurrentProjectID returns the current project's identifier
func (ws *Workspace) CurrentProjectID() string {
	return ws.currentProjectID
}

// SetCurrentProject switches the current project, refusing unknown IDs
func (ws *Workspace) SetCurrentProject(id string) bool {
	if _, ok := ws.GetProject(id); !ok {
		return false
	}
	ws.currentProjectID = id
	ws.Save()
	return true
}

// UpdateProject applies a validated patch to a project, reporting
// whether the project exists and the patch was applied
func (ws *Workspace) UpdateProject(id string, update ProjectUpdate) bool {
	p, ok := ws.GetProject(id)
	if !ok || !update.Validate() {
		return false
	}
	update.apply(p)
	ws.Save()
	return true
}

// DeleteProject removes a project and every task it references.
// The default project is delete-protected.
func (ws *Workspace) DeleteProject(id string) bool {
	p, ok := ws.GetProject(id)
	if !ok || p.IsDefault {
		return false
	}

	// Cascade: the tasks themselves go away, not just the references
	for _, todoID := range append([]string{}, p.TodoIDs...) {
		ws.DeleteTodo(todoID)
	}

	for i, candidate := range ws.projects {
		if candidate.ID == id {
			ws.projects = append(ws.projects[:i], ws.projects[i+1:]...)
			break
		}
	}

	if ws.currentProjectID == id {
		for _, candidate := range ws.projects {
			if candidate.IsDefault {
				ws.currentProjectID = candidate.ID
				break
			}
		}
	}

	ws.Save()
	return true
}

// CreateTodo creates a task and attaches it to the given project, or
// the current project when projectID is empty
func (ws *Workspace) CreateTodo(title, description string, dueDate time.Time, priority Priority, projectID string) *Task {
	task := NewTask(title, description, dueDate, priority, ws.now())
	ws.todos.Set(task.ID, task)

	var p *Project
	var ok bool
	if projectID != "" {
		p, ok = ws.GetProject(projectID)
	} else {
		p, ok = ws.GetCurrentProject()
	}
	if ok {
		p.AddTodo(task.ID)
	}

	ws.Save()
	return task
}

// GetTodo looks up a task by ID
func (ws *Workspace) GetTodo(id string) (*Task, bool) {
	return ws.todos.Get(id)
}

// UpdateTodo applies a validated patch to a task, reporting whether
// the task exists and the patch was applied
func (ws *Workspace) UpdateTodo(id string, update TaskUpdate) bool {
	task, ok := ws.GetTodo(id)
	if !ok || !update.Validate() {
		return false
	}
	update.apply(task)
	ws.Save()
	return true
}

// ToggleTodo flips a task's completion state
func (ws *Workspace) ToggleTodo(id string) bool {
	task, ok := ws.GetTodo(id)
	if !ok {
		return false
	}
	task.ToggleComplete(ws.now())
	ws.Save()
	return true
}

// DeleteTodo removes a task from every project that references it and
// from the task set. Idempotent: deleting an unknown ID succeeds.
func (ws *Workspace) DeleteTodo(id string) bool {
	for _, p := range ws.projects {
		p.RemoveTodo(id)
	}
	ws.todos.Delete(id)
	ws.Save()
	return true
}

// MoveTodo moves a task reference between projects. All three parties
// are checked before anything mutates, so a partial move is not
// possible.
func (ws *Workspace) MoveTodo(id, fromProjectID, toProjectID string) bool {
	from, okFrom := ws.GetProject(fromProjectID)
	to, okTo := ws.GetProject(toProjectID)
	_, okTask := ws.GetTodo(id)
	if !okFrom || !okTo || !okTask {
		return false
	}
	from.RemoveTodo(id)
	to.AddTodo(id)
	ws.Save()
	return true
}

// SearchTodos returns tasks whose title, description, notes or any
// tag contains query, case-insensitively, in insertion order
func (ws *Workspace) SearchTodos(query string) []*Task {
	term := strings.ToLower(query)
	var results []*Task
	for _, task := range ws.todos.AllFromFront() {
		if strings.Contains(strings.ToLower(task.Title), term) ||
			strings.Contains(strings.ToLower(task.Description), term) ||
			strings.Contains(strings.ToLower(task.Notes), term) {
			results = append(results, task)
			continue
		}
		for _, tag := range task.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				results = append(results, task)
				break
			}
		}
	}
	return results
}

// AllTags returns every tag in use, deduplicated, first seen first
func (ws *Workspace) AllTags() []string {
	seen := make(map[string]bool)
	var tags []string
	for _, task := range ws.todos.AllFromFront() {
		for _, tag := range task.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// TodosByTag returns tasks carrying tag exactly (case-sensitive)
func (ws *Workspace) TodosByTag(tag string) []*Task {
	var results []*Task
	for _, task := range ws.todos.AllFromFront() {
		if task.HasTag(tag) {
			results = append(results, task)
		}
	}
	return results
}

// Stats computes aggregate counts across all tasks and projects
func (ws *Workspace) Stats() Stats {
	now := ws.now()
	stats := Stats{
		PriorityCounts: make(map[Priority]int, 4),
		TotalProjects:  len(ws.projects),
	}
	for _, p := range Priorities() {
		stats.PriorityCounts[p] = 0
	}
	for _, task := range ws.todos.AllFromFront() {
		stats.TotalTodos++
		if task.Completed {
			stats.CompletedTodos++
		}
		if task.IsOverdue(now) {
			stats.OverdueTodos++
		}
		stats.PriorityCounts[task.Priority]++
	}
	stats.ActiveTodos = stats.TotalTodos - stats.CompletedTodos
	if stats.TotalTodos > 0 {
		stats.CompletionRate = float64(stats.CompletedTodos) / float64(stats.TotalTodos) * 100
	}
	return stats
}

type workspaceSnapshot struct {
	Projects         []ProjectSnapshot `json:"projects"`
	Todos            []TaskSnapshot    `json:"todos"`
	CurrentProjectID string            `json:"currentProjectId"`
	LastSaved        string            `json:"lastSaved"`
}

type exportSnapshot struct {
	Projects   []ProjectSnapshot `json:"projects"`
	Todos      []TaskSnapshot    `json:"todos"`
	ExportedAt string            `json:"exportedAt"`
}

func (ws *Workspace) snapshotEntities() ([]ProjectSnapshot, []TaskSnapshot) {
	projects := make([]ProjectSnapshot, 0, len(ws.projects))
	for _, p := range ws.projects {
		projects = append(projects, p.Snapshot())
	}
	todos := make([]TaskSnapshot, 0, ws.todos.Len())
	for _, task := range ws.todos.AllFromFront() {
		todos = append(todos, task.Snapshot())
	}
	return projects, todos
}

// Save writes the full workspace snapshot to the store. Failures are
// logged and swallowed; the in-memory state stays authoritative.
func (ws *Workspace) Save() {
	projects, todos := ws.snapshotEntities()
	snapshot := workspaceSnapshot{
		Projects:         projects,
		Todos:            todos,
		CurrentProjectID: ws.currentProjectID,
		LastSaved:        formatTime(ws.now()),
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		ws.log.WithError(err).Error("encode workspace snapshot")
		return
	}
	if err := ws.store.Set(StorageKey, string(data)); err != nil {
		ws.log.WithError(err).Error("save workspace")
	}
}

// load restores state from the store. A missing record means a fresh
// start; a corrupt record is deleted and the workspace starts empty.
func (ws *Workspace) load() {
	data, err := ws.store.Get(StorageKey)
	if err != nil {
		ws.log.WithError(err).Error("load workspace")
		return
	}
	if data == "" {
		return
	}

	projects, todos, currentID, err := decodeSnapshot([]byte(data))
	if err != nil {
		ws.log.WithError(err).Warn("discarding corrupt workspace snapshot")
		if err := ws.store.Delete(StorageKey); err != nil {
			ws.log.WithError(err).Error("clear corrupt snapshot")
		}
		return
	}

	ws.projects = projects
	ws.todos = todos
	ws.currentProjectID = currentID
	ws.normalize()
}

// decodeSnapshot parses a persisted or imported snapshot into fully
// built entities, leaving the caller's state untouched on failure
func decodeSnapshot(data []byte) ([]*Project, *orderedmap.OrderedMap[string, *Task], string, error) {
	var snapshot workspaceSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, nil, "", err
	}

	projects := make([]*Project, 0, len(snapshot.Projects))
	for _, ps := range snapshot.Projects {
		p, err := ProjectFromSnapshot(ps)
		if err != nil {
			return nil, nil, "", err
		}
		projects = append(projects, p)
	}

	todos := orderedmap.NewOrderedMap[string, *Task]()
	for _, ts := range snapshot.Todos {
		task, err := TaskFromSnapshot(ts)
		if err != nil {
			return nil, nil, "", err
		}
		todos.Set(task.ID, task)
	}

	return projects, todos, snapshot.CurrentProjectID, nil
}

// normalize repairs referential integrity after load or import:
// dangling references are dropped, a task referenced by several
// projects stays with the first, exactly one project ends up default
// and the current project must exist.
func (ws *Workspace) normalize() {
	seen := make(map[string]bool)
	for _, p := range ws.projects {
		kept := p.TodoIDs[:0]
		for _, id := range p.TodoIDs {
			if _, ok := ws.todos.Get(id); !ok || seen[id] {
				continue
			}
			seen[id] = true
			kept = append(kept, id)
		}
		p.TodoIDs = kept
	}

	var defaultProject *Project
	for _, p := range ws.projects {
		if p.IsDefault {
			if defaultProject == nil {
				defaultProject = p
			} else {
				p.IsDefault = false
			}
		}
	}
	if defaultProject == nil && len(ws.projects) > 0 {
		defaultProject = ws.projects[0]
		defaultProject.IsDefault = true
	}

	if _, ok := ws.GetProject(ws.currentProjectID); !ok && defaultProject != nil {
		ws.currentProjectID = defaultProject.ID
	}
}

// ExportData produces a pretty-printed snapshot of all projects and
// tasks, without the current-project or save-timestamp bookkeeping
func (ws *Workspace) ExportData() string {
	projects, todos := ws.snapshotEntities()
	data, err := json.MarshalIndent(exportSnapshot{
		Projects:   projects,
		Todos:      todos,
		ExportedAt: formatTime(ws.now()),
	}, "", "  ")
	if err != nil {
		ws.log.WithError(err).Error("encode export")
		return ""
	}
	return string(data)
}

// ImportData replaces the whole workspace state from a snapshot.
// A snapshot missing the projects or todos section, or that fails to
// parse, is rejected with no partial mutation visible.
func (ws *Workspace) ImportData(jsonData string) bool {
	var probe struct {
		Projects *json.RawMessage `json:"projects"`
		Todos    *json.RawMessage `json:"todos"`
	}
	if err := json.Unmarshal([]byte(jsonData), &probe); err != nil || probe.Projects == nil || probe.Todos == nil {
		ws.log.Warn("rejecting malformed import payload")
		return false
	}

	projects, todos, _, err := decodeSnapshot([]byte(jsonData))
	if err != nil {
		ws.log.WithError(err).Warn("rejecting unparseable import payload")
		return false
	}

	ws.projects = projects
	ws.todos = todos

	ws.currentProjectID = ""
	for _, p := range ws.projects {
		if p.IsDefault {
			ws.currentProjectID = p.ID
			break
		}
	}
	if ws.currentProjectID == "" && len(ws.projects) > 0 {
		ws.currentProjectID = ws.projects[0].ID
	}
	ws.normalize()

	ws.Save()
	return true
}

// ClearAll deletes the persisted record, resets in-memory state and
// reseeds the default project
func (ws *Workspace) ClearAll() {
	if err := ws.store.Delete(StorageKey); err != nil {
		ws.log.WithError(err).Error("clear store")
	}
	ws.projects = nil
	ws.todos = orderedmap.NewOrderedMap[string, *Task]()
	ws.currentProjectID = ""
	ws.CreateDefaultProject()
}
