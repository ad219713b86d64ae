package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/elevate/internal/api"
	"github.com/sadopc/elevate/internal/store"
	"github.com/sadopc/elevate/internal/tasklist"
)

// dueDateLayout is the format the due date form field accepts.
const dueDateLayout = "2006-01-02 15:04"

// filterCycle is the order the f key walks through.
var filterCycle = append([]api.Category{tasklist.CategoryAll}, api.Categories...)

var sortCycle = []tasklist.SortKey{tasklist.SortByCreated, tasklist.SortByDue, tasklist.SortByTitle}

type tasksModel struct {
	client     *api.TaskClient
	collection *tasklist.Collection
	local      *store.Store
	width      int
	height     int

	cursor int
	filter tasklist.Filter
	sort   tasklist.Sort

	searching bool
	search    textinput.Model

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit"

	// Form field pointers (survive value copies)
	formTitle       *string
	formDescription *string
	formCategory    *string
	formDue         *string

	editingID string
}

func newTasksModel(client *api.TaskClient, c *tasklist.Collection, local *store.Store) tasksModel {
	search := textinput.New()
	search.Placeholder = "search title or description..."
	search.Prompt = "/ "

	title, description, category, due := "", "", string(api.CategoryPersonal), ""
	m := tasksModel{
		client:          client,
		collection:      c,
		local:           local,
		search:          search,
		filter:          tasklist.Filter{Category: tasklist.CategoryAll},
		sort:            tasklist.Sort{Key: tasklist.SortByCreated, Dir: tasklist.SortDesc},
		formTitle:       &title,
		formDescription: &description,
		formCategory:    &category,
		formDue:         &due,
	}
	m.loadPrefs()
	return m
}

// loadPrefs restores the remembered filter/sort, ignoring values the
// current build no longer recognizes.
func (m *tasksModel) loadPrefs() {
	if m.local == nil {
		return
	}
	p := m.local.ViewPrefs()
	cat := api.Category(p.FilterCategory)
	if cat == tasklist.CategoryAll || cat.Valid() {
		m.filter.Category = cat
	}
	switch tasklist.SortKey(p.SortKey) {
	case tasklist.SortByCreated, tasklist.SortByDue, tasklist.SortByTitle:
		m.sort.Key = tasklist.SortKey(p.SortKey)
	}
	switch tasklist.SortDir(p.SortDir) {
	case tasklist.SortAsc, tasklist.SortDesc:
		m.sort.Dir = tasklist.SortDir(p.SortDir)
	}
}

func (m tasksModel) savePrefs() tea.Cmd {
	if m.local == nil {
		return nil
	}
	err := m.local.SaveViewPrefs(store.ViewPrefs{
		FilterCategory: string(m.filter.Category),
		SortKey:        string(m.sort.Key),
		SortDir:        string(m.sort.Dir),
	})
	if err != nil {
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Save preferences failed: %v", err), isError: true}
		}
	}
	return nil
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.search.Width = max(20, w-20)
}

// visible recomputes the derived view on every read; nothing is cached
// across a mutation.
func (m tasksModel) visible() []api.Task {
	return tasklist.DeriveView(m.collection.Tasks(), m.filter, m.sort)
}

func (m tasksModel) inputActive() bool {
	return m.formActive || m.searching
}

// refresh fetches the authoritative list from the server.
func (m tasksModel) refresh() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		tasks, err := client.List(context.Background())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load failed: %v", err), isError: true}
		}
		return tasksLoadedMsg{tasks: tasks}
	}
}

func (m tasksModel) toggleCmd(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		task, err := client.ToggleComplete(context.Background(), id)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Toggle failed: %v", err), isError: true}
		}
		return taskSavedMsg{task: task}
	}
}

func (m tasksModel) deleteCmd(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.Delete(context.Background(), id); err != nil {
			return statusMsg{text: fmt.Sprintf("Delete failed: %v", err), isError: true}
		}
		return taskRemovedMsg{id: id}
	}
}

func (m tasksModel) createCmd(fields api.TaskFields) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		task, err := client.Create(context.Background(), fields)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Create failed: %v", err), isError: true}
		}
		return taskSavedMsg{task: task, note: "Task created"}
	}
}

func (m tasksModel) updateCmd(id string, fields api.TaskFields) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		task, err := client.Update(context.Background(), id, fields)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Update failed: %v", err), isError: true}
		}
		return taskSavedMsg{task: task, note: "Task updated"}
	}
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksLoadedMsg, taskSavedMsg, taskRemovedMsg:
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *tasksModel) clampCursor() {
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	visible := m.visible()

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
		if m.cursor < len(visible) {
			return m, m.toggleCmd(visible[m.cursor].ID)
		}
	case key.Matches(msg, keys.New):
		return m.showForm("new", nil)
	case key.Matches(msg, keys.Edit):
		if m.cursor < len(visible) {
			task := visible[m.cursor]
			return m.showForm("edit", &task)
		}
	case key.Matches(msg, keys.Delete):
		if m.cursor < len(visible) {
			return m, m.deleteCmd(visible[m.cursor].ID)
		}
	case key.Matches(msg, keys.Search):
		m.searching = true
		m.search.SetValue(m.filter.Query)
		m.search.Focus()
		return m, textinput.Blink
	case key.Matches(msg, keys.Filter):
		m.filter.Category = nextInCycle(filterCycle, m.filter.Category)
		m.clampCursor()
		return m, m.savePrefs()
	case key.Matches(msg, keys.Sort):
		m.sort.Key = nextInCycle(sortCycle, m.sort.Key)
		return m, m.savePrefs()
	case key.Matches(msg, keys.Order):
		if m.sort.Dir == tasklist.SortAsc {
			m.sort.Dir = tasklist.SortDesc
		} else {
			m.sort.Dir = tasklist.SortAsc
		}
		return m, m.savePrefs()
	case key.Matches(msg, keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, keys.Back):
		if m.filter.Query != "" {
			m.filter.Query = ""
			m.clampCursor()
		}
	}
	return m, nil
}

func nextInCycle[T comparable](cycle []T, current T) T {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func (m tasksModel) updateSearch(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.filter.Query = ""
		m.clampCursor()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filter.Query = m.search.Value()
	m.clampCursor()
	return m, cmd
}

func (m tasksModel) showForm(formType string, task *api.Task) (tasksModel, tea.Cmd) {
	if task != nil {
		*m.formTitle = task.Title
		*m.formDescription = task.Description
		*m.formCategory = string(task.Category)
		if task.Category == "" {
			*m.formCategory = string(api.CategoryPersonal)
		}
		*m.formDue = ""
		if task.DueDate != nil {
			*m.formDue = task.DueDate.Local().Format(dueDateLayout)
		}
		m.editingID = task.ID
	} else {
		*m.formTitle = ""
		*m.formDescription = ""
		*m.formCategory = string(api.CategoryPersonal)
		*m.formDue = ""
		m.editingID = ""
	}
	m.formType = formType

	catOptions := make([]huh.Option[string], len(api.Categories))
	for i, c := range api.Categories {
		catOptions[i] = huh.NewOption(string(c), string(c))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewText().Title("Description").Lines(3).Value(m.formDescription),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(m.formCategory),
			huh.NewInput().
				Title("Due date (YYYY-MM-DD HH:MM, optional)").
				Value(m.formDue).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := time.ParseInLocation(dueDateLayout, s, time.Local); err != nil {
						return fmt.Errorf("use %s", dueDateLayout)
					}
					return nil
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.formActive = false
		m.form = nil
		return m, nil

	case huh.StateCompleted:
		m.formActive = false
		fields := api.TaskFields{
			Title:       *m.formTitle,
			Description: *m.formDescription,
			Category:    api.Category(*m.formCategory),
		}
		if due := strings.TrimSpace(*m.formDue); due != "" {
			if t, err := time.ParseInLocation(dueDateLayout, due, time.Local); err == nil {
				utc := t.UTC()
				fields.DueDate = &utc
			}
		}
		if err := fields.Validate(); err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: err.Error(), isError: true}
			}
		}
		if m.formType == "edit" {
			return m, m.updateCmd(m.editingID, fields)
		}
		return m, m.createCmd(fields)
	}

	return m, cmd
}

func (m tasksModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		if m.formType == "edit" {
			title = titleStyle.Render("Edit Task")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}
	return m.renderList()
}

func (m tasksModel) renderList() string {
	w := m.width - 4
	visible := m.visible()

	var rows []string
	rows = append(rows, titleStyle.Render("Your Tasks"))
	rows = append(rows, "")
	rows = append(rows, m.renderControls())
	rows = append(rows, "")

	if len(visible) == 0 {
		if m.collection.Len() == 0 {
			rows = append(rows, mutedStyle.Render("No tasks yet. Press n to add one, or ask the assistant on tab 3."))
		} else {
			rows = append(rows, mutedStyle.Render("No tasks match the current filter."))
		}
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	now := time.Now()
	titleWidth := max(16, w-52)
	for i, task := range visible {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		mark := mutedStyle.Render("○")
		name := style.Render(truncate(task.Title, titleWidth))
		if task.IsCompleted {
			mark = successStyle.Render("✓")
			name = doneStyle.Render(truncate(task.Title, titleWidth))
		}

		dot := lipgloss.NewStyle().Foreground(categoryColor(task.Category)).Render("●")
		category := mutedStyle.Render(fmt.Sprintf("%-8s", task.Category))

		due := strings.Repeat(" ", 12)
		if task.DueDate != nil {
			due = mutedStyle.Render(formatDue(*task.DueDate))
			if !task.IsCompleted && task.DueDate.Before(now) {
				due = errorStyle.Render(formatDue(*task.DueDate))
			}
		}

		row := fmt.Sprintf("%s%s %s %s %s  %s", cursor, mark, dot, category, due, name)
		rows = append(rows, row)
		if i == m.cursor && task.Description != "" {
			rows = append(rows, mutedStyle.Render("      "+truncate(task.Description, w-10)))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  space: toggle  /: search  f/s/o: filter/sort/order"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m tasksModel) renderControls() string {
	analytics := tasklist.DeriveAnalytics(m.collection.Tasks())
	counts := mutedStyle.Render(fmt.Sprintf("%d pending / %d total", analytics.Pending, analytics.Total))

	filter := highlightStyle.Render(string(m.filter.Category))
	sortLabel := mutedStyle.Render(fmt.Sprintf("sort: %s %s", m.sort.Key, m.sort.Dir))

	search := ""
	if m.searching {
		search = "  " + m.search.View()
	} else if m.filter.Query != "" {
		search = "  " + mutedStyle.Render(fmt.Sprintf("search: %q (esc clears)", m.filter.Query))
	}

	return fmt.Sprintf("  %s  %s  %s%s", counts, filter, sortLabel, search)
}
