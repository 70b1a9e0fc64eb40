// Package tui implements the interactive terminal client for the
// synchronized todo list.
package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"

	"github.com/hylla/sysla/internal/app"
	"github.com/hylla/sysla/internal/domain"
)

// Service represents service data used by this package.
type Service interface {
	Snapshot() app.Snapshot
	Load(context.Context) (app.Snapshot, error)
	Add(context.Context, string) (app.Snapshot, error)
	Toggle(context.Context, int64) (app.Snapshot, error)
	Rename(context.Context, int64, string) (app.Snapshot, error)
	Remove(context.Context, int64) (app.Snapshot, error)
	RemoveCompleted(context.Context) (app.Snapshot, error)
	ToggleAll(context.Context) (app.Snapshot, error)
	SetFilter(domain.Filter) app.Snapshot
	DismissError() app.Snapshot
	RecentActivity(context.Context, int) ([]domain.ActionEvent, error)
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeAddTodo
	modeRenameTodo
	modeConfirmClear
	modeActivityLog
	modeHelp
)

// activityLogLimit bounds how many journaled events the modal fetches.
const activityLogLimit = 20

// helpMarkdown is the full-help overlay content.
const helpMarkdown = `# sysla

A todo list that stays in sync with the remote service.

## Todos

| Key | Action |
| --- | ------ |
| n | new todo |
| x / space | toggle done |
| e | edit title |
| d | delete |
| a | toggle all |
| C | clear completed |
| y | yank title to clipboard |

## View

| Key | Action |
| --- | ------ |
| 1 / 2 / 3 | all / active / completed |
| tab | cycle filter |
| j / k | move selection |
| g | activity log |
| r | reload from server |
| esc | dismiss error |
`

// snapshotMsg carries one settled state view through update handling.
type snapshotMsg struct {
	snapshot app.Snapshot
	status   string
	err      error
}

// activityLoadedMsg carries journaled action outcomes for the activity modal.
type activityLoadedMsg struct {
	events []domain.ActionEvent
	err    error
}

// yankResultMsg carries the clipboard write outcome.
type yankResultMsg struct {
	title string
	err   error
}

// Model represents model data used by this package.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int

	status string

	help     help.Model
	keys     keyMap
	helpView *helpRenderer

	snapshot   app.Snapshot
	filter     domain.Filter
	showCounts bool
	selected   int

	mode     inputMode
	input    string
	renameID int64

	activityLog []domain.ActionEvent
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:        svc,
		status:     "loading...",
		help:       h,
		keys:       newKeyMap(),
		helpView:   &helpRenderer{},
		filter:     domain.FilterAll,
		showCounts: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case snapshotMsg:
		m.snapshot = msg.snapshot
		m.filter = msg.snapshot.Filter
		m.selected = clamp(m.selected, 0, len(m.snapshot.Visible())-1)
		if msg.err != nil {
			m.status = ""
			return m, nil
		}
		if msg.status != "" {
			m.status = msg.status
		}
		return m, nil

	case activityLoadedMsg:
		if msg.err != nil {
			if m.mode == modeActivityLog {
				m.status = "activity log unavailable: " + msg.err.Error()
			}
			return m, nil
		}
		m.activityLog = append([]domain.ActionEvent(nil), msg.events...)
		if m.mode == modeActivityLog {
			m.status = "activity log"
		}
		return m, nil

	case yankResultMsg:
		if msg.err != nil {
			m.status = "clipboard unavailable: " + msg.err.Error()
			return m, nil
		}
		m.status = "yanked: " + truncate(msg.title, 32)
		return m, nil

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	default:
		return m, nil
	}
}

// handleNormalModeKey handles one key press while no modal is open.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.toggleHelp):
		m.mode = modeHelp
		m.status = "help"
		return m, nil

	case key.Matches(msg, m.keys.reload):
		m.status = "loading..."
		return m, m.loadData

	case key.Matches(msg, m.keys.moveDown):
		if m.selected < len(m.snapshot.Visible())-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.moveUp):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.addTodo):
		m.mode = modeAddTodo
		m.input = ""
		m.status = "new todo"
		return m, nil

	case key.Matches(msg, m.keys.toggleTodo):
		todo, ok := m.selectedTodo()
		if !ok {
			return m, nil
		}
		if m.snapshot.IsPending(todo.ID) {
			m.status = "still syncing..."
			return m, nil
		}
		m.status = "toggling..."
		return m, m.toggleTodo(todo.ID)

	case key.Matches(msg, m.keys.renameTodo):
		todo, ok := m.selectedTodo()
		if !ok {
			return m, nil
		}
		if m.snapshot.IsPending(todo.ID) {
			m.status = "still syncing..."
			return m, nil
		}
		m.mode = modeRenameTodo
		m.renameID = todo.ID
		m.input = todo.Title
		m.status = "edit title"
		return m, nil

	case key.Matches(msg, m.keys.deleteTodo):
		todo, ok := m.selectedTodo()
		if !ok {
			return m, nil
		}
		if m.snapshot.IsPending(todo.ID) {
			m.status = "still syncing..."
			return m, nil
		}
		m.status = "deleting..."
		return m, m.removeTodo(todo.ID)

	case key.Matches(msg, m.keys.clearCompleted):
		if m.snapshot.CompletedCount() == 0 {
			m.status = "nothing completed"
			return m, nil
		}
		m.mode = modeConfirmClear
		m.status = "clear completed?"
		return m, nil

	case key.Matches(msg, m.keys.toggleAll):
		if m.snapshot.TotalCount() == 0 {
			return m, nil
		}
		m.status = "toggling all..."
		return m, m.toggleAll

	case key.Matches(msg, m.keys.filterAll):
		return m.applyFilter(domain.FilterAll)

	case key.Matches(msg, m.keys.filterActive):
		return m.applyFilter(domain.FilterActive)

	case key.Matches(msg, m.keys.filterCompleted):
		return m.applyFilter(domain.FilterCompleted)

	case key.Matches(msg, m.keys.cycleFilter):
		return m.applyFilter(nextFilter(m.filter))

	case key.Matches(msg, m.keys.yankTitle):
		todo, ok := m.selectedTodo()
		if !ok {
			return m, nil
		}
		return m, yankTitle(todo.Title)

	case key.Matches(msg, m.keys.activityLog):
		m.mode = modeActivityLog
		m.status = "activity log"
		return m, m.loadActivity

	case key.Matches(msg, m.keys.dismiss):
		m.snapshot = m.svc.DismissError()
		m.status = "ready"
		return m, nil

	default:
		return m, nil
	}
}

// handleInputModeKey handles one key press while a modal is open.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeHelp:
		switch {
		case msg.String() == "esc", key.Matches(msg, m.keys.toggleHelp), key.Matches(msg, m.keys.quit):
			m.mode = modeNone
			m.status = "ready"
		}
		return m, nil

	case modeActivityLog:
		switch {
		case msg.String() == "esc", key.Matches(msg, m.keys.activityLog), key.Matches(msg, m.keys.quit):
			m.mode = modeNone
			m.status = "ready"
		}
		return m, nil

	case modeConfirmClear:
		switch msg.String() {
		case "y", "enter":
			m.mode = modeNone
			m.status = "clearing completed..."
			return m, m.clearCompleted
		case "n", "esc":
			m.mode = modeNone
			m.status = "ready"
		}
		return m, nil

	case modeAddTodo, modeRenameTodo:
		switch msg.String() {
		case "esc":
			m.mode = modeNone
			m.input = ""
			m.status = "ready"
			return m, nil
		case "enter":
			title := m.input
			mode := m.mode
			m.mode = modeNone
			m.input = ""
			if mode == modeRenameTodo {
				m.status = "renaming..."
				return m, m.renameTodo(m.renameID, title)
			}
			m.status = "adding..."
			return m, m.addTodo(title)
		case "backspace":
			if m.input != "" {
				_, size := utf8.DecodeLastRuneInString(m.input)
				m.input = m.input[:len(m.input)-size]
			}
			return m, nil
		default:
			if msg.Text != "" {
				m.input += msg.Text
			}
			return m, nil
		}

	default:
		return m, nil
	}
}

// applyFilter switches the visible subset synchronously.
func (m Model) applyFilter(filter domain.Filter) (tea.Model, tea.Cmd) {
	m.snapshot = m.svc.SetFilter(filter)
	m.filter = m.snapshot.Filter
	m.selected = clamp(m.selected, 0, len(m.snapshot.Visible())-1)
	m.status = string(filter)
	return m, nil
}

// selectedTodo returns the highlighted visible todo.
func (m Model) selectedTodo() (domain.Todo, bool) {
	visible := m.snapshot.Visible()
	if len(visible) == 0 {
		return domain.Todo{}, false
	}
	return visible[clamp(m.selected, 0, len(visible)-1)], true
}

// loadData loads required data for the current operation.
func (m Model) loadData() tea.Msg {
	if m.filter != "" {
		m.svc.SetFilter(m.filter)
	}
	snap, err := m.svc.Load(context.Background())
	return snapshotMsg{snapshot: snap, status: "ready", err: err}
}

// loadActivity fetches recent journal entries for the activity modal.
func (m Model) loadActivity() tea.Msg {
	events, err := m.svc.RecentActivity(context.Background(), activityLogLimit)
	return activityLoadedMsg{events: events, err: err}
}

// addTodo creates one todo from the modal input.
func (m Model) addTodo(title string) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.svc.Add(context.Background(), title)
		return snapshotMsg{snapshot: snap, status: "todo added", err: err}
	}
}

// toggleTodo flips completion for one todo.
func (m Model) toggleTodo(id int64) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.svc.Toggle(context.Background(), id)
		return snapshotMsg{snapshot: snap, status: "toggled", err: err}
	}
}

// renameTodo replaces one title from the modal input.
func (m Model) renameTodo(id int64, title string) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.svc.Rename(context.Background(), id, title)
		return snapshotMsg{snapshot: snap, status: "renamed", err: err}
	}
}

// removeTodo deletes one todo.
func (m Model) removeTodo(id int64) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.svc.Remove(context.Background(), id)
		return snapshotMsg{snapshot: snap, status: "deleted", err: err}
	}
}

// clearCompleted deletes every completed todo.
func (m Model) clearCompleted() tea.Msg {
	snap, err := m.svc.RemoveCompleted(context.Background())
	return snapshotMsg{snapshot: snap, status: "completed cleared", err: err}
}

// toggleAll flips completion in bulk.
func (m Model) toggleAll() tea.Msg {
	snap, err := m.svc.ToggleAll(context.Background())
	return snapshotMsg{snapshot: snap, status: "toggled all", err: err}
}

// yankTitle copies one title to the system clipboard.
func yankTitle(title string) tea.Cmd {
	return func() tea.Msg {
		return yankResultMsg{title: title, err: clipboard.WriteAll(title)}
	}
}

// View handles view.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)
	errorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))

	header := titleStyle.Render("sysla") + "  " + m.renderFilterTabs(accent, dim)
	if strings.TrimSpace(m.status) != "" {
		header += statusStyle.Render("  [" + m.status + "]")
	}

	sections := []string{header, ""}
	if m.snapshot.Error != app.ErrorNone {
		sections = append(sections,
			errorStyle.Render(m.snapshot.Error.Message())+statusStyle.Render("  (esc to dismiss)"),
			"")
	}
	sections = append(sections, m.renderTodoList(accent, muted, dim)...)
	sections = append(sections, "", m.renderCounts(muted))

	if modal := m.renderModal(accent, muted, dim); modal != "" {
		sections = append(sections, "", modal)
	}

	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	v := tea.NewView(content + "\n" + helpLine)
	v.AltScreen = true
	return v
}

// renderFilterTabs renders the all/active/completed selector.
func (m Model) renderFilterTabs(accent, dim color.Color) string {
	activeTab := lipgloss.NewStyle().Bold(true).Foreground(accent)
	idleTab := lipgloss.NewStyle().Foreground(dim)

	tabs := make([]string, 0, 3)
	for _, filter := range []domain.Filter{domain.FilterAll, domain.FilterActive, domain.FilterCompleted} {
		label := string(filter)
		if filter == m.filter {
			tabs = append(tabs, activeTab.Render("["+label+"]"))
			continue
		}
		tabs = append(tabs, idleTab.Render(" "+label+" "))
	}
	return strings.Join(tabs, " ")
}

// renderTodoList renders the visible todos plus the in-flight placeholder.
func (m Model) renderTodoList(accent, muted, dim color.Color) []string {
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Strikethrough(true)
	pendingStyle := lipgloss.NewStyle().Foreground(dim)
	tempStyle := lipgloss.NewStyle().Foreground(muted).Faint(true)

	visible := m.snapshot.Visible()
	if !m.snapshot.Loaded && m.snapshot.Error == app.ErrorNone {
		return []string{pendingStyle.Render("loading todos...")}
	}
	if len(visible) == 0 && m.snapshot.TempTodo == nil {
		return []string{pendingStyle.Render("no todos here")}
	}

	lines := make([]string, 0, len(visible)+1)
	for idx, todo := range visible {
		cursor := "  "
		if idx == clamp(m.selected, 0, len(visible)-1) {
			cursor = "> "
		}
		checkbox := "[ ]"
		if todo.Completed {
			checkbox = "[x]"
		}
		line := cursor + checkbox + " " + todo.Title
		switch {
		case m.snapshot.IsPending(todo.ID):
			line = pendingStyle.Render(line + " ...")
		case idx == clamp(m.selected, 0, len(visible)-1):
			line = selectedStyle.Render(line)
		case todo.Completed:
			line = cursor + checkbox + " " + doneStyle.Render(todo.Title)
		}
		lines = append(lines, line)
	}
	if temp := m.snapshot.TempTodo; temp != nil {
		lines = append(lines, tempStyle.Render("  [ ] "+temp.Title+" ..."))
	}
	return lines
}

// renderCounts renders the footer summary line.
func (m Model) renderCounts(muted color.Color) string {
	if !m.showCounts {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(muted)
	active := m.snapshot.ActiveCount()
	label := fmt.Sprintf("%d items left", active)
	if active == 1 {
		label = "1 item left"
	}
	if completed := m.snapshot.CompletedCount(); completed > 0 {
		label += fmt.Sprintf("  •  %d completed", completed)
	}
	return style.Render(label)
}

// renderModal renders the active modal content, if any.
func (m Model) renderModal(accent, muted, dim color.Color) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle := lipgloss.NewStyle().Foreground(muted)

	switch m.mode {
	case modeAddTodo:
		return boxStyle.Render(strings.Join([]string{
			titleStyle.Render("New Todo"),
			"",
			"> " + m.input + "█",
			"",
			hintStyle.Render("enter save • esc cancel"),
		}, "\n"))

	case modeRenameTodo:
		return boxStyle.Render(strings.Join([]string{
			titleStyle.Render("Edit Title"),
			"",
			"> " + m.input + "█",
			"",
			hintStyle.Render("enter save • esc cancel"),
		}, "\n"))

	case modeConfirmClear:
		count := m.snapshot.CompletedCount()
		return boxStyle.Render(strings.Join([]string{
			titleStyle.Render("Clear Completed"),
			"",
			fmt.Sprintf("Delete %d completed todo(s) from the server?", count),
			"",
			hintStyle.Render("y confirm • n cancel"),
		}, "\n"))

	case modeActivityLog:
		lines := []string{titleStyle.Render("Activity"), ""}
		if len(m.activityLog) == 0 {
			lines = append(lines, hintStyle.Render("no recorded actions yet"))
		}
		for _, event := range m.activityLog {
			entry := fmt.Sprintf("%s  %s", event.OccurredAt.Local().Format("15:04:05"), event.Operation)
			if event.Title != "" {
				entry += "  " + truncate(event.Title, 32)
			}
			if event.Failed() {
				entry += "  failed: " + truncate(event.Failure, 40)
			}
			lines = append(lines, entry)
		}
		lines = append(lines, "", hintStyle.Render("esc close"))
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeHelp:
		width := m.width - 8
		if width <= 0 {
			width = 72
		}
		return boxStyle.Render(m.helpView.render(helpMarkdown, width))

	default:
		return ""
	}
}

// nextFilter cycles all -> active -> completed -> all.
func nextFilter(filter domain.Filter) domain.Filter {
	switch filter {
	case domain.FilterAll:
		return domain.FilterActive
	case domain.FilterActive:
		return domain.FilterCompleted
	default:
		return domain.FilterAll
	}
}

// clamp bounds v to the inclusive range.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// truncate shortens s to at most limit runes with an ellipsis.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}
