package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit            key.Binding
	reload          key.Binding
	toggleHelp      key.Binding
	moveUp          key.Binding
	moveDown        key.Binding
	addTodo         key.Binding
	toggleTodo      key.Binding
	renameTodo      key.Binding
	deleteTodo      key.Binding
	clearCompleted  key.Binding
	toggleAll       key.Binding
	filterAll       key.Binding
	filterActive    key.Binding
	filterCompleted key.Binding
	cycleFilter     key.Binding
	yankTitle       key.Binding
	activityLog     key.Binding
	dismiss         key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:          key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveUp:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "todo up")),
		moveDown:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "todo down")),
		addTodo:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new todo")),
		toggleTodo:      key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x/space", "toggle done")),
		renameTodo:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
		deleteTodo:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		clearCompleted:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed")),
		toggleAll:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle all")),
		filterAll:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		filterActive:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		filterCompleted: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		cycleFilter:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "cycle filter")),
		yankTitle:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yank title")),
		activityLog:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "activity log")),
		dismiss:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTodo, k.toggleTodo, k.renameTodo, k.deleteTodo, k.cycleFilter, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addTodo, k.toggleTodo, k.renameTodo, k.deleteTodo, k.clearCompleted, k.toggleAll},
		{k.filterAll, k.filterActive, k.filterCompleted, k.cycleFilter, k.moveUp, k.moveDown},
		{k.yankTitle, k.activityLog, k.reload, k.dismiss, k.toggleHelp, k.quit},
	}
}
