// Package tasktui is a full-screen terminal presenter for the task list.
//
// It materializes the same view.Page as the web handler: a tab for active
// tasks in display order, a tab for the archive, a detail pane for the
// selected task, and a status line for transient notices.
package tasktui

import (
	"context"
	"fmt"
	"strings"
	"time"

	internalstrings "github.com/amonks/tasks/internal/strings"
	"github.com/amonks/tasks/task"
	"github.com/amonks/tasks/view"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Store is the task store the UI reads and mutates.
type Store interface {
	view.Source
	Add(text string, opts task.AddOptions) task.Task
	Delete(id int) bool
	SetStatus(id int, status task.Status) (task.Task, bool)
	SetText(id int, text string) (task.Task, bool)
	SetDueDate(id int, dueDate *string) (task.Task, bool)
	Archive(id int) (task.Task, bool)
	Unarchive(id int) (task.Task, bool)
}

// Options configures the terminal UI.
type Options struct {
	Store Store

	// Now returns the current instant for urgency labels. Defaults to time.Now.
	Now func() time.Time
}

type tabKind int

const (
	tabTasks tabKind = iota
	tabArchived
)

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalConfirmDelete
	modalInput
)

type model struct {
	store       Store
	now         func() time.Time
	width       int
	height      int
	activeTab   tabKind
	page        view.Page
	taskList    list.Model
	archiveList list.Model
	detail      detailModel
	modal       confirmModal
	selectedIDs [2]int

	status       string
	statusLevel  statusLevel
	statusFading bool
	statusSeq    int

	// changeDelay holds a changing item on screen before its mutation is
	// applied. tick schedules notice fading.
	changeDelay time.Duration
	tick        func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

type confirmModal struct {
	kind        modalKind
	message     string
	confirmText string
	cancelText  string
	selected    int
	taskID      int
	field       inputField
}

// Run starts the UI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("task store is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	program := tea.NewProgram(newModel(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func newModel(opts Options) model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return model{
		store:       opts.Store,
		now:         now,
		activeTab:   tabTasks,
		taskList:    newTaskList("Tasks"),
		archiveList: newTaskList("Archived"),
		detail:      newDetailModel(),
		modal:       confirmModal{kind: modalNone},
		changeDelay: view.ChangeDelay,
		tick:        tea.Tick,
	}
}

func newTaskList(title string) list.Model {
	taskList := list.New(nil, newTaskItemDelegate(), 0, 0)
	taskList.Title = title
	taskList.SetShowTitle(false)
	taskList.SetShowStatusBar(false)
	taskList.SetFilteringEnabled(false)
	taskList.SetShowHelp(false)
	taskList.SetShowPagination(false)
	return taskList
}

func (m model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case pageLoadedMsg:
		m.handlePageLoaded(msg)
		return m, nil
	case mutatedMsg:
		return m.handleMutated(msg)
	case fadeStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusFading = true
			return m, m.tick(view.NoticeFade, func(time.Time) tea.Msg { return clearStatusMsg{seq: msg.seq} })
		}
		return m, nil
	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusLevel = statusNone
			m.statusFading = false
		}
		return m, nil
	}

	if m.modal.kind != modalNone {
		return m.updateModal(msg)
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(key)
	}
	return m, nil
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading tasks..."
	}
	contentHeight := m.height - 3
	if contentHeight < 1 {
		contentHeight = 1
	}
	leftWidth, rightWidth := splitWidths(m.width)

	listPane := m.renderPane(m.listContent(), leftWidth, contentHeight, true)
	detailPane := m.renderPane(m.detail.View(), rightWidth, contentHeight, false)
	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)

	screen := strings.Join([]string{m.renderTabs(), m.renderSummaryLine(), content, m.renderStatusLine()}, "\n")
	if m.modal.kind != modalNone {
		screen = m.renderModalOverlay(screen)
	}
	return screen
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.modal = confirmModal{kind: modalHelp}
		return m, nil
	case "tab", "shift+tab", "backtab", "[", "]":
		if m.activeTab == tabTasks {
			return m.activateTab(tabArchived), nil
		}
		return m.activateTab(tabTasks), nil
	case "1":
		return m.activateTab(tabTasks), nil
	case "2":
		return m.activateTab(tabArchived), nil
	case "up", "k":
		return m.moveSelection(-1), nil
	case "down", "j":
		return m.moveSelection(1), nil
	case "home", "g":
		return m.moveSelection(-len(m.activeList().Items())), nil
	case "end", "G":
		return m.moveSelection(len(m.activeList().Items())), nil
	case "r":
		return m, m.loadCmd()
	case "n":
		return m.openInput(newInputField(inputAdd, 0, ""))
	case "x", "delete":
		return m.promptDelete(), nil
	}

	item, ok := m.currentItem()
	if !ok {
		return m, nil
	}
	if m.activeTab == tabArchived {
		switch msg.String() {
		case "u", "a":
			return m.change(item.ID, "Task restored", func(store Store) bool {
				_, ok := store.Unarchive(item.ID)
				return ok
			})
		}
		return m, nil
	}

	switch msg.String() {
	case "enter", "e":
		return m.openInput(newInputField(inputText, item.ID, item.Text))
	case "d":
		return m.openInput(newInputField(inputDue, item.ID, item.DueDate))
	case "s":
		status := nextStatus(item.Status)
		return m.change(item.ID, "Status changed to "+status.Label(), func(store Store) bool {
			_, ok := store.SetStatus(item.ID, status)
			return ok
		})
	case "a":
		return m.change(item.ID, "Task archived", func(store Store) bool {
			_, ok := store.Archive(item.ID)
			return ok
		})
	}
	return m, nil
}

func (m model) activateTab(target tabKind) model {
	if target == m.activeTab {
		return m
	}
	m.activeTab = target
	m.updateSelection()
	return m
}

func (m model) moveSelection(delta int) model {
	l := m.activeList()
	items := l.Items()
	if len(items) == 0 {
		return m
	}
	current := l.Index()
	if current < 0 {
		current = 0
	}
	next := current + delta
	if next < 0 {
		next = 0
	}
	if next >= len(items) {
		next = len(items) - 1
	}
	if next == current {
		return m
	}
	l.Select(next)
	m.updateSelection()
	return m
}

func (m *model) activeList() *list.Model {
	if m.activeTab == tabArchived {
		return &m.archiveList
	}
	return &m.taskList
}

func (m model) currentItem() (taskItem, bool) {
	l := m.taskList
	if m.activeTab == tabArchived {
		l = m.archiveList
	}
	item := l.SelectedItem()
	if item == nil {
		return taskItem{}, false
	}
	current, ok := item.(taskItem)
	return current, ok
}

func (m *model) updateSelection() {
	item, ok := m.currentItem()
	if ok {
		m.selectedIDs[m.activeTab] = item.ID
	}
	m.detail.SetItem(item.Item, ok)
}

func (m *model) handlePageLoaded(msg pageLoadedMsg) {
	m.page = msg.page
	m.taskList.SetItems(taskItems(msg.page.Items))
	m.archiveList.SetItems(taskItems(msg.page.Archived))
	selectTask(&m.taskList, m.selectedIDs[tabTasks])
	selectTask(&m.archiveList, m.selectedIDs[tabArchived])
	m.updateSelection()
}

// selectTask moves the cursor to id. When id is gone the cursor stays at its
// index, clamped to the list.
func selectTask(l *list.Model, id int) {
	items := l.Items()
	for i, item := range items {
		if current, ok := item.(taskItem); ok && current.ID == id {
			l.Select(i)
			return
		}
	}
	if len(items) == 0 {
		return
	}
	if index := l.Index(); index < 0 {
		l.Select(0)
	} else if index >= len(items) {
		l.Select(len(items) - 1)
	}
}

func (m *model) markChanging(id int) {
	l := m.activeList()
	for i, item := range l.Items() {
		if current, ok := item.(taskItem); ok && current.ID == id {
			current.changing = true
			l.SetItem(i, current)
			return
		}
	}
}

// change shows id as changing, then applies fn after changeDelay.
func (m model) change(id int, message string, fn func(Store) bool) (tea.Model, tea.Cmd) {
	m.markChanging(id)
	store := m.store
	apply := func(time.Time) tea.Msg {
		if !fn(store) {
			return taskNotFoundMsg()
		}
		return mutatedMsg{message: message, level: statusInfo}
	}
	if m.changeDelay <= 0 {
		return m, func() tea.Msg { return apply(time.Time{}) }
	}
	return m, m.tick(m.changeDelay, apply)
}

func taskNotFoundMsg() mutatedMsg {
	return mutatedMsg{message: "Task not found", level: statusError}
}

func (m model) handleMutated(msg mutatedMsg) (tea.Model, tea.Cmd) {
	if msg.selectID != 0 {
		m.selectedIDs[tabTasks] = msg.selectID
	}
	statusCmd := m.setStatus(msg.message, msg.level)
	return m, tea.Batch(m.loadCmd(), statusCmd)
}

// setStatus shows a notice and schedules its fade and removal.
func (m *model) setStatus(text string, level statusLevel) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusLevel = level
	m.statusFading = false
	if internalstrings.IsBlank(text) {
		return nil
	}
	seq := m.statusSeq
	return m.tick(view.NoticeDisplay, func(time.Time) tea.Msg { return fadeStatusMsg{seq: seq} })
}

func (m model) promptDelete() model {
	item, ok := m.currentItem()
	if !ok {
		return m
	}
	m.modal = confirmModal{
		kind:        modalConfirmDelete,
		message:     fmt.Sprintf("Delete #%d %s?", item.ID, truncateText(internalstrings.NormalizeWhitespace(item.Text), 40)),
		confirmText: "Delete",
		cancelText:  "Cancel",
		selected:    1,
		taskID:      item.ID,
	}
	return m
}

func (m model) openInput(field inputField) (tea.Model, tea.Cmd) {
	field, cmd := field.Focus()
	m.modal = confirmModal{kind: modalInput, field: field}
	return m, cmd
}

func (m model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.modal.kind == modalInput {
		return m.updateInput(msg)
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.modal.kind == modalHelp {
		switch key.String() {
		case "?", "esc":
			m.modal = confirmModal{kind: modalNone}
			return m, nil
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		return m, nil
	}
	selection := m.modal.selected
	switch key.String() {
	case "left", "right", "tab", "shift+tab", "backtab":
		if selection == 0 {
			selection = 1
		} else {
			selection = 0
		}
		m.modal.selected = selection
		return m, nil
	case "y":
		return m.resolveModal(true)
	case "n":
		return m.resolveModal(false)
	case "enter":
		confirm := selection == 0
		return m.resolveModal(confirm)
	case "esc":
		return m.resolveModal(false)
	}
	return m, nil
}

func (m model) resolveModal(confirm bool) (tea.Model, tea.Cmd) {
	modal := m.modal
	m.modal = confirmModal{kind: modalNone}
	if !confirm || modal.kind != modalConfirmDelete {
		return m, nil
	}
	return m.change(modal.taskID, "Task deleted", func(store Store) bool {
		return store.Delete(modal.taskID)
	})
}

func (m model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.modal = confirmModal{kind: modalNone}
			return m, nil
		case "enter":
			return m.commitInput()
		}
	}
	var cmd tea.Cmd
	m.modal.field, cmd = m.modal.field.Update(msg)
	return m, cmd
}

func (m model) commitInput() (tea.Model, tea.Cmd) {
	field := m.modal.field
	value := field.Value()
	store := m.store

	switch field.kind {
	case inputAdd:
		if err := view.ValidateNewText(value); err != nil {
			m.modal.field.err = err.Error()
			return m, nil
		}
		m.modal = confirmModal{kind: modalNone}
		m.activeTab = tabTasks
		return m, func() tea.Msg {
			created := store.Add(value, task.AddOptions{})
			return mutatedMsg{message: "Task added", level: statusInfo, selectID: created.ID}
		}

	case inputText:
		m.modal = confirmModal{kind: modalNone}
		trimmed := strings.TrimSpace(value)
		if trimmed == "" || trimmed == strings.TrimSpace(field.original) {
			return m, nil
		}
		return m, func() tea.Msg {
			if _, ok := store.SetText(field.taskID, trimmed); !ok {
				return taskNotFoundMsg()
			}
			return mutatedMsg{message: "Task updated", level: statusInfo}
		}

	case inputDue:
		due := strings.TrimSpace(value)
		var dueDate *string
		message := "Due date cleared"
		if due != "" {
			if err := task.ValidateDueDate(due); err != nil {
				m.modal.field.err = err.Error()
				return m, nil
			}
			dueDate = &due
			message = "Due date updated"
		}
		m.modal = confirmModal{kind: modalNone}
		return m, func() tea.Msg {
			if _, ok := store.SetDueDate(field.taskID, dueDate); !ok {
				return taskNotFoundMsg()
			}
			return mutatedMsg{message: message, level: statusInfo}
		}
	}
	return m, nil
}

func (m *model) resize() {
	contentHeight := m.height - 3
	if contentHeight < 1 {
		contentHeight = 1
	}
	leftWidth, rightWidth := splitWidths(m.width)
	listHeight := contentHeight - 2
	if listHeight < 1 {
		listHeight = 1
	}
	listWidth := leftWidth - 4
	if listWidth < 1 {
		listWidth = 1
	}
	innerDetailWidth := rightWidth - 4
	if innerDetailWidth < 1 {
		innerDetailWidth = 1
	}
	m.taskList.SetSize(listWidth, listHeight)
	m.archiveList.SetSize(listWidth, listHeight)
	m.detail.SetSize(innerDetailWidth, listHeight)
}

func splitWidths(width int) (int, int) {
	left := width / 2
	if left < 30 {
		left = 30
	}
	if left > width-20 {
		left = width / 2
	}
	right := width - left
	if right < 20 {
		right = 20
		left = width - right
	}
	return left, right
}

func (m model) renderTabs() string {
	labels := []string{
		fmt.Sprintf("[1] Tasks (%d)", len(m.page.Items)),
		fmt.Sprintf("[2] Archived (%d)", len(m.page.Archived)),
	}
	parts := make([]string, 0, len(labels))
	for i, label := range labels {
		style := tabInactiveStyle
		if tabKind(i) == m.activeTab {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(label))
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	helpHint := valueMuted.Render("Press ? for help")
	spacerWidth := m.width - lipgloss.Width(content) - lipgloss.Width(helpHint)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := strings.Repeat(" ", spacerWidth)
	return tabBarStyle.Width(m.width).Render(content + spacer + helpHint)
}

func (m model) renderSummaryLine() string {
	s := m.page.Summary
	noun := "tasks"
	if s.Total == 1 {
		noun = "task"
	}
	text := fmt.Sprintf("%d %s: %d to do, %d in progress, %d done", s.Total, noun, s.Todo, s.Doing, s.Done)
	return labelStyle.Render(truncateText(text, m.width))
}

func (m model) listContent() string {
	if m.activeTab == tabArchived {
		if len(m.archiveList.Items()) == 0 {
			return valueMuted.Render(view.ArchivedEmptyMessage)
		}
		return m.archiveList.View()
	}
	if len(m.taskList.Items()) == 0 {
		return valueMuted.Render(view.EmptyMessage)
	}
	return m.taskList.View()
}

func (m model) renderPane(content string, width, height int, focused bool) string {
	style := paneStyle
	if focused {
		style = paneActiveStyle
	}
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return style.Width(width).Height(height).Render(content)
}

func (m model) renderStatusLine() string {
	text := m.status
	if internalstrings.IsBlank(text) {
		return ""
	}
	style := valueMuted
	if !m.statusFading {
		switch m.statusLevel {
		case statusError:
			style = statusErrorStyle
		case statusInfo:
			style = statusSuccessStyle
		}
	}
	return style.Render(text)
}

func (m model) renderModalOverlay(content string) string {
	if m.modal.kind == modalNone {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.modalView())
}

func (m model) modalView() string {
	switch m.modal.kind {
	case modalHelp:
		return modalStyle.Render(helpContent())
	case modalInput:
		return modalStyle.Render(m.modal.field.View())
	}
	options := []string{m.modal.confirmText, m.modal.cancelText}
	buttons := make([]string, 0, 2)
	for i, option := range options {
		style := valueMuted
		if i == m.modal.selected {
			style = selectedBorder
		}
		buttons = append(buttons, style.Render("["+option+"]"))
	}
	content := strings.Join([]string{m.modal.message, "", strings.Join(buttons, " ")}, "\n")
	return modalStyle.Render(content)
}

func helpContent() string {
	sections := []string{
		labelStyle.Render("Global"),
		"q or ctrl+c: quit",
		"tab / [ or ] / 1 or 2: switch tabs",
		"r: reload",
		"?: toggle help",
		"",
		labelStyle.Render("Navigation"),
		"up/down or j/k: move selection",
		"home/end or g/G: first/last task",
		"",
		labelStyle.Render("Tasks"),
		"n: new task",
		"enter or e: edit text",
		"d: set or clear due date",
		"s: cycle status",
		"a: archive",
		"x: delete",
		"",
		labelStyle.Render("Archived"),
		"u or a: restore",
		"x: delete",
		"",
		labelStyle.Render("Help"),
		"press ? or esc to close",
	}
	return strings.Join(sections, "\n")
}

func (m model) loadCmd() tea.Cmd {
	store := m.store
	now := m.now
	return func() tea.Msg {
		return pageLoadedMsg{page: view.Build(store, now())}
	}
}

type pageLoadedMsg struct {
	page view.Page
}

type mutatedMsg struct {
	message  string
	level    statusLevel
	selectID int
}

type fadeStatusMsg struct {
	seq int
}

type clearStatusMsg struct {
	seq int
}
