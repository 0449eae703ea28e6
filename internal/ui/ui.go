// Package ui provides the interactive terminal surface.
package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"taskdeck/internal/config"
	"taskdeck/internal/dates"
	"taskdeck/internal/service"
	"taskdeck/internal/tasks"
	"taskdeck/internal/views"
)

// Run starts the UI for an authenticated session and blocks until the
// user quits.
func Run(ctx context.Context, cfg *config.Config, store service.Store, sess service.Session, logger *log.Logger) error {
	toasts := make(chan toast, 16)
	changes := make(chan struct{}, 1)

	cache := tasks.NewCache()
	unsubscribe := cache.Subscribe(func() {
		// Coalesce: one pending wakeup is enough.
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	ops := tasks.NewOps(store, cache, sess.UserID, chanNotifier{ch: toasts}, logger)
	m := newModel(ctx, cfg, ops, sess, changes, toasts)

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// toast is a transient status message.
type toast struct {
	text  string
	isErr bool
}

// chanNotifier forwards operation notifications into the UI loop.
type chanNotifier struct {
	ch chan toast
}

func (n chanNotifier) Success(msg string) { n.push(toast{text: msg}) }
func (n chanNotifier) Error(msg string)   { n.push(toast{text: msg, isErr: true}) }

func (n chanNotifier) push(t toast) {
	select {
	case n.ch <- t:
	default:
	}
}

// priorityOverlay holds optimistic priority values while their remote
// calls are in flight. The cache stays untouched until the store
// confirms; rendering consults the overlay first.
type priorityOverlay struct {
	mu sync.Mutex
	m  map[string]service.Priority
}

func newPriorityOverlay() *priorityOverlay {
	return &priorityOverlay{m: make(map[string]service.Priority)}
}

func (o *priorityOverlay) set(id string, p service.Priority) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.m[id] = p
}

func (o *priorityOverlay) clear(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.m, id)
}

func (o *priorityOverlay) get(id string) (service.Priority, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.m[id]
	return p, ok
}

type tab int

const (
	tabList tab = iota
	tabCompleted
	tabCalendar
)

type model struct {
	ctx  context.Context
	cfg  *config.Config
	ops  *tasks.Ops
	sess service.Session

	changes <-chan struct{}
	toasts  <-chan toast

	// snapshot and its open/done projections refresh together, so the
	// sorter's memo sees a stable slice identity across renders.
	snapshot []service.Task
	open     []service.Task
	done     []service.Task
	sorter   views.Sorter
	sortMode views.SortMode
	sortDir  views.SortDir
	overlay  *priorityOverlay

	tab     tab
	cursor  int
	width   int
	height  int
	sidebar bool

	// Calendar state.
	month dates.Date
	day   dates.Date

	// Text-input state. A non-empty editID means the input renames
	// that task instead of creating a new one.
	adding bool
	editID string
	input  string

	toast    toast
	hasToast bool
	loading  bool
	fetchErr error
}

func newModel(ctx context.Context, cfg *config.Config, ops *tasks.Ops, sess service.Session, changes <-chan struct{}, toasts <-chan toast) *model {
	today := dates.Today()
	return &model{
		ctx:      ctx,
		cfg:      cfg,
		ops:      ops,
		sess:     sess,
		changes:  changes,
		toasts:   toasts,
		sortMode: views.SortNone,
		sortDir:  views.Asc,
		overlay:  newPriorityOverlay(),
		month:    dates.Date{Year: today.Year, Month: today.Month, Day: 1},
		day:      today,
		sidebar:  !cfg.LoadPrefs().SidebarCollapsed,
		loading:  true,
	}
}

type changeMsg struct{}

type toastMsg toast

type opDoneMsg struct {
	err error
}

type fetchDoneMsg struct {
	err error
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.waitForChange(), m.waitForToast())
}

func (m *model) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		return fetchDoneMsg{err: m.ops.FetchAll(m.ctx)}
	}
}

func (m *model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return changeMsg{}
	}
}

func (m *model) waitForToast() tea.Cmd {
	return func() tea.Msg {
		return toastMsg(<-m.toasts)
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case fetchDoneMsg:
		m.loading = false
		m.fetchErr = msg.err
		return m, nil

	case changeMsg:
		m.setSnapshot(m.ops.Cache().Snapshot())
		m.clampCursor()
		return m, m.waitForChange()

	case toastMsg:
		m.toast = toast(msg)
		m.hasToast = true
		return m, m.waitForToast()

	case opDoneMsg:
		// Failures arrive as toasts through the notifier or here for
		// calls without a notification path.
		if msg.err != nil {
			m.toast = toast{text: msg.err.Error(), isErr: true}
			m.hasToast = true
		}
		return m, nil

	case tea.KeyMsg:
		if m.adding || m.editID != "" {
			return m.updateTextInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % 3
		m.cursor = 0
		return m, nil
	case "1":
		m.tab = tabList
		m.cursor = 0
		return m, nil
	case "2":
		m.tab = tabCompleted
		m.cursor = 0
		return m, nil
	case "3":
		m.tab = tabCalendar
		return m, nil
	case "r", "f5":
		m.loading = true
		return m, m.fetchCmd()
	case "b":
		m.sidebar = !m.sidebar
		m.cfg.SavePrefs(config.Prefs{SidebarCollapsed: !m.sidebar})
		return m, nil
	}

	if m.tab == tabCalendar {
		return m.updateCalendarKeys(msg)
	}
	return m.updateTaskKeys(msg)
}

func (m *model) updateTaskKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visibleTasks()
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "s":
		m.sortMode = nextSortMode(m.sortMode)
	case "o":
		if m.sortDir == views.Asc {
			m.sortDir = views.Desc
		} else {
			m.sortDir = views.Asc
		}
	case "a":
		if m.tab == tabList {
			m.adding = true
			m.input = ""
		}
	case "e":
		if t, ok := current(visible, m.cursor); ok {
			m.editID = t.ID
			m.input = t.Title
		}
	case " ", "enter":
		if t, ok := current(visible, m.cursor); ok {
			return m, m.toggleCmd(t.ID)
		}
	case "p":
		if t, ok := current(visible, m.cursor); ok && !t.Completed {
			return m, m.cyclePriorityCmd(t)
		}
	case "d", "x":
		if t, ok := current(visible, m.cursor); ok {
			return m, m.deleteCmd(t.ID)
		}
	}
	return m, nil
}

func (m *model) updateCalendarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h":
		m.month = m.month.AddMonths(-1)
		m.day = m.month
	case "l":
		m.month = m.month.AddMonths(1)
		m.day = m.month
	case "t":
		today := dates.Today()
		m.month = dates.Date{Year: today.Year, Month: today.Month, Day: 1}
		m.day = today
	case "left":
		m.day = m.shiftDay(-1)
	case "right":
		m.day = m.shiftDay(1)
	case "up":
		m.day = m.shiftDay(-7)
	case "down":
		m.day = m.shiftDay(7)
	}
	return m, nil
}

func (m *model) updateTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.editID = ""
		m.input = ""
	case "enter":
		title := m.input
		id := m.editID
		m.adding = false
		m.editID = ""
		m.input = ""
		if id != "" {
			return m, m.renameCmd(id, title)
		}
		return m, m.addCmd(title)
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.input += string(msg.Runes)
		case tea.KeySpace:
			m.input += " "
		}
	}
	return m, nil
}

func (m *model) addCmd(title string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.ops.Add(m.ctx, title, "", "", dates.Date{})
		return opDoneMsg{err: err}
	}
}

func (m *model) renameCmd(id, title string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.ops.Update(m.ctx, id, service.TaskPatch{Title: &title})
		return opDoneMsg{err: err}
	}
}

func (m *model) toggleCmd(id string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.ops.ToggleComplete(m.ctx, id)
		return opDoneMsg{err: err}
	}
}

func (m *model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: m.ops.Delete(m.ctx, id)}
	}
}

// cyclePriorityCmd bumps the task's priority optimistically: the
// overlay shows the next value immediately and falls back to the
// confirmed one if the store rejects the change.
func (m *model) cyclePriorityCmd(t service.Task) tea.Cmd {
	next := nextPriority(m.displayPriority(t))
	id := t.ID
	return func() tea.Msg {
		err := m.ops.Optimistic(
			func() { m.overlay.set(id, next) },
			func() { m.overlay.clear(id) },
			func() error {
				_, err := m.ops.Update(m.ctx, id, service.TaskPatch{Priority: &next})
				return err
			},
		)
		if err == nil {
			// Confirmed: the cache row is authoritative now.
			m.overlay.clear(id)
		}
		return opDoneMsg{}
	}
}

func (m *model) displayPriority(t service.Task) service.Priority {
	if p, ok := m.overlay.get(t.ID); ok {
		return p
	}
	return t.Priority
}

func (m *model) setSnapshot(ts []service.Task) {
	m.snapshot = ts
	m.open = views.Incomplete(ts)
	m.done = views.Completed(ts)
}

func (m *model) visibleTasks() []service.Task {
	switch m.tab {
	case tabCompleted:
		return m.done
	default:
		return m.sorter.Sort(m.open, m.sortMode, m.sortDir)
	}
}

func (m *model) clampCursor() {
	if n := len(m.visibleTasks()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	} else if n == 0 {
		m.cursor = 0
	}
}

func (m *model) shiftDay(delta int) dates.Date {
	day := m.day.Day + delta
	if day < 1 {
		day = 1
	}
	if max := m.month.DaysInMonth(); day > max {
		day = max
	}
	return dates.Date{Year: m.month.Year, Month: m.month.Month, Day: day}
}

func current(ts []service.Task, cursor int) (service.Task, bool) {
	if cursor < 0 || cursor >= len(ts) {
		return service.Task{}, false
	}
	return ts[cursor], true
}

func nextSortMode(mode views.SortMode) views.SortMode {
	switch mode {
	case views.SortNone:
		return views.SortDate
	case views.SortDate:
		return views.SortPriority
	default:
		return views.SortNone
	}
}

func nextPriority(p service.Priority) service.Priority {
	switch p {
	case service.PriorityLow:
		return service.PriorityMedium
	case service.PriorityMedium:
		return service.PriorityHigh
	default:
		return service.PriorityLow
	}
}
