package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aygame101/cardboard/internal/checklist"
	"github.com/aygame101/cardboard/internal/prefs"
	"github.com/aygame101/cardboard/internal/state"
	"github.com/aygame101/cardboard/internal/trello"
)

// Backend is what the editor needs from the application.
type Backend interface {
	Load(ctx context.Context, cardID string) ([]trello.Checklist, error)
	Save(ctx context.Context, persisted trello.Checklist, cardID, name string, items []string) (checklist.SaveOutcome, error)
	Delete(ctx context.Context, checklistID string) error
	Toggle(ctx context.Context, checklistID, itemID string, current trello.State) (trello.State, error)
}

// View represents the current active view.
type View int

const (
	ViewChecklists View = iota
	ViewEditor
)

// inputTarget is what the text input is currently editing.
type inputTarget int

const (
	inputNone inputTarget = iota
	inputName
	inputItem
	inputNewItem
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Backend   Backend
	CardID    string
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	backend   Backend
	cardID    string
	prefsPath string
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	checklists []trello.Checklist
	loading    bool
	selected   int

	// Editor state
	buffer *state.EditBuffer
	cursor int // 0 = name row, 1.. = items
	saving bool

	// Text input
	input       textinput.Model
	inputTarget inputTarget

	// Feedback
	status string
	errors []string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 512

	return Model{
		ctx:         ctx,
		backend:     opts.Backend,
		cardID:      opts.CardID,
		prefsPath:   opts.PrefsPath,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.ThemeName),
		currentView: ViewChecklists,
		input:       ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.backend == nil {
		return nil
	}
	return loadCmd(m.ctx, m.backend, m.cardID)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-8, 10)
		m.ready = true
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errors = []string{"could not load checklists: " + msg.err.Error()}
			return m, nil
		}
		m.errors = nil
		m.checklists = msg.checklists
		m.selected = clamp(m.selected, 0, len(m.checklists)-1)
		return m, nil

	case savedMsg:
		return m.handleSaved(msg), nil

	case deletedMsg:
		return m.handleDeleted(msg), nil

	case toggledMsg:
		return m.handleToggled(msg), nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.inputTarget != inputNone {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			name := m.theme.Name
			if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Theme = name }); err != nil {
				m.errors = []string{"could not save theme: " + err.Error()}
			}
		}
		return m, nil
	}

	switch m.currentView {
	case ViewChecklists:
		return m.handleListKey(msg)
	case ViewEditor:
		return m.handleEditorKey(msg)
	}
	return m, nil
}

// handleListKey processes keys for the checklist list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.selected = clamp(m.selected-1, 0, len(m.checklists)-1)
	case key.Matches(msg, m.keys.Down):
		m.selected = clamp(m.selected+1, 0, len(m.checklists)-1)
	case key.Matches(msg, m.keys.Open):
		if cl, ok := m.selectedChecklist(); ok {
			m.openEditor(state.NewEditBuffer(cl))
		}
	case key.Matches(msg, m.keys.New):
		m.openEditor(state.NewDraft(m.cardID))
		return m.startInput(inputName, "")
	case key.Matches(msg, m.keys.Reload):
		if m.backend != nil {
			m.loading = true
			return m, loadCmd(m.ctx, m.backend, m.cardID)
		}
	case key.Matches(msg, m.keys.Delete):
		if cl, ok := m.selectedChecklist(); ok {
			return m, deleteCmd(m.ctx, m.backend, cl.ID)
		}
	}
	return m, nil
}

// handleEditorKey processes keys for the checklist editor.
func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	buf := m.buffer
	switch {
	case key.Matches(msg, m.keys.Back):
		m.buffer = nil
		m.currentView = ViewChecklists
		m.errors = nil

	case key.Matches(msg, m.keys.Up):
		m.cursor = clamp(m.cursor-1, 0, len(buf.Items))
	case key.Matches(msg, m.keys.Down):
		m.cursor = clamp(m.cursor+1, 0, len(buf.Items))

	case key.Matches(msg, m.keys.Edit):
		if m.cursor == 0 {
			return m.startInput(inputName, buf.Name)
		}
		return m.startInput(inputItem, buf.Items[m.cursor-1])

	case key.Matches(msg, m.keys.Add):
		return m.startInput(inputNewItem, "")

	case key.Matches(msg, m.keys.Remove):
		if m.cursor > 0 {
			buf.RemoveItem(m.cursor - 1)
			m.cursor = clamp(m.cursor, 0, len(buf.Items))
		}

	case key.Matches(msg, m.keys.MoveUp):
		if m.cursor > 0 {
			m.cursor = buf.Move(m.cursor-1, -1) + 1
		}
	case key.Matches(msg, m.keys.MoveDown):
		if m.cursor > 0 {
			m.cursor = buf.Move(m.cursor-1, 1) + 1
		}

	case key.Matches(msg, m.keys.Toggle):
		return m.toggleSelected()

	case key.Matches(msg, m.keys.Save):
		// Disabled until the save completes.
		m.saving = true
		m.keys.Save.SetEnabled(false)
		m.status = "Saving..."
		m.errors = nil
		return m, saveCmd(m.ctx, m.backend, buf)

	case key.Matches(msg, m.keys.Delete):
		if buf.IsPlaceholder() {
			m.buffer = nil
			m.currentView = ViewChecklists
			return m, nil
		}
		return m, deleteCmd(m.ctx, m.backend, buf.ID())
	}
	return m, nil
}

// handleInputKey routes keys to the text input until it is confirmed or
// cancelled.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopInput()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.input.Value())
		switch m.inputTarget {
		case inputName:
			m.buffer.SetName(value)
		case inputItem:
			if value == "" {
				m.buffer.RemoveItem(m.cursor - 1)
				m.cursor = clamp(m.cursor, 0, len(m.buffer.Items))
			} else {
				m.buffer.SetItem(m.cursor-1, value)
			}
		case inputNewItem:
			if value != "" {
				m.cursor = m.buffer.AddItem(value) + 1
			}
		}
		m.stopInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) startInput(target inputTarget, value string) (tea.Model, tea.Cmd) {
	m.inputTarget = target
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m *Model) stopInput() {
	m.inputTarget = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) openEditor(buf *state.EditBuffer) {
	m.buffer = buf
	m.cursor = 0
	m.currentView = ViewEditor
	m.status = ""
	m.errors = nil
}

// toggleSelected flips the completion of the item under the cursor. Only
// items that already exist remotely can be toggled.
func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	buf := m.buffer
	if m.cursor == 0 || buf.IsPlaceholder() {
		return m, nil
	}
	row := m.cursor - 1
	itemID, ok := buf.RowID(row)
	if !ok {
		m.status = "Save before toggling new items"
		return m, nil
	}
	return m, toggleCmd(m.ctx, m.backend, buf.ID(), itemID, buf.RowState(row))
}

func (m Model) handleSaved(msg savedMsg) Model {
	m.saving = false
	m.keys.Save.SetEnabled(true)
	if errors.Is(msg.err, state.ErrSaveInProgress) {
		m.status = ""
		m.errors = []string{"save already in progress"}
		return m
	}

	m.errors = msg.outcome.Messages()
	editing := m.buffer != nil && m.buffer.ID() == msg.replacedID
	switch {
	case msg.outcome.Refreshed:
		m.replaceChecklist(msg.replacedID, msg.outcome.Canonical)
		if editing {
			m.buffer.Reset(msg.outcome.Canonical)
			m.cursor = clamp(m.cursor, 0, len(m.buffer.Items))
		}
	case msg.outcome.Created:
		// Created but not re-fetched: adopt the real id so the next save
		// reconciles instead of creating again.
		m.replaceChecklist(msg.replacedID, trello.Checklist{
			ID:     msg.outcome.ChecklistID,
			Name:   msg.name,
			CardID: m.cardID,
		})
		if editing {
			m.buffer.MarkCreated(msg.outcome.ChecklistID)
		}
	}
	switch {
	case msg.outcome.Success() && msg.outcome.Refreshed:
		m.status = "Saved"
	case msg.outcome.Success():
		m.status = "Saved (refresh failed)"
	default:
		m.status = ""
	}
	return m
}

func (m Model) handleDeleted(msg deletedMsg) Model {
	if msg.err != nil {
		m.errors = []string{checklist.MsgDeleteFailed}
		return m
	}
	for i, cl := range m.checklists {
		if cl.ID == msg.id {
			m.checklists = append(m.checklists[:i:i], m.checklists[i+1:]...)
			break
		}
	}
	m.selected = clamp(m.selected, 0, len(m.checklists)-1)
	if m.buffer != nil && m.buffer.ID() == msg.id {
		m.buffer = nil
		m.currentView = ViewChecklists
	}
	m.errors = nil
	m.status = "Deleted"
	return m
}

func (m Model) handleToggled(msg toggledMsg) Model {
	if msg.err != nil {
		m.errors = []string{"could not update item"}
		return m
	}
	for i := range m.checklists {
		if m.checklists[i].ID != msg.checklistID {
			continue
		}
		for j := range m.checklists[i].Items {
			if m.checklists[i].Items[j].ID == msg.itemID {
				m.checklists[i].Items[j].State = msg.state
			}
		}
	}
	if m.buffer != nil && m.buffer.ID() == msg.checklistID {
		m.buffer.SetState(msg.itemID, msg.state)
	}
	return m
}

func (m *Model) replaceChecklist(replacedID string, canonical trello.Checklist) {
	for i, cl := range m.checklists {
		if cl.ID == replacedID || cl.ID == canonical.ID {
			m.checklists[i] = canonical
			return
		}
	}
	m.checklists = append(m.checklists, canonical)
}

func (m Model) selectedChecklist() (trello.Checklist, bool) {
	if m.selected < 0 || m.selected >= len(m.checklists) {
		return trello.Checklist{}, false
	}
	return m.checklists[m.selected], true
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

// Messages

type loadedMsg struct {
	checklists []trello.Checklist
	err        error
}

type savedMsg struct {
	replacedID string
	name       string
	outcome    checklist.SaveOutcome
	err        error
}

type deletedMsg struct {
	id  string
	err error
}

type toggledMsg struct {
	checklistID string
	itemID      string
	state       trello.State
	err         error
}

// Commands

func loadCmd(ctx context.Context, backend Backend, cardID string) tea.Cmd {
	return func() tea.Msg {
		lists, err := backend.Load(ctx, cardID)
		return loadedMsg{checklists: lists, err: err}
	}
}

// saveCmd snapshots the buffer before returning so later edits do not race
// with the save.
func saveCmd(ctx context.Context, backend Backend, buf *state.EditBuffer) tea.Cmd {
	persisted := buf.Persisted.Clone()
	cardID, name, items := buf.CardID, buf.Name, buf.Names()
	return func() tea.Msg {
		out, err := backend.Save(ctx, persisted, cardID, name, items)
		return savedMsg{replacedID: persisted.ID, name: name, outcome: out, err: err}
	}
}

func deleteCmd(ctx context.Context, backend Backend, checklistID string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: checklistID, err: backend.Delete(ctx, checklistID)}
	}
}

func toggleCmd(ctx context.Context, backend Backend, checklistID, itemID string, current trello.State) tea.Cmd {
	return func() tea.Msg {
		next, err := backend.Toggle(ctx, checklistID, itemID, current)
		return toggledMsg{checklistID: checklistID, itemID: itemID, state: next, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
