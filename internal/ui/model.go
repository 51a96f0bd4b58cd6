package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"symgrip/internal/config"
	"symgrip/internal/domain"
	"symgrip/internal/eventbus"
	"symgrip/internal/presenter"
	"symgrip/internal/ui/views"
)

// sessionView is the UI-side state of the active result session
type sessionView struct {
	id         string
	title      string
	opts       presenter.FindUsagesOptions
	defs       []*presenter.DefinitionItem
	refs       []*presenter.ReferenceItem
	searching  bool
	completed  bool
	suggestion string
}

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	host   *SessionHost
	opener *ExternalOpener

	width  int
	height int

	selectedIndex  int
	viewportOffset int
	viewportHeight int

	queryActive bool
	queryInput  textinput.Model

	session *sessionView
	rows    []views.Row

	statusMessage string
	statusIsError bool

	renderer *views.Renderer

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, host *SessionHost, opener *ExternalOpener) *Model {
	ti := textinput.New()
	ti.Placeholder = "symbol name"
	ti.Prompt = "/"
	ti.CharLimit = 128

	return &Model{
		bus:        bus,
		config:     cfg,
		host:       host,
		opener:     opener,
		queryInput: ti,
		renderer:   views.NewRenderer(),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	if m.host != nil {
		m.host.SetProgram(p)
	}
	if m.opener != nil {
		m.opener.SetProgram(p)
	}
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	m.viewportHeight = 20 // Will be updated on first WindowSizeMsg
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewportHeight()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m, tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case uiFuncMsg:
		// Run the dispatched function unless the caller already gave up
		if msg.claimed.CompareAndSwap(false, true) {
			msg.fn()
		}
		close(msg.done)

	case sessionStartedMsg:
		m.session = &sessionView{
			id:        msg.sessionID,
			title:     msg.title,
			opts:      msg.opts,
			searching: true,
		}
		m.rows = nil
		m.selectedIndex = 0
		m.viewportOffset = 0

	case definitionFoundMsg:
		if m.session == nil || m.session.id != msg.sessionID {
			log.Printf("Dropping definition row for stale session %s", msg.sessionID)
			return m, nil
		}
		m.session.defs = append(m.session.defs, msg.item)
		m.rebuildRows()

	case referenceFoundMsg:
		if m.session == nil || m.session.id != msg.sessionID {
			log.Printf("Dropping reference row for stale session %s", msg.sessionID)
			return m, nil
		}
		m.session.refs = append(m.session.refs, msg.item)
		m.rebuildRows()

	case searchCompletedMsg:
		if m.session != nil && m.session.id == msg.sessionID {
			m.session.completed = true
			m.session.searching = false
		}

	case clearResultsMsg:
		if m.session != nil {
			m.session.defs = nil
			m.session.refs = nil
		}
		m.rows = nil
		m.selectedIndex = 0
		m.viewportOffset = 0

	case editorFinishedMsg:
		if msg.err != nil {
			return m, m.setTransientStatus(fmt.Sprintf("Editor failed: %v", msg.err), true)
		}

	case pagerFinishedMsg:
		if msg.err != nil {
			return m, m.setTransientStatus(fmt.Sprintf("Pager failed: %v", msg.err), true)
		}

	case clearStatusMsg:
		m.statusMessage = ""
		m.statusIsError = false

	case EventMsg:
		return m.handleEvent(msg.Event)
	}

	return m, nil
}

// handleEvent processes domain events forwarded from the bus
func (m *Model) handleEvent(event eventbus.DomainEvent) (tea.Model, tea.Cmd) {
	switch e := event.(type) {
	case eventbus.SearchStartedEvent:
		m.statusMessage = fmt.Sprintf("Searching for %q", e.Query)
		m.statusIsError = false

	case eventbus.SearchCompletedEvent:
		if m.session != nil {
			if m.session.title != domain.SearchTitle(e.Query) {
				// Completion of a superseded search; the counts belong to
				// a session that is no longer shown
				return m, nil
			}
			m.session.suggestion = e.Suggestion
		}
		return m, m.setTransientStatus(
			fmt.Sprintf("%d definitions, %d references", e.Definitions, e.References), false)

	case eventbus.NavigatedEvent:
		if e.Moved {
			return m, m.setTransientStatus(
				fmt.Sprintf("Opened %s:%d", e.Location.Path, e.Location.Pos.Line), false)
		}
		return m, m.setTransientStatus("Target no longer exists", true)

	case eventbus.ErrorEvent:
		log.Printf("UI received error event: %s: %v", e.Message, e.Err)
		return m, m.setTransientStatus(e.Message, true)
	}

	return m, nil
}

// handleKey processes keyboard input
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.queryActive {
		switch msg.String() {
		case "esc":
			m.queryActive = false
			m.queryInput.Blur()
			return m, nil
		case "enter":
			query := strings.TrimSpace(m.queryInput.Value())
			m.queryActive = false
			m.queryInput.Blur()
			if query != "" && m.bus != nil {
				m.bus.Publish(eventbus.SearchRequestedEvent{Query: query})
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.queryInput, cmd = m.queryInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.queryActive = true
		m.queryInput.Reset()
		return m, m.queryInput.Focus()

	case "up", "k":
		m.moveSelection(-1)
	case "down", "j":
		m.moveSelection(1)
	case "home", "g":
		m.selectedIndex = 0
		m.settleSelection(1)
		m.ensureSelectedVisible()
	case "end", "G":
		m.selectedIndex = len(m.rows) - 1
		m.settleSelection(-1)
		m.ensureSelectedVisible()
	case "pgup", "ctrl+u":
		m.pageMove(-1)
	case "pgdown", "ctrl+d":
		m.pageMove(1)

	case "enter":
		return m, m.openSelected(false)
	case "e":
		return m, m.openSelected(true)

	case "x":
		if m.host != nil {
			m.host.ClearAll()
		}

	case "esc":
		if m.session != nil && m.host != nil {
			m.host.CloseSession(m.session.id)
		}
		m.session = nil
		m.rows = nil
		m.selectedIndex = 0
		m.viewportOffset = 0
	}

	return m, nil
}

// openSelected navigates to the current row, in the editor when forced and
// in the transient preview otherwise.
func (m *Model) openSelected(inEditor bool) tea.Cmd {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.rows) {
		return nil
	}
	row := m.rows[m.selectedIndex]
	if !row.Navigable() {
		return nil
	}

	loc := row.Loc
	opts := presenter.NavigationOptions{
		PreferTransientView: !inEditor,
		BringToFocus:        inEditor,
	}

	return func() tea.Msg {
		moved, err := m.opener.Open(context.Background(), loc, opts)
		if err == nil && m.bus != nil {
			m.bus.Publish(eventbus.NavigatedEvent{Location: loc, Moved: moved})
		}
		if inEditor {
			return editorFinishedMsg{err: err}
		}
		return pagerFinishedMsg{err: err}
	}
}

// rebuildRows reflattens the session into display rows, keeping the cursor
// in bounds as results stream in.
func (m *Model) rebuildRows() {
	if m.session == nil {
		m.rows = nil
		return
	}
	m.rows = views.BuildRows(m.session.defs, m.session.refs, m.session.opts)
	if m.selectedIndex >= len(m.rows) {
		m.selectedIndex = len(m.rows) - 1
	}
	if m.selectedIndex < 0 {
		m.selectedIndex = 0
	}
}

// moveSelection moves the cursor by delta, skipping rows that cannot be
// navigated to (file headers).
func (m *Model) moveSelection(delta int) {
	if len(m.rows) == 0 {
		return
	}
	next := m.selectedIndex + delta
	for next >= 0 && next < len(m.rows) && !m.rows[next].Navigable() {
		next += delta
	}
	if next >= 0 && next < len(m.rows) {
		m.selectedIndex = next
	}
	m.ensureSelectedVisible()
}

// settleSelection nudges the cursor in the given direction until it rests
// on a navigable row.
func (m *Model) settleSelection(direction int) {
	for m.selectedIndex >= 0 && m.selectedIndex < len(m.rows) && !m.rows[m.selectedIndex].Navigable() {
		m.selectedIndex += direction
	}
	if m.selectedIndex < 0 {
		m.selectedIndex = 0
	}
	if m.selectedIndex >= len(m.rows) {
		m.selectedIndex = len(m.rows) - 1
	}
}

func (m *Model) pageMove(direction int) {
	if len(m.rows) == 0 {
		return
	}
	m.selectedIndex += direction * m.viewportHeight
	if m.selectedIndex < 0 {
		m.selectedIndex = 0
	}
	if m.selectedIndex >= len(m.rows) {
		m.selectedIndex = len(m.rows) - 1
	}
	m.settleSelection(direction)
	m.ensureSelectedVisible()
}

// updateViewportHeight calculates the available height for the result list
func (m *Model) updateViewportHeight() {
	// Account for title, query line, status, help and padding
	reservedLines := 6
	m.viewportHeight = m.height - reservedLines
	if m.viewportHeight < 1 {
		m.viewportHeight = 1
	}
	m.ensureSelectedVisible()
}

// ensureSelectedVisible keeps the cursor inside the viewport
func (m *Model) ensureSelectedVisible() {
	if m.selectedIndex < m.viewportOffset {
		m.viewportOffset = m.selectedIndex
	}
	if m.selectedIndex >= m.viewportOffset+m.viewportHeight {
		m.viewportOffset = m.selectedIndex - m.viewportHeight + 1
	}
	if m.viewportOffset < 0 {
		m.viewportOffset = 0
	}
}

// setTransientStatus shows a status message that clears itself
func (m *Model) setTransientStatus(message string, isError bool) tea.Cmd {
	m.statusMessage = message
	m.statusIsError = isError
	return tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	state := views.ViewState{
		Width:          m.width,
		Height:         m.height,
		HasSession:     m.session != nil,
		Rows:           m.rows,
		SelectedIndex:  m.selectedIndex,
		ViewportOffset: m.viewportOffset,
		ViewportHeight: m.viewportHeight,
		StatusMessage:  m.statusMessage,
		StatusIsError:  m.statusIsError,
		QueryActive:    m.queryActive,
		QueryView:      m.queryInput.View(),
	}
	if m.session != nil {
		state.Title = m.session.title
		state.Searching = m.session.searching
		state.Opts = m.session.opts
		state.Completed = m.session.completed
		state.Suggestion = m.session.suggestion
	}
	return m.renderer.Render(state)
}
