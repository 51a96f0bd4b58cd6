package ui

import (
	"context"
	"log"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"symgrip/internal/presenter"
)

// sender is the slice of *tea.Program the host needs
type sender interface {
	Send(tea.Msg)
}

// resultBufferSize bounds the messages queued between a producing sink and
// the update loop.
const resultBufferSize = 512

// SessionHost owns the single result session the UI shows. Starting a new
// search supersedes the previous session: its context is cancelled so the
// producer stops pushing, and rows still in flight are dropped by the
// update loop because they carry the stale session ID.
//
// Messages reach the program through a buffered channel drained by a
// dedicated goroutine. A sink may be fed from inside the update loop
// itself (the hand-off path runs there), and Program.Send blocks until
// the loop is free to receive, so enqueueing here must never wait on it.
type SessionHost struct {
	mu      sync.Mutex
	out     chan tea.Msg
	started bool
	current *session
}

// NewSessionHost creates a host with no active session
func NewSessionHost() *SessionHost {
	return &SessionHost{out: make(chan tea.Msg, resultBufferSize)}
}

// SetProgram starts delivering queued session messages to the program
func (h *SessionHost) SetProgram(p sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.started || p == nil {
		return
	}
	h.started = true
	go func() {
		for msg := range h.out {
			p.Send(msg)
		}
	}()
}

// StartSearch opens a new session and returns its sink together with the
// context that is cancelled when the session is abandoned.
func (h *SessionHost) StartSearch(title string, opts presenter.FindUsagesOptions) (presenter.ResultSink, context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != nil {
		log.Printf("Superseding result session %s", h.current.id)
		h.current.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
		host:   h,
	}
	h.current = s

	h.send(sessionStartedMsg{sessionID: s.id, title: title, opts: opts})
	return s, ctx
}

// ClearAll empties the displayed result state. It resets only the
// presentation buffer; an in-flight session keeps its sink and context.
func (h *SessionHost) ClearAll() {
	h.send(clearResultsMsg{})
}

// CloseSession cancels the session with the given ID if it is still the
// active one. Called when the user dismisses the result view.
func (h *SessionHost) CloseSession(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != nil && h.current.id == id {
		h.current.cancel()
		h.current = nil
	}
}

func (h *SessionHost) send(msg tea.Msg) {
	select {
	case h.out <- msg:
	default:
		log.Printf("Result buffer full, dropping %T", msg)
	}
}

// session is one result stream. It implements the sink side and forwards
// every row to the update loop tagged with its session ID.
type session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	host   *SessionHost
}

func (s *session) OnDefinitionFound(ctx context.Context, item *presenter.DefinitionItem) error {
	if err := s.alive(ctx); err != nil {
		return err
	}
	s.host.send(definitionFoundMsg{sessionID: s.id, item: item})
	return nil
}

func (s *session) OnReferenceFound(ctx context.Context, item *presenter.ReferenceItem) error {
	if err := s.alive(ctx); err != nil {
		return err
	}
	s.host.send(referenceFoundMsg{sessionID: s.id, item: item})
	return nil
}

func (s *session) OnCompleted(ctx context.Context) error {
	if err := s.alive(ctx); err != nil {
		return err
	}
	s.host.send(searchCompletedMsg{sessionID: s.id})
	return nil
}

// alive reports the first cancellation seen on either side
func (s *session) alive(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.ctx.Err()
}
