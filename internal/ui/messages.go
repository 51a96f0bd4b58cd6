package ui

import (
	"sync/atomic"
	"time"

	"symgrip/internal/eventbus"
	"symgrip/internal/presenter"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// tickMsg drives the spinner while a search is running
type tickMsg time.Time

// sessionStartedMsg announces a new result session opened on the host
type sessionStartedMsg struct {
	sessionID string
	title     string
	opts      presenter.FindUsagesOptions
}

// definitionFoundMsg carries one definition row into the session view
type definitionFoundMsg struct {
	sessionID string
	item      *presenter.DefinitionItem
}

// referenceFoundMsg carries one reference row into the session view
type referenceFoundMsg struct {
	sessionID string
	item      *presenter.ReferenceItem
}

// searchCompletedMsg marks the session's result stream as finished
type searchCompletedMsg struct {
	sessionID string
}

// clearResultsMsg empties the displayed result rows. The session itself
// stays alive; results still streaming in will show up again.
type clearResultsMsg struct{}

// uiFuncMsg asks the update loop to run fn. Exactly one side runs or
// skips it: whoever wins the claim decides, and done is always closed.
type uiFuncMsg struct {
	fn      func()
	claimed *atomic.Bool
	done    chan struct{}
}

// editorFinishedMsg reports the external editor exiting
type editorFinishedMsg struct {
	err error
}

// pagerFinishedMsg reports the preview pager exiting
type pagerFinishedMsg struct {
	err error
}

// clearStatusMsg clears a transient status message
type clearStatusMsg struct{}
