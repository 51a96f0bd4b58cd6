package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchRequested EventType = "SearchRequested"
	EventSearchStarted   EventType = "SearchStarted"
	EventSearchCompleted EventType = "SearchCompleted"
	EventNavigated       EventType = "Navigated"
	EventError           EventType = "Error"
	EventConfigLoaded    EventType = "ConfigLoaded"
	EventConfigSaved     EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchRequestedEvent is emitted to request a new symbol search
type SearchRequestedEvent struct {
	Query string
}

func (e SearchRequestedEvent) Type() EventType { return EventSearchRequested }

// SearchStartedEvent is emitted when a symbol search begins
type SearchStartedEvent struct {
	Query string
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchCompletedEvent is emitted when a symbol search finishes. Suggestion
// carries the closest known symbol name when the search found nothing.
type SearchCompletedEvent struct {
	Query       string
	Definitions int
	References  int
	Suggestion  string
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// NavigatedEvent is emitted after a navigation attempt. Moved is false when
// the target declined navigation (e.g. the document no longer exists).
type NavigatedEvent struct {
	Location Location
	Moved    bool
}

func (e NavigatedEvent) Type() EventType { return EventNavigated }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	BaseDir string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
