// Package presenter implements the search-result presentation protocol:
// it decides whether a finished set of symbol results warrants a direct
// jump or a hand-off to the interactive usage browser, and it defines the
// contracts (sink, host, dispatcher) through which search producers and
// the UI cooperate.
package presenter

import (
	"context"

	"symgrip/internal/domain"
)

// DefinitionItem is one logical search result: a symbol together with its
// physical declaration sites. SubLocations keeps insertion order; that
// order is preserved when items are replayed into a browser session.
// External marks items whose navigation is owned by a third party (e.g.
// a dependency outside the workspace); such items never contribute to the
// aggregate decision and win immediately when they resolve.
// Items are immutable once produced.
type DefinitionItem struct {
	Symbol       domain.Symbol
	SubLocations []domain.Location
	External     bool
}

// ReferenceItem is a single usage of a symbol, streamed alongside the
// definitions while a search is running.
type ReferenceItem struct {
	Symbol   domain.Symbol
	Location domain.Location
}

// NavigableLocation is a resolved target that can perform its own
// navigation. Navigate reports true when the view moved and false when the
// target declined (e.g. the document disappeared); it returns an error
// only on cancellation or a hard failure.
type NavigableLocation interface {
	Document() string
	Position() domain.Position
	Navigate(ctx context.Context, opts NavigationOptions) (bool, error)
}

// NavigationOptions describes how navigation should present the target.
// The presenter passes it through unchanged.
type NavigationOptions struct {
	PreferTransientView bool
	BringToFocus        bool
}

// FindUsagesOptions configures a browser session started via the host.
type FindUsagesOptions struct {
	// SupportsReferences controls whether the session groups references
	// under their definitions and reports "no results" messages.
	SupportsReferences bool
	// IncludeContainingTypeAndMemberColumns toggles the container columns.
	IncludeContainingTypeAndMemberColumns bool
	// IncludeKindColumn toggles the symbol kind column.
	IncludeKindColumn bool
}

// DefaultOptions is the shared options value used by the hand-off path.
var DefaultOptions = FindUsagesOptions{}

// ResultSink receives incremental search events for one session. Each call
// must complete before the next one is made so the session observes results
// in production order. OnCompleted is called exactly once per session,
// including on error paths.
type ResultSink interface {
	OnDefinitionFound(ctx context.Context, item *DefinitionItem) error
	OnReferenceFound(ctx context.Context, item *ReferenceItem) error
	OnCompleted(ctx context.Context) error
}

// Host is the presentation surface that owns browser sessions. StartSearch
// returns a fresh sink the caller must drive to completion, plus a context
// the host cancels on its own authority (view closed, session superseded).
// That context is distinct from any caller context: producers that stream
// results over time must watch it, while callers replaying an already
// complete result set may deliberately ignore it. At most one session is
// current per host; starting a new one cancels the previous session's
// context. ClearAll resets displayed result state only - it does not cancel
// an in-flight search.
type Host interface {
	StartSearch(title string, opts FindUsagesOptions) (ResultSink, context.Context)
	ClearAll()
}

// LocationResolver resolves a result item to its navigable location.
// A nil location with a nil error means the item is not navigable and is
// silently dropped; errors are reserved for cancellation and IO failures.
type LocationResolver interface {
	ResolveLocation(ctx context.Context, item *DefinitionItem) (NavigableLocation, error)
}

// Dispatcher schedules work onto the UI goroutine. All presentation and
// navigation side effects must run there; RunOnUI is the scheduling point
// that transfers execution. It blocks until fn has run or ctx is done.
type Dispatcher interface {
	RunOnUI(ctx context.Context, fn func()) error
}
