package presenter

import (
	"context"
	"log"
)

// Resolver decides how a finished, materialized set of result items is
// presented: jump directly to a single unambiguous target, or hand off to
// the usage browser.
type Resolver struct {
	locations LocationResolver
	host      Host
	ui        Dispatcher
}

// NewResolver creates a new navigation resolver
func NewResolver(locations LocationResolver, host Host, ui Dispatcher) *Resolver {
	return &Resolver{
		locations: locations,
		host:      host,
		ui:        ui,
	}
}

// resolvedItem is an item that survived location resolution.
type resolvedItem struct {
	item     *DefinitionItem
	location NavigableLocation
}

// Navigation is the outcome of Resolve: either a ready location (direct
// jump) or a deferred hand-off to the browser.
type Navigation struct {
	location NavigableLocation
	handoff  func(ctx context.Context, opts NavigationOptions) (bool, error)
}

// Direct returns the ready location, or nil when the navigation is a
// deferred hand-off.
func (n *Navigation) Direct() NavigableLocation {
	return n.location
}

// Navigate performs the navigation. For a direct target it navigates the
// location; for a hand-off it opens a browser session on the UI goroutine
// and replays the retained items into it.
func (n *Navigation) Navigate(ctx context.Context, opts NavigationOptions) (bool, error) {
	if n.location != nil {
		return n.location.Navigate(ctx, opts)
	}
	return n.handoff(ctx, opts)
}

// Resolve inspects items in order and returns the navigation to perform,
// or nil when nothing is navigable. No session is started here; a hand-off
// only opens one when its Navigate is invoked.
//
// Items that fail to resolve contribute nothing. The first external item
// that resolves wins outright: a third party already owns navigation for
// it, so every other item - processed or not - is discarded.
func (r *Resolver) Resolve(ctx context.Context, title string, items []*DefinitionItem) (*Navigation, error) {
	if len(items) == 0 {
		return nil, nil
	}

	var kept []resolvedItem
	for _, item := range items {
		loc, err := r.locations.ResolveLocation(ctx, item)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			// Not navigable, silently dropped
			continue
		}
		if item.External {
			return &Navigation{location: loc}, nil
		}
		kept = append(kept, resolvedItem{item: item, location: loc})
	}

	if len(kept) == 0 {
		return nil, nil
	}

	// A single item with at most one declaration site is unambiguous:
	// go straight there without opening a session.
	if len(kept) == 1 && len(kept[0].item.SubLocations) <= 1 {
		return &Navigation{location: kept[0].location}, nil
	}

	remaining := make([]*DefinitionItem, len(kept))
	for i, ri := range kept {
		remaining[i] = ri.item
	}
	return &Navigation{
		handoff: func(ctx context.Context, _ NavigationOptions) (bool, error) {
			return r.present(ctx, title, remaining)
		},
	}, nil
}

// NavigateTo composes Resolve with an immediate navigation. It reports
// false when nothing was navigable; the caller decides how to surface that.
func (r *Resolver) NavigateTo(ctx context.Context, title string, items []*DefinitionItem) (bool, error) {
	nav, err := r.Resolve(ctx, title, items)
	if err != nil || nav == nil {
		return false, err
	}
	return nav.Navigate(ctx, NavigationOptions{
		PreferTransientView: true,
		BringToFocus:        true,
	})
}

// present opens a fresh browser session and replays items into it. The
// whole hand-off runs on the UI goroutine; the dispatcher call is the
// mandatory scheduling point before any session or view state is touched.
func (r *Resolver) present(ctx context.Context, title string, items []*DefinitionItem) (bool, error) {
	var replayErr error
	err := r.ui.RunOnUI(ctx, func() {
		// The host cancellation context is deliberately dropped here:
		// the result set is already complete, so there is no
		// asynchronous production left for the host to abort.
		sink, _ := r.host.StartSearch(title, DefaultOptions)
		replayErr = replay(ctx, sink, items)
	})
	if err != nil {
		return false, err
	}
	if replayErr != nil {
		return false, replayErr
	}

	log.Printf("Presenter: handed off %d results to usage browser", len(items))
	return true, nil
}

// replay pushes items into the sink in their original order, awaiting each
// push before the next. The sink receives exactly one completion signal on
// every exit path, including cancellation and failures part-way through.
func replay(ctx context.Context, sink ResultSink, items []*DefinitionItem) (err error) {
	defer func() {
		if cerr := sink.OnCompleted(ctx); err == nil {
			err = cerr
		}
	}()

	for _, item := range items {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = sink.OnDefinitionFound(ctx, item); err != nil {
			return err
		}
	}
	return nil
}
