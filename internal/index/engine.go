// Package index implements the workspace symbol search: it walks Go
// sources, extracts declarations and identifier uses, and streams matches
// for a queried symbol into a presentation session while the walk is still
// running.
package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"symgrip/internal/config"
	"symgrip/internal/domain"
	"symgrip/internal/eventbus"
	"symgrip/internal/presenter"
)

// Engine finds definitions and usages of a symbol across the workspace
type Engine struct {
	bus   eventbus.EventBus
	host  presenter.Host
	cfg   *config.Config
	cache *parseCache

	mu          sync.Mutex
	isSearching bool
	cancelFunc  context.CancelFunc
	wg          sync.WaitGroup
}

// NewEngine creates a new search engine
func NewEngine(bus eventbus.EventBus, host presenter.Host, cfg *config.Config) *Engine {
	e := &Engine{
		bus:   bus,
		host:  host,
		cfg:   cfg,
		cache: newParseCache(512),
	}

	// Subscribe to search requests
	bus.Subscribe(eventbus.EventSearchRequested, func(ev eventbus.DomainEvent) {
		if event, ok := ev.(eventbus.SearchRequestedEvent); ok {
			go func() {
				if err := e.FindUsages(context.Background(), event.Query); err != nil {
					log.Printf("Search request for %q rejected: %v", event.Query, err)
					bus.Publish(eventbus.ErrorEvent{
						Message: fmt.Sprintf("Cannot search for %q: %v", event.Query, err),
						Err:     err,
					})
				}
			}()
		}
	})

	return e
}

// FindUsages opens a browser session on the host and streams every
// definition and reference of query into it in the background. Two
// cancellation channels are watched the whole time: the caller's context
// and the session context returned by the host - once the host cancels its
// side (view closed or session superseded), no further events are pushed.
func (e *Engine) FindUsages(ctx context.Context, query string) error {
	e.mu.Lock()
	if e.isSearching {
		e.mu.Unlock()
		return fmt.Errorf("search already in progress")
	}
	e.isSearching = true
	searchCtx, cancel := context.WithCancel(ctx)
	e.cancelFunc = cancel
	e.mu.Unlock()

	opts := presenter.FindUsagesOptions{
		SupportsReferences:                    true,
		IncludeKindColumn:                     e.cfg.UISettings.IncludeKindColumn,
		IncludeContainingTypeAndMemberColumns: e.cfg.UISettings.IncludeContainerColumns,
	}
	sink, hostCtx := e.host.StartSearch(domain.SearchTitle(query), opts)

	e.bus.Publish(eventbus.SearchStartedEvent{Query: query})

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			e.mu.Lock()
			e.isSearching = false
			e.cancelFunc = nil
			e.mu.Unlock()
		}()

		result, err := e.search(searchCtx, hostCtx, sink, query)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Search for %q failed: %v", query, err)
			e.bus.Publish(eventbus.ErrorEvent{
				Message: fmt.Sprintf("Search for %q failed", query),
				Err:     err,
			})
			return
		}

		e.bus.Publish(eventbus.SearchCompletedEvent{
			Query:       query,
			Definitions: result.Definitions,
			References:  result.References,
			Suggestion:  result.Suggestion,
		})
	}()

	return nil
}

// Collect runs a search to completion and returns the materialized
// definition items together with the search summary, for callers that
// decide navigation up front instead of browsing. No presentation session
// is involved.
func (e *Engine) Collect(ctx context.Context, query string) ([]*presenter.DefinitionItem, SearchSummary, error) {
	sink := &collectorSink{}
	sum, err := e.search(ctx, context.Background(), sink, query)
	if err != nil {
		return nil, sum, err
	}
	return sink.items, sum, nil
}

// Stop cancels any in-flight search and waits for it to wind down
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.cancelFunc != nil {
		e.cancelFunc()
	}
	e.mu.Unlock()

	e.wg.Wait()
}

// SearchSummary counts what one finished search found. Suggestion carries
// the closest known symbol name when it found nothing.
type SearchSummary struct {
	Definitions int
	References  int
	Suggestion  string
}

// defKey identifies a logical symbol so declaration sites across files
// fold into a single result item.
type defKey struct {
	pkg       string
	container string
	name      string
	kind      domain.SymbolKind
}

// search walks the workspace and pushes matches into sink. References are
// streamed as they are found; declaration sites fold per symbol and are
// emitted after the walk so sub-location order follows discovery order.
// The sink gets exactly one completion signal on every exit path.
func (e *Engine) search(ctx, hostCtx context.Context, sink presenter.ResultSink, query string) (res SearchSummary, err error) {
	defer func() {
		if cerr := sink.OnCompleted(ctx); err == nil {
			err = cerr
		}
	}()

	grouped := make(map[defKey]*presenter.DefinitionItem)
	var order []defKey
	names := make(map[string]struct{})

	walkErr := filepath.WalkDir(e.cfg.BaseDir, func(path string, d fs.DirEntry, werr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-hostCtx.Done():
			// Host abandoned the session; stop pushing events
			return hostCtx.Err()
		default:
		}

		if werr != nil {
			log.Printf("Error walking path %s: %v", path, werr)
			return nil // Continue walking
		}
		if d.IsDir() {
			if e.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".go") {
			return nil
		}

		symbols, perr := e.cache.load(path)
		if perr != nil {
			log.Printf("Skipping unparsable file %s: %v", path, perr)
			return nil
		}

		external := isExternalPath(path)
		for _, def := range symbols.Defs {
			names[def.Name] = struct{}{}
			if def.Name != query {
				continue
			}
			key := defKey{pkg: symbols.Package, container: def.Container, name: def.Name, kind: def.Kind}
			item, ok := grouped[key]
			if !ok {
				item = &presenter.DefinitionItem{
					Symbol: domain.Symbol{
						Name:      def.Name,
						Package:   symbols.Package,
						Container: def.Container,
						Kind:      def.Kind,
					},
					External: external,
				}
				grouped[key] = item
				order = append(order, key)
			}
			item.SubLocations = append(item.SubLocations, domain.Location{Path: path, Pos: def.Pos})
		}

		for _, use := range symbols.Idents {
			if use.Name != query {
				continue
			}
			ref := &presenter.ReferenceItem{
				Symbol:   domain.Symbol{Name: use.Name, Package: symbols.Package},
				Location: domain.Location{Path: path, Pos: use.Pos},
			}
			if serr := sink.OnReferenceFound(ctx, ref); serr != nil {
				return serr
			}
			res.References++
		}

		return nil
	})
	if walkErr != nil {
		return res, walkErr
	}

	for _, key := range order {
		select {
		case <-hostCtx.Done():
			return res, hostCtx.Err()
		default:
		}
		if serr := sink.OnDefinitionFound(ctx, grouped[key]); serr != nil {
			return res, serr
		}
		res.Definitions++
	}

	if res.Definitions == 0 && res.References == 0 {
		res.Suggestion = closestName(query, names)
	}
	return res, nil
}

// skipDir reports whether a directory should be excluded from the walk.
// vendor is deliberately walked: symbols defined there are reported as
// external items whose navigation belongs to the dependency, not to us.
func (e *Engine) skipDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." {
		return true
	}
	for _, excluded := range e.cfg.ExcludeDirs {
		if name == excluded {
			return true
		}
	}
	return false
}

// isExternalPath reports whether a file belongs to vendored dependencies.
func isExternalPath(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "vendor" {
			return true
		}
	}
	return false
}

// collectorSink materializes a finished result set in memory.
type collectorSink struct {
	items     []*presenter.DefinitionItem
	refs      []*presenter.ReferenceItem
	completed int
}

func (s *collectorSink) OnDefinitionFound(ctx context.Context, item *presenter.DefinitionItem) error {
	s.items = append(s.items, item)
	return nil
}

func (s *collectorSink) OnReferenceFound(ctx context.Context, item *presenter.ReferenceItem) error {
	s.refs = append(s.refs, item)
	return nil
}

func (s *collectorSink) OnCompleted(ctx context.Context) error {
	s.completed++
	return nil
}
