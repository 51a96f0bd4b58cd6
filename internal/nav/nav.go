// Package nav resolves search result items to navigable file locations and
// carries out the actual navigation through a pluggable opener.
package nav

import (
	"context"
	"os"

	"symgrip/internal/domain"
	"symgrip/internal/presenter"
)

// Opener performs the physical act of showing a document position to the
// user, e.g. in $EDITOR or an embedded pager. It reports false when it
// declined to open the target.
type Opener interface {
	Open(ctx context.Context, loc domain.Location, opts presenter.NavigationOptions) (bool, error)
}

// Resolver resolves definition items against the filesystem
type Resolver struct {
	opener Opener
}

// NewResolver creates a new location resolver
func NewResolver(opener Opener) *Resolver {
	return &Resolver{opener: opener}
}

// ResolveLocation returns a navigable location for the item's primary
// declaration site, or nil when the item has nothing to navigate to
// (no declaration sites, or the document no longer exists).
func (r *Resolver) ResolveLocation(ctx context.Context, item *presenter.DefinitionItem) (presenter.NavigableLocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(item.SubLocations) == 0 {
		return nil, nil
	}

	primary := item.SubLocations[0]
	if _, err := os.Stat(primary.Path); err != nil {
		// Document gone since the search ran; not navigable
		return nil, nil
	}
	return &fileLocation{loc: primary, opener: r.opener}, nil
}

// fileLocation is a resolved position in a workspace file.
type fileLocation struct {
	loc    domain.Location
	opener Opener
}

func (l *fileLocation) Document() string {
	return l.loc.Path
}

func (l *fileLocation) Position() domain.Position {
	return l.loc.Pos
}

// Navigate opens the location. It declines (false, nil) when the document
// disappeared between resolution and navigation.
func (l *fileLocation) Navigate(ctx context.Context, opts presenter.NavigationOptions) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := os.Stat(l.loc.Path); err != nil {
		return false, nil
	}
	return l.opener.Open(ctx, l.loc, opts)
}
