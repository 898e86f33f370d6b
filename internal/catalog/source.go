// Package catalog defines the interface to a remote object catalog.
//
// A source serves two endpoints: a full listing of lightweight object
// summaries and a per-object detail lookup. Concrete sources live in
// subpackages (currently the SBB FDK API under sbb).
package catalog

import (
	"context"

	"fdk/internal/domain"
)

// Source is a remote catalog of objects.
//
// Implementations perform single attempts; retry policy belongs to the
// caller.
type Source interface {
	// FetchListing retrieves the complete catalog listing in the given
	// language. The returned objects are summaries without property sets.
	FetchListing(ctx context.Context, language string) (*Listing, error)

	// FetchObject retrieves one object with full details.
	// Returns an error matching domain.ErrObjectNotFound when the id is
	// unknown to the source.
	FetchObject(ctx context.Context, id domain.ObjectID, language string) (*domain.CatalogObject, error)

	// SupportedLanguages returns the language codes the source accepts.
	SupportedLanguages() []string
}

// Listing is the result of a full catalog fetch.
type Listing struct {
	// Objects holds summary objects in the order the source returned them.
	Objects []*domain.CatalogObject

	// TotalCount is the catalog size reported by the source.
	TotalCount int

	// Release identifies the catalog release the listing came from.
	// The zero value means the source did not report one.
	Release domain.ReleaseInfo
}
