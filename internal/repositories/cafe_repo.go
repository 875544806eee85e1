package repositories

import "cafequest/internal/models"

// CafeFilter restricts an owner-scoped listing. Zero values impose no
// constraint.
type CafeFilter struct {
	Status string   // exact match against one of the two status values
	Tags   []string // match if the cafe carries at least one of these
	Search string   // case-insensitive substring match against the name
}

// DiscoverFilter restricts the public feed.
type DiscoverFilter struct {
	Tags   []string // intersection semantics, as in CafeFilter
	Search string   // matches name or location
	Page   int      // 1-indexed
	Limit  int      // page size
}

// CafeRepository defines the interface for cafe data access.
type CafeRepository interface {
	Create(cafe *models.Cafe) error
	// GetByID fetches a cafe regardless of owner (used by the discover save
	// flow, which starts from a feed item's id).
	GetByID(id string) (*models.Cafe, error)
	// GetByOwner fetches a cafe only if ownerID owns it; a cafe owned by
	// someone else yields ErrNotFound, same as a missing one.
	GetByOwner(ownerID, id string) (*models.Cafe, error)
	// ListByOwner returns the owner's cafes matching filter, newest first.
	ListByOwner(ownerID string, filter CafeFilter) ([]models.Cafe, error)
	// ListPublic returns one page of public cafes not owned by
	// excludeOwnerID, newest first, plus the total match count.
	ListPublic(excludeOwnerID string, filter DiscoverFilter) ([]models.Cafe, int64, error)
	// FindByOwnerNameLocation looks up an owner's cafe by exact name and
	// location, the identity heuristic used for wishlist dedup.
	FindByOwnerNameLocation(ownerID, name, location string) (*models.Cafe, error)
	Update(cafe *models.Cafe) error
	DeleteByOwner(ownerID, id string) error
}
