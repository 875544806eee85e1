package services

import (
	"errors"
	"fmt"
	"time"

	"cafequest/internal/models"
	"cafequest/internal/repositories"
)

// DefaultDiscoverLimit is the feed page size when the caller supplies none.
const DefaultDiscoverLimit = 20

// DiscoverService serves the cross-user public feed and the save-to-wishlist
// flow.
type DiscoverService struct {
	cafeRepo repositories.CafeRepository
	userRepo repositories.UserRepository
	events   EventPublisher
}

// NewDiscoverService creates a new DiscoverService.
func NewDiscoverService(cafeRepo repositories.CafeRepository, userRepo repositories.UserRepository, events EventPublisher) *DiscoverService {
	return &DiscoverService{
		cafeRepo: cafeRepo,
		userRepo: userRepo,
		events:   events,
	}
}

// DiscoverPage is one page of the public feed.
type DiscoverPage struct {
	Cafes []models.Cafe `json:"cafes"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
	Total int64         `json:"total"`
}

// ListPublic returns one page of public cafes not owned by the caller,
// newest first, with each item carrying its owner's public profile.
func (s *DiscoverService) ListPublic(excludeOwnerID, tags, search string, page, limit int) (*DiscoverPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultDiscoverLimit
	}

	filter := repositories.DiscoverFilter{
		Tags:   SplitTags(tags),
		Search: search,
		Page:   page,
		Limit:  limit,
	}
	cafes, total, err := s.cafeRepo.ListPublic(excludeOwnerID, filter)
	if err != nil {
		return nil, err
	}

	if err := s.attachOwners(cafes); err != nil {
		return nil, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return &DiscoverPage{
		Cafes: cafes,
		Page:  page,
		Pages: pages,
		Total: total,
	}, nil
}

// attachOwners performs the read-time join of owner display fields onto feed
// items. Cafes whose owner record has vanished keep a nil Owner.
func (s *DiscoverService) attachOwners(cafes []models.Cafe) error {
	if len(cafes) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var ids []string
	for _, cafe := range cafes {
		if !seen[cafe.UserID] {
			seen[cafe.UserID] = true
			ids = append(ids, cafe.UserID)
		}
	}

	users, err := s.userRepo.GetByIDs(ids)
	if err != nil {
		return fmt.Errorf("failed to load cafe owners: %w", err)
	}
	profiles := make(map[string]models.PublicProfile, len(users))
	for i := range users {
		profiles[users[i].ID] = users[i].Public()
	}

	for i := range cafes {
		if profile, ok := profiles[cafes[i].UserID]; ok {
			p := profile
			cafes[i].Owner = &p
		}
	}
	return nil
}

// SaveToWishlist clones a discovered cafe into the caller's collection. The
// clone is always a private wishlist entry regardless of the source's values,
// and carries an attribution note referencing the source owner. A cafe the
// caller already has with the same name and location is a duplicate.
//
// The duplicate check and the insert are two separate store operations;
// concurrent saves of the same cafe can both pass the check and both insert.
// That race is accepted.
func (s *DiscoverService) SaveToWishlist(callerID, sourceCafeID string) (*models.Cafe, error) {
	source, err := s.cafeRepo.GetByID(sourceCafeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	existing, err := s.cafeRepo.FindByOwnerNameLocation(callerID, source.Name, source.Location)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicate
	}

	clone := &models.Cafe{
		UserID:    callerID,
		Name:      source.Name,
		Location:  source.Location,
		Photo:     source.Photo,
		Rating:    source.Rating,
		Tags:      source.Tags,
		Notes:     fmt.Sprintf("Discovered from %s's collection", source.UserID),
		Status:    models.StatusWishlist,
		IsPublic:  false,
		CreatedAt: time.Now(),
	}
	if err := s.cafeRepo.Create(clone); err != nil {
		return nil, err
	}

	publishCafeEvent(s.events, "cafe.saved", clone)
	return clone, nil
}
