package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"cafequest/internal/models"

	"github.com/google/uuid"
)

// MockCafeRepository is an in-memory implementation of CafeRepository. It
// mirrors the query semantics of the GORM implementation so service tests can
// exercise filtering and pagination without a database.
type MockCafeRepository struct {
	cafes map[string]models.Cafe
	mu    sync.RWMutex
}

// NewMockCafeRepository creates a new instance of MockCafeRepository.
func NewMockCafeRepository() *MockCafeRepository {
	return &MockCafeRepository{
		cafes: make(map[string]models.Cafe),
	}
}

// Create adds a new cafe.
func (r *MockCafeRepository) Create(cafe *models.Cafe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cafe.ID == "" {
		cafe.ID = uuid.New().String()
	}
	r.cafes[cafe.ID] = *cafe
	return nil
}

// GetByID returns a cafe by its ID, regardless of owner.
func (r *MockCafeRepository) GetByID(id string) (*models.Cafe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cafe, ok := r.cafes[id]
	if !ok {
		return nil, fmt.Errorf("cafe %s: %w", id, ErrNotFound)
	}
	return &cafe, nil
}

// GetByOwner returns a cafe only if ownerID owns it.
func (r *MockCafeRepository) GetByOwner(ownerID, id string) (*models.Cafe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cafe, ok := r.cafes[id]
	if !ok || cafe.UserID != ownerID {
		return nil, fmt.Errorf("cafe %s: %w", id, ErrNotFound)
	}
	return &cafe, nil
}

// ListByOwner returns the owner's cafes matching filter, newest first.
func (r *MockCafeRepository) ListByOwner(ownerID string, filter CafeFilter) ([]models.Cafe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]models.Cafe, 0)
	for _, cafe := range r.cafes {
		if cafe.UserID != ownerID {
			continue
		}
		if filter.Status != "" && cafe.Status != filter.Status {
			continue
		}
		if !matchesTags(cafe, filter.Tags) {
			continue
		}
		if filter.Search != "" && !containsFold(cafe.Name, filter.Search) {
			continue
		}
		matches = append(matches, cafe)
	}
	sortNewestFirst(matches)
	return matches, nil
}

// ListPublic returns one page of public cafes not owned by excludeOwnerID.
func (r *MockCafeRepository) ListPublic(excludeOwnerID string, filter DiscoverFilter) ([]models.Cafe, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]models.Cafe, 0)
	for _, cafe := range r.cafes {
		if !cafe.IsPublic || cafe.UserID == excludeOwnerID {
			continue
		}
		if !matchesTags(cafe, filter.Tags) {
			continue
		}
		if filter.Search != "" &&
			!containsFold(cafe.Name, filter.Search) &&
			!containsFold(cafe.Location, filter.Search) {
			continue
		}
		matches = append(matches, cafe)
	}
	sortNewestFirst(matches)

	total := int64(len(matches))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matches) {
		return []models.Cafe{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end], total, nil
}

// FindByOwnerNameLocation looks up an owner's cafe by exact name and location.
func (r *MockCafeRepository) FindByOwnerNameLocation(ownerID, name, location string) (*models.Cafe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cafe := range r.cafes {
		if cafe.UserID == ownerID && cafe.Name == name && cafe.Location == location {
			match := cafe
			return &match, nil
		}
	}
	return nil, fmt.Errorf("cafe %q at %q: %w", name, location, ErrNotFound)
}

// Update modifies an existing cafe.
func (r *MockCafeRepository) Update(cafe *models.Cafe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cafes[cafe.ID]; !ok {
		return fmt.Errorf("cafe %s: %w", cafe.ID, ErrNotFound)
	}
	r.cafes[cafe.ID] = *cafe
	return nil
}

// DeleteByOwner removes a cafe scoped to its owner.
func (r *MockCafeRepository) DeleteByOwner(ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cafe, ok := r.cafes[id]
	if !ok || cafe.UserID != ownerID {
		return fmt.Errorf("cafe %s: %w", id, ErrNotFound)
	}
	delete(r.cafes, id)
	return nil
}

func matchesTags(cafe models.Cafe, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, tag := range tags {
		if cafe.Tags.Contains(tag) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sortNewestFirst(cafes []models.Cafe) {
	sort.SliceStable(cafes, func(i, j int) bool {
		return cafes[i].CreatedAt.After(cafes[j].CreatedAt)
	})
}
