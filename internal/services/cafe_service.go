package services

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"cafequest/internal/models"
	"cafequest/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// EventPublisher publishes cafe activity events. A nil publisher disables
// events entirely; publish failures never fail the request that caused them.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// CafeService handles business logic for a user's own cafe collection.
type CafeService struct {
	cafeRepo repositories.CafeRepository
	validate *validator.Validate
	events   EventPublisher
}

// NewCafeService creates a new CafeService.
func NewCafeService(cafeRepo repositories.CafeRepository, events EventPublisher) *CafeService {
	return &CafeService{
		cafeRepo: cafeRepo,
		validate: validator.New(),
		events:   events,
	}
}

// List returns the owner's cafes, newest first. status is applied only when
// it is one of the two valid values and silently ignored otherwise; tags is a
// comma-separated list matched with at-least-one-tag semantics; search is a
// case-insensitive substring match on the name.
func (s *CafeService) List(ownerID, status, tags, search string) ([]models.Cafe, error) {
	filter := repositories.CafeFilter{
		Tags:   SplitTags(tags),
		Search: search,
	}
	if models.ValidStatus(status) {
		filter.Status = status
	}
	return s.cafeRepo.ListByOwner(ownerID, filter)
}

// Get returns one of the owner's cafes. A cafe owned by someone else is
// reported exactly like a missing one.
func (s *CafeService) Get(ownerID, cafeID string) (*models.Cafe, error) {
	cafe, err := s.cafeRepo.GetByOwner(ownerID, cafeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cafe, nil
}

// CafeInput carries the fields accepted when creating a cafe. Pointer fields
// distinguish "absent" from a supplied zero value.
type CafeInput struct {
	Name      string     `json:"name"`
	Location  string     `json:"location"`
	Photo     string     `json:"photo"`
	Rating    *int       `json:"rating"`
	Tags      []string   `json:"tags"`
	Notes     string     `json:"notes"`
	Status    string     `json:"status"`
	IsPublic  *bool      `json:"isPublic"`
	VisitedAt *time.Time `json:"visitedAt"`
}

// Create validates the input, applies defaults and stores a new cafe owned by
// ownerID. Defaults: rating 3, tags empty, status visited, public true, and
// visitedAt set to now when the cafe is visited and no explicit value came in.
func (s *CafeService) Create(ownerID string, input CafeInput) (*models.Cafe, error) {
	name := strings.TrimSpace(input.Name)
	location := strings.TrimSpace(input.Location)
	if name == "" || location == "" {
		return nil, newValidationError("Name and location are required")
	}

	cafe := &models.Cafe{
		UserID:    ownerID,
		Name:      name,
		Location:  location,
		Photo:     input.Photo,
		Rating:    3,
		Tags:      models.TagList{},
		Notes:     input.Notes,
		Status:    models.StatusVisited,
		IsPublic:  true,
		VisitedAt: input.VisitedAt,
		CreatedAt: time.Now(),
	}
	if input.Rating != nil {
		cafe.Rating = *input.Rating
	}
	if input.Tags != nil {
		cafe.Tags = models.TagList(input.Tags)
	}
	if input.Status != "" {
		cafe.Status = input.Status
	}
	if input.IsPublic != nil {
		cafe.IsPublic = *input.IsPublic
	}
	if cafe.VisitedAt == nil && cafe.Status == models.StatusVisited {
		now := time.Now()
		cafe.VisitedAt = &now
	}

	if err := s.validate.Struct(cafe); err != nil {
		return nil, validationErrorFrom(err)
	}
	if err := s.cafeRepo.Create(cafe); err != nil {
		return nil, err
	}

	publishCafeEvent(s.events, "cafe.created", cafe)
	return cafe, nil
}

// CafeUpdate carries a partial update; only non-nil fields are applied.
type CafeUpdate struct {
	Name      *string    `json:"name"`
	Location  *string    `json:"location"`
	Photo     *string    `json:"photo"`
	Rating    *int       `json:"rating"`
	Tags      *[]string  `json:"tags"`
	Notes     *string    `json:"notes"`
	Status    *string    `json:"status"`
	IsPublic  *bool      `json:"isPublic"`
	VisitedAt *time.Time `json:"visitedAt"`
}

// Update overwrites exactly the supplied fields on one of the owner's cafes.
// The owning user never changes.
func (s *CafeService) Update(ownerID, cafeID string, update CafeUpdate) (*models.Cafe, error) {
	cafe, err := s.cafeRepo.GetByOwner(ownerID, cafeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if update.Name != nil {
		cafe.Name = strings.TrimSpace(*update.Name)
	}
	if update.Location != nil {
		cafe.Location = strings.TrimSpace(*update.Location)
	}
	if update.Photo != nil {
		cafe.Photo = *update.Photo
	}
	if update.Rating != nil {
		cafe.Rating = *update.Rating
	}
	if update.Tags != nil {
		cafe.Tags = models.TagList(*update.Tags)
	}
	if update.Notes != nil {
		cafe.Notes = *update.Notes
	}
	if update.Status != nil {
		cafe.Status = *update.Status
	}
	if update.IsPublic != nil {
		cafe.IsPublic = *update.IsPublic
	}
	if update.VisitedAt != nil {
		cafe.VisitedAt = update.VisitedAt
	}

	if err := s.validate.Struct(cafe); err != nil {
		return nil, validationErrorFrom(err)
	}
	if err := s.cafeRepo.Update(cafe); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cafe, nil
}

// Delete hard-deletes one of the owner's cafes.
func (s *CafeService) Delete(ownerID, cafeID string) error {
	if err := s.cafeRepo.DeleteByOwner(ownerID, cafeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// publishCafeEvent emits a cafe activity event on a best-effort basis.
func publishCafeEvent(events EventPublisher, eventType string, cafe *models.Cafe) {
	if events == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"cafeId": cafe.ID,
		"userId": cafe.UserID,
		"name":   cafe.Name,
		"status": cafe.Status,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for cafe %s: %v", eventType, cafe.ID, err)
		return
	}
	if err := events.Publish(eventType, body); err != nil {
		log.Printf("Warning: failed to publish %s event for cafe %s: %v", eventType, cafe.ID, err)
	}
}

// SplitTags parses a comma-separated tag list, dropping blanks.
func SplitTags(csv string) []string {
	if csv == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(csv, ",") {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
