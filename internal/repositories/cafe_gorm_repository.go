package repositories

import (
	"errors"
	"fmt"
	"strings"

	"cafequest/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCafeRepository is a GORM implementation of CafeRepository.
type GORMCafeRepository struct {
	db *gorm.DB
}

// NewGORMCafeRepository creates a new instance of GORMCafeRepository.
func NewGORMCafeRepository(db *gorm.DB) *GORMCafeRepository {
	return &GORMCafeRepository{
		db: db,
	}
}

// Create creates a new cafe in the database.
func (r *GORMCafeRepository) Create(cafe *models.Cafe) error {
	if cafe.ID == "" {
		cafe.ID = uuid.New().String()
	}
	if err := r.db.Create(cafe).Error; err != nil {
		return fmt.Errorf("failed to create cafe: %w", err)
	}
	return nil
}

// GetByID retrieves a cafe by its ID, regardless of owner.
func (r *GORMCafeRepository) GetByID(id string) (*models.Cafe, error) {
	var cafe models.Cafe
	if err := r.db.First(&cafe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cafe %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cafe by ID %s: %w", id, err)
	}
	return &cafe, nil
}

// GetByOwner retrieves a cafe by ID scoped to its owner. A cafe owned by a
// different user is reported exactly like a missing one.
func (r *GORMCafeRepository) GetByOwner(ownerID, id string) (*models.Cafe, error) {
	var cafe models.Cafe
	if err := r.db.First(&cafe, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cafe %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cafe %s: %w", id, err)
	}
	return &cafe, nil
}

// ListByOwner returns the owner's cafes matching filter, newest first.
func (r *GORMCafeRepository) ListByOwner(ownerID string, filter CafeFilter) ([]models.Cafe, error) {
	q := r.db.Where("user_id = ?", ownerID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	q = applyTagFilter(r.db, q, filter.Tags)
	if filter.Search != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
	}

	var cafes []models.Cafe
	if err := q.Order("created_at DESC").Find(&cafes).Error; err != nil {
		return nil, fmt.Errorf("failed to list cafes: %w", err)
	}
	return cafes, nil
}

// ListPublic returns one page of the public feed plus the total match count.
func (r *GORMCafeRepository) ListPublic(excludeOwnerID string, filter DiscoverFilter) ([]models.Cafe, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.Model(&models.Cafe{}).
			Where("is_public = ?", true).
			Where("user_id <> ?", excludeOwnerID)
		q = applyTagFilter(r.db, q, filter.Tags)
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			q = q.Where(
				r.db.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern).
					Or(`LOWER(location) LIKE ? ESCAPE '\'`, pattern),
			)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count public cafes: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	var cafes []models.Cafe
	err := scope().
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&cafes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list public cafes: %w", err)
	}
	return cafes, total, nil
}

// FindByOwnerNameLocation looks up an owner's cafe by exact name and location.
func (r *GORMCafeRepository) FindByOwnerNameLocation(ownerID, name, location string) (*models.Cafe, error) {
	var cafe models.Cafe
	err := r.db.First(&cafe, "user_id = ? AND name = ? AND location = ?", ownerID, name, location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cafe %q at %q: %w", name, location, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find cafe %q at %q: %w", name, location, err)
	}
	return &cafe, nil
}

// Update persists changes to an existing cafe. An explicit UPDATE is issued
// rather than Save, which would re-insert a record deleted since it was read.
func (r *GORMCafeRepository) Update(cafe *models.Cafe) error {
	res := r.db.Model(&models.Cafe{}).
		Where("id = ?", cafe.ID).
		Select("*").Omit("id").
		Updates(cafe)
	if res.Error != nil {
		return fmt.Errorf("failed to update cafe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cafe %s: %w", cafe.ID, ErrNotFound)
	}
	return nil
}

// DeleteByOwner hard-deletes a cafe scoped to its owner.
func (r *GORMCafeRepository) DeleteByOwner(ownerID, id string) error {
	res := r.db.Delete(&models.Cafe{}, "id = ? AND user_id = ?", id, ownerID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cafe %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cafe %s: %w", id, ErrNotFound)
	}
	return nil
}

// applyTagFilter adds an at-least-one-tag condition. Tags are stored as a
// JSON array in a text column, so each tag is matched as a quoted substring.
func applyTagFilter(db, q *gorm.DB, tags []string) *gorm.DB {
	if len(tags) == 0 {
		return q
	}
	cond := db.Where(`tags LIKE ? ESCAPE '\'`, tagPattern(tags[0]))
	for _, tag := range tags[1:] {
		cond = cond.Or(`tags LIKE ? ESCAPE '\'`, tagPattern(tag))
	}
	return q.Where(cond)
}

// likeEscaper neutralizes LIKE metacharacters so user input matches
// literally. Every LIKE built from it carries an ESCAPE '\' clause.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func tagPattern(tag string) string {
	return `%"` + likeEscaper.Replace(tag) + `"%`
}

func likePattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
}
