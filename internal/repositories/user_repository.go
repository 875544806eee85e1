package repositories

import "cafequest/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	// GetByUsername looks the username up case-insensitively.
	GetByUsername(username string) (*models.User, error)
	// GetByIDs returns the users whose IDs appear in ids; missing IDs are
	// silently skipped.
	GetByIDs(ids []string) ([]models.User, error)
	Update(user *models.User) error
}
