package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Cafe status values.
const (
	StatusVisited  = "visited"
	StatusWishlist = "wishlist"
)

// The fixed tag vocabulary. The store rejects anything outside it.
const (
	TagWifi        = "wifi"
	TagQuiet       = "quiet"
	TagAesthetic   = "aesthetic"
	TagGoodCoffee  = "good-coffee"
	TagPetFriendly = "pet-friendly"
)

// ValidStatus reports whether s is one of the two cafe statuses.
func ValidStatus(s string) bool {
	return s == StatusVisited || s == StatusWishlist
}

// TagList is a set of cafe tags stored as a JSON array in a single text column.
type TagList []string

// Value implements driver.Valuer so GORM can persist the list.
func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		t = TagList{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for reading the list back.
func (t *TagList) Scan(value interface{}) error {
	if value == nil {
		*t = TagList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for tags column", value)
	}
	if len(data) == 0 {
		*t = TagList{}
		return nil
	}
	return json.Unmarshal(data, t)
}

// Contains reports whether the list carries the given tag.
func (t TagList) Contains(tag string) bool {
	for _, v := range t {
		if v == tag {
			return true
		}
	}
	return false
}

// Cafe is a single cafe entry owned by one user. The owning user never
// changes after creation.
type Cafe struct {
	ID       string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID   string  `json:"userId" gorm:"type:varchar(36);index:idx_cafes_owner_created,priority:1" validate:"required"`
	Name     string  `json:"name" gorm:"type:varchar(100)" validate:"required,max=100"`
	Location string  `json:"location" gorm:"type:varchar(200)" validate:"required,max=200"`
	Photo    string  `json:"photo" gorm:"type:varchar(500)"`
	Rating   int     `json:"rating" validate:"min=1,max=5"`
	Tags     TagList `json:"tags" gorm:"type:text" validate:"unique,dive,oneof=wifi quiet aesthetic good-coffee pet-friendly"`
	Notes    string  `json:"notes" gorm:"type:text" validate:"max=1000"`
	Status   string  `json:"status" gorm:"type:varchar(10)" validate:"oneof=visited wishlist"`
	IsPublic bool    `json:"isPublic" gorm:"index:idx_cafes_public_created,priority:1"`
	// VisitedAt is only meaningful while Status is "visited"; wishlist
	// entries normally carry null.
	VisitedAt *time.Time `json:"visitedAt"`
	CreatedAt time.Time  `json:"createdAt" gorm:"index:idx_cafes_owner_created,priority:2,sort:desc;index:idx_cafes_public_created,priority:2,sort:desc"`

	// Owner is populated by the discover feed only; it is never stored.
	Owner *PublicProfile `json:"user,omitempty" gorm:"-"`
}
