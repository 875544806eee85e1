package models

import "time"

// User represents a CafeQuest account.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(30)" validate:"required,min=3,max=30"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash, never serialized
	Avatar    string    `json:"avatar" gorm:"type:varchar(500)"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicProfile is the subset of user fields other users are allowed to see.
// The discover feed embeds it on each item as a read-time join.
type PublicProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Public returns the user's publicly visible profile fields.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}
