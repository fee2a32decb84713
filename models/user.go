package models

import (
	"gorm.io/gorm"
)

// User represents an authenticated account that can own companies and
// receive invitations.
type User struct {
	gorm.Model
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"not null" json:"-"`
	Name         *string `json:"name,omitempty"`
	IsActive     bool    `gorm:"default:true" json:"is_active"`

	// TokenVersion invalidates outstanding JWTs when bumped
	TokenVersion int `gorm:"default:0" json:"-"`

	// Relations
	Companies []Company `gorm:"foreignKey:OwnerID" json:"companies,omitempty"`
}
