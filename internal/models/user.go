package models

import "gorm.io/gorm"

// User represents a registered account of the platform.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password string `gorm:"type:varchar(255)" validate:"omitempty,min=6"` // No json tag for security
	Bio      string `json:"bio" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Image    string `json:"image" gorm:"type:varchar(512)"`

	// Verified stays false until the token from the registration email has
	// been consumed. Federated accounts are created verified.
	Verified          bool   `json:"verified"`
	VerificationToken string `gorm:"type:varchar(64)"` // single-use, cleared on verification

	// GoogleAccount marks users created via federated login; GoogleID holds
	// the provider's subject id for that account.
	GoogleAccount bool   `json:"googleAccount"`
	GoogleID      string `gorm:"type:varchar(64)"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
