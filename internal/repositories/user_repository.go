package repositories

import (
	"errors"

	"conduit/internal/models"
)

// ErrNotFound is wrapped by every repository when a lookup misses, so callers
// can distinguish an absent record from a storage failure.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is wrapped when a write violates a unique index. Relies on
// GORM's error translation (TranslateError) being enabled on the connection.
var ErrDuplicate = errors.New("duplicate record")

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	GetByVerificationToken(token string) (*models.User, error)
}
