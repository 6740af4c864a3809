package services

import (
	"fmt"
	"io"
	"log"
	"path/filepath"

	"conduit/internal/models"
	"conduit/internal/repositories"
	"conduit/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles profile reads and updates.
type UserService struct {
	userRepo    repositories.UserRepository
	articleRepo repositories.ArticleRepository
	storage     storage.Storage
}

// NewUserService creates a new UserService. storage may be nil, in which
// case avatar uploads are skipped and the previous image is kept.
func NewUserService(userRepo repositories.UserRepository, articleRepo repositories.ArticleRepository, store storage.Storage) *UserService {
	return &UserService{
		userRepo:    userRepo,
		articleRepo: articleRepo,
		storage:     store,
	}
}

// GetByID retrieves a user by id.
func (s *UserService) GetByID(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// GetProfile retrieves a user by username together with their articles, for
// the public profile page.
func (s *UserService) GetProfile(username string) (*models.User, []models.Article, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, nil, err
	}
	articles, err := s.articleRepo.GetByAuthor(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, articles, nil
}

// ProfileUpdate carries the mutable profile fields. Empty strings leave the
// current value in place; Avatar is optional.
type ProfileUpdate struct {
	Username   string
	Bio        string
	Password   string
	Avatar     io.Reader
	AvatarName string
}

// UpdateProfile applies a profile update to the given user. An avatar upload
// failure degrades gracefully: the previous image URL is kept and the rest
// of the update still goes through.
func (s *UserService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if update.Username != "" && update.Username != user.Username {
		if existing, err := s.userRepo.GetByUsername(update.Username); err == nil && existing != nil {
			return nil, fmt.Errorf("username %q: %w", update.Username, ErrUsernameTaken)
		}
		user.Username = update.Username
	}
	if update.Bio != "" {
		user.Bio = update.Bio
	}
	if update.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashedPassword)
	}

	if update.Avatar != nil && s.storage != nil {
		path := fmt.Sprintf("avatars/%s%s", user.ID, filepath.Ext(update.AvatarName))
		if err := s.storage.Save(path, update.Avatar); err != nil {
			log.Printf("Failed to upload avatar for user %s, keeping previous image: %v", user.ID, err)
		} else {
			user.Image = s.storage.URL(path)
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
