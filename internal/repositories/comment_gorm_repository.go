package repositories

import (
	"fmt"

	"conduit/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{
		db: db,
	}
}

// Create creates a new comment.
func (r *GORMCommentRepository) Create(comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by its ID with the author preloaded.
func (r *GORMCommentRepository) GetByID(id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("Author").First(&comment, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("comment with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment by ID %s: %w", id, err)
	}
	return &comment, nil
}

// GetByArticle retrieves all comments on an article, oldest first, with
// authors preloaded.
func (r *GORMCommentRepository) GetByArticle(articleID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Preload("Author").Where("article_id = ?", articleID).
		Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to get comments for article %s: %w", articleID, err)
	}
	return comments, nil
}

// Delete removes a comment by its ID.
func (r *GORMCommentRepository) Delete(id string) error {
	result := r.db.Delete(&models.Comment{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete comment %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("comment with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
