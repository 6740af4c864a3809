package repositories

import (
	"errors"
	"fmt"

	"conduit/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMArticleRepository is a GORM implementation of ArticleRepository.
type GORMArticleRepository struct {
	db *gorm.DB
}

// NewGORMArticleRepository creates a new instance of GORMArticleRepository.
func NewGORMArticleRepository(db *gorm.DB) *GORMArticleRepository {
	return &GORMArticleRepository{
		db: db,
	}
}

// Create creates a new article. Slug uniqueness is enforced by the unique
// index; callers retry with a fresh slug on a duplicate.
func (r *GORMArticleRepository) Create(article *models.Article) error {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	if err := r.db.Create(article).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("slug %s: %w", article.Slug, ErrDuplicate)
		}
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

// GetBySlug retrieves an article by its slug with the author preloaded.
func (r *GORMArticleRepository) GetBySlug(slug string) (*models.Article, error) {
	var article models.Article
	if err := r.db.Preload("Author").First(&article, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("article with slug %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get article by slug %s: %w", slug, err)
	}
	return &article, nil
}

// GetAll retrieves all articles with authors preloaded, newest first.
func (r *GORMArticleRepository) GetAll() ([]models.Article, error) {
	var articles []models.Article
	if err := r.db.Preload("Author").Order("created_at DESC").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("failed to get articles: %w", err)
	}
	return articles, nil
}

// GetByTag retrieves all articles whose tag list contains the given tag.
// The tag list is stored as serialized JSON, so the filter matches the
// quoted tag inside the serialized column.
func (r *GORMArticleRepository) GetByTag(tag string) ([]models.Article, error) {
	var articles []models.Article
	pattern := fmt.Sprintf(`%%"%s"%%`, tag)
	if err := r.db.Preload("Author").Where("tag_list LIKE ?", pattern).
		Order("created_at DESC").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("failed to get articles by tag %s: %w", tag, err)
	}
	return articles, nil
}

// GetByAuthor retrieves all articles written by the given user.
func (r *GORMArticleRepository) GetByAuthor(authorID string) ([]models.Article, error) {
	var articles []models.Article
	if err := r.db.Preload("Author").Where("author_id = ?", authorID).
		Order("created_at DESC").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("failed to get articles by author %s: %w", authorID, err)
	}
	return articles, nil
}

// Delete removes the article and all of its comments in a single
// transaction, so a reader can never observe a comment whose article is
// already gone.
func (r *GORMArticleRepository) Delete(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments of article %s: %w", id, err)
		}
		result := tx.Delete(&models.Article{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete article %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("article with ID %s: %w", id, ErrNotFound)
		}
		return nil
	})
	return err
}
