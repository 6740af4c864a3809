package repositories

import "conduit/internal/models"

// ArticleRepository defines the interface for article data access. Lookups
// that feed projections resolve the author exactly once, at this boundary.
type ArticleRepository interface {
	Create(article *models.Article) error
	GetBySlug(slug string) (*models.Article, error)
	GetAll() ([]models.Article, error)
	GetByTag(tag string) ([]models.Article, error)
	GetByAuthor(authorID string) ([]models.Article, error)
	// Delete removes the article and all of its comments in one transaction.
	Delete(id string) error
}
