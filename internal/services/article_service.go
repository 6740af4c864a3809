package services

import (
	"errors"
	"fmt"
	"log"

	"conduit/internal/models"
	"conduit/internal/repositories"
	"conduit/pkg/events"
)

// maxSlugAttempts bounds the retry loop on slug conflicts. With a random
// 6-character suffix, more than a couple of attempts means something else
// is wrong.
const maxSlugAttempts = 5

// ArticleService handles business logic for articles.
type ArticleService struct {
	articleRepo repositories.ArticleRepository
	userRepo    repositories.UserRepository
	events      EventPublisher
}

// NewArticleService creates a new ArticleService. events may be nil.
func NewArticleService(articleRepo repositories.ArticleRepository, userRepo repositories.UserRepository, events EventPublisher) *ArticleService {
	return &ArticleService{
		articleRepo: articleRepo,
		userRepo:    userRepo,
		events:      events,
	}
}

// ArticleDraft carries the client-supplied fields of a new article. The
// author is always resolved from the authenticated identity.
type ArticleDraft struct {
	Title       string
	Description string
	Body        string
	TagList     []string
}

// Create persists a new article for the given author, generating its slug
// and retrying with a fresh one if the unique index reports a conflict.
func (s *ArticleService) Create(authorID string, draft ArticleDraft) (*models.Article, error) {
	author, err := s.userRepo.GetByID(authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	article := &models.Article{
		Title:       draft.Title,
		Description: draft.Description,
		Body:        draft.Body,
		TagList:     draft.TagList,
		AuthorID:    author.ID,
	}

	for attempt := 0; ; attempt++ {
		article.Slug = NewSlug(draft.Title)
		err = s.articleRepo.Create(article)
		if err == nil {
			break
		}
		if !errors.Is(err, repositories.ErrDuplicate) || attempt+1 >= maxSlugAttempts {
			return nil, fmt.Errorf("failed to create article: %w", err)
		}
		log.Printf("Slug %s already exists, retrying", article.Slug)
	}

	article.Author = author
	s.publish(events.ArticleCreated, map[string]interface{}{
		"slug":      article.Slug,
		"author_id": author.ID,
	})
	return article, nil
}

// GetBySlug retrieves one article with its author resolved.
func (s *ArticleService) GetBySlug(slug string) (*models.Article, error) {
	return s.articleRepo.GetBySlug(slug)
}

// List retrieves all articles, optionally filtered by tag, newest first.
func (s *ArticleService) List(tag string) ([]models.Article, error) {
	if tag != "" {
		return s.articleRepo.GetByTag(tag)
	}
	return s.articleRepo.GetAll()
}

// Feed retrieves all articles with authors for an authenticated caller.
func (s *ArticleService) Feed() ([]models.Article, error) {
	return s.articleRepo.GetAll()
}

// Delete removes an article and its comments. Only the article's owner may
// delete it; anyone else gets ErrForbidden.
func (s *ArticleService) Delete(slug, callerID string) error {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return err
	}

	if !CanMutate(article.AuthorID, callerID) {
		return fmt.Errorf("article %s belongs to another user: %w", slug, ErrForbidden)
	}

	if err := s.articleRepo.Delete(article.ID); err != nil {
		return err
	}

	s.publish(events.ArticleDeleted, map[string]interface{}{
		"slug":      article.Slug,
		"author_id": article.AuthorID,
	})
	return nil
}

func (s *ArticleService) publish(event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(event, payload); err != nil {
		log.Printf("Failed to publish %s event: %v", event, err)
	}
}
