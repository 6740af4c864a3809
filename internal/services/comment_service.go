package services

import (
	"fmt"

	"conduit/internal/models"
	"conduit/internal/repositories"
)

// CommentService handles business logic for comments.
type CommentService struct {
	commentRepo repositories.CommentRepository
	articleRepo repositories.ArticleRepository
	userRepo    repositories.UserRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repositories.CommentRepository, articleRepo repositories.ArticleRepository, userRepo repositories.UserRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
		userRepo:    userRepo,
	}
}

// Add creates a comment on the article with the given slug, authored by the
// authenticated caller.
func (s *CommentService) Add(slug, authorID, body string) (*models.Comment, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	author, err := s.userRepo.GetByID(authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	comment := &models.Comment{
		Body:      body,
		AuthorID:  author.ID,
		ArticleID: article.ID,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	comment.Author = author
	return comment, nil
}

// List retrieves all comments on the article with the given slug, oldest
// first.
func (s *CommentService) List(slug string) ([]models.Comment, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.GetByArticle(article.ID)
}

// Delete removes a comment. Only the comment's own author may delete it;
// the article's author has no say over other people's comments.
func (s *CommentService) Delete(slug, commentID, callerID string) error {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return err
	}
	if comment.ArticleID != article.ID {
		return fmt.Errorf("comment %s is not on article %s: %w", commentID, slug, repositories.ErrNotFound)
	}

	if !CanMutate(comment.AuthorID, callerID) {
		return fmt.Errorf("comment %s belongs to another user: %w", commentID, ErrForbidden)
	}

	return s.commentRepo.Delete(commentID)
}
