package services_test

import (
	"testing"

	"conduit/internal/models"
	"conduit/internal/repositories"
	"conduit/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCommentRepository is a mock implementation of repositories.CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(id string) (*models.Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) GetByArticle(articleID string) ([]models.Comment, error) {
	args := m.Called(articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestCommentService_Add(t *testing.T) {
	mockComments := new(MockCommentRepository)
	mockArticles := new(MockArticleRepository)
	mockUsers := new(MockUserRepository)
	service := services.NewCommentService(mockComments, mockArticles, mockUsers)

	article := &models.Article{ID: "a1", Slug: "my-title-abc123"}
	author := &models.User{ID: "user-2", Username: "bob"}

	mockArticles.On("GetBySlug", "my-title-abc123").Return(article, nil).Once()
	mockUsers.On("GetByID", "user-2").Return(author, nil).Once()
	mockComments.On("Create", mock.AnythingOfType("*models.Comment")).Return(nil).Once()

	comment, err := service.Add("my-title-abc123", "user-2", "Nice article")

	assert.NoError(t, err)
	assert.Equal(t, "a1", comment.ArticleID)
	assert.Equal(t, "user-2", comment.AuthorID)
	assert.Equal(t, author, comment.Author)
	mockComments.AssertExpectations(t)

	// Commenting on a missing article fails with not found.
	mockArticles.On("GetBySlug", "missing").Return(nil, notFoundErr("article")).Once()
	_, err = service.Add("missing", "user-2", "hello")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	mockArticles.AssertExpectations(t)
}

func TestCommentService_Delete(t *testing.T) {
	mockComments := new(MockCommentRepository)
	mockArticles := new(MockArticleRepository)
	mockUsers := new(MockUserRepository)
	service := services.NewCommentService(mockComments, mockArticles, mockUsers)

	// Article owned by user-1, comment written by user-2.
	article := &models.Article{ID: "a1", Slug: "my-title-abc123", AuthorID: "user-1"}
	comment := &models.Comment{ID: "c1", ArticleID: "a1", AuthorID: "user-2"}

	// The article's author may NOT delete someone else's comment; only the
	// comment's own author may.
	mockArticles.On("GetBySlug", "my-title-abc123").Return(article, nil).Once()
	mockComments.On("GetByID", "c1").Return(comment, nil).Once()
	err := service.Delete("my-title-abc123", "c1", "user-1")
	assert.ErrorIs(t, err, services.ErrForbidden)

	mockArticles.On("GetBySlug", "my-title-abc123").Return(article, nil).Once()
	mockComments.On("GetByID", "c1").Return(comment, nil).Once()
	mockComments.On("Delete", "c1").Return(nil).Once()
	err = service.Delete("my-title-abc123", "c1", "user-2")
	assert.NoError(t, err)
	mockComments.AssertExpectations(t)
	mockArticles.AssertExpectations(t)
}

func TestCommentService_DeleteWrongArticle(t *testing.T) {
	mockComments := new(MockCommentRepository)
	mockArticles := new(MockArticleRepository)
	mockUsers := new(MockUserRepository)
	service := services.NewCommentService(mockComments, mockArticles, mockUsers)

	article := &models.Article{ID: "a1", Slug: "my-title-abc123", AuthorID: "user-1"}
	// Comment belongs to a different article.
	comment := &models.Comment{ID: "c1", ArticleID: "a2", AuthorID: "user-2"}

	mockArticles.On("GetBySlug", "my-title-abc123").Return(article, nil).Once()
	mockComments.On("GetByID", "c1").Return(comment, nil).Once()

	err := service.Delete("my-title-abc123", "c1", "user-2")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	mockComments.AssertExpectations(t)
}

func TestCommentService_List(t *testing.T) {
	mockComments := new(MockCommentRepository)
	mockArticles := new(MockArticleRepository)
	mockUsers := new(MockUserRepository)
	service := services.NewCommentService(mockComments, mockArticles, mockUsers)

	article := &models.Article{ID: "a1", Slug: "my-title-abc123"}
	expected := []models.Comment{{ID: "c1"}, {ID: "c2"}}

	mockArticles.On("GetBySlug", "my-title-abc123").Return(article, nil).Once()
	mockComments.On("GetByArticle", "a1").Return(expected, nil).Once()

	comments, err := service.List("my-title-abc123")
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
	mockComments.AssertExpectations(t)
}
