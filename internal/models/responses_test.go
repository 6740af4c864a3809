package models_test

import (
	"encoding/json"
	"testing"

	"conduit/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSelfVsProfileProjection(t *testing.T) {
	user := &models.User{
		Username:          "alice",
		Email:             "alice@example.com",
		Password:          "$2a$10$secret-hash",
		Bio:               "writes things",
		Image:             "https://example.com/alice.png",
		VerificationToken: "tok123",
	}

	self := models.NewSelfResponse(user, "jwt-token")
	assert.Equal(t, "alice@example.com", self.Email)
	assert.Equal(t, "jwt-token", self.Token)

	profile := models.NewProfileResponse(user)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "writes things", profile.Bio)

	// The public projection must never leak credentials or internal state.
	body, err := json.Marshal(profile)
	assert.NoError(t, err)
	assert.NotContains(t, string(body), "alice@example.com")
	assert.NotContains(t, string(body), "secret-hash")
	assert.NotContains(t, string(body), "tok123")
}

func TestArticleProjection(t *testing.T) {
	article := &models.Article{
		ID:      "a1",
		Slug:    "my-title-abc123",
		Title:   "My Title",
		Body:    "Body text",
		TagList: []string{"go"},
		Author: &models.User{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "$2a$10$secret-hash",
			Bio:      "writes things",
		},
	}

	resp := models.NewArticleResponse(article)
	assert.Equal(t, "my-title-abc123", resp.Slug)
	assert.Equal(t, "alice", resp.Author.Username)

	// The nested author is the public profile view: no email, no hash, no
	// internal ids beyond the slug.
	body, err := json.Marshal(resp)
	assert.NoError(t, err)
	assert.NotContains(t, string(body), "alice@example.com")
	assert.NotContains(t, string(body), "secret-hash")
	assert.NotContains(t, string(body), `"a1"`)
}

func TestArticleProjectionDanglingAuthor(t *testing.T) {
	article := &models.Article{Slug: "orphaned-abc123", Title: "Orphaned", Author: nil}

	// A dangling author reference yields a sentinel, never an error.
	resp := models.NewArticleResponse(article)
	assert.Equal(t, "unknown", resp.Author.Username)
	assert.Empty(t, resp.Author.Bio)
	assert.Empty(t, resp.Author.Image)
}

func TestCommentProjection(t *testing.T) {
	comment := &models.Comment{
		ID:   "c1",
		Body: "Nice article",
		Author: &models.User{
			Username: "bob",
			Email:    "bob@example.com",
		},
	}

	resp := models.NewCommentResponse(comment)
	assert.Equal(t, "c1", resp.ID)
	assert.Equal(t, "bob", resp.Author.Username)

	body, err := json.Marshal(resp)
	assert.NoError(t, err)
	assert.NotContains(t, string(body), "bob@example.com")
}

func TestCommentProjectionDanglingAuthor(t *testing.T) {
	comment := &models.Comment{ID: "c1", Body: "hello", Author: nil}

	resp := models.NewCommentResponse(comment)
	assert.Equal(t, "Unknown", resp.Author.Username)
}

func TestListProjectionsAreNeverNil(t *testing.T) {
	articles := models.NewArticleListResponse(nil)
	assert.NotNil(t, articles)
	assert.Len(t, articles, 0)

	comments := models.NewCommentListResponse(nil)
	assert.NotNil(t, comments)
	assert.Len(t, comments, 0)
}
