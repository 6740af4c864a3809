package models

import "time"

// Response projections. Every persisted entity is mapped to its client-facing
// shape here, and nowhere else; what a caller sees depends on who they are
// (owner, authenticated, anonymous). Projections are computed on every read,
// never cached.

// SelfResponse is the owner's view of their own account. It always carries a
// freshly issued token.
type SelfResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// ProfileResponse is the public view of a user: no email, no token.
type ProfileResponse struct {
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}

// ArticleResponse is the client-facing shape of an article with its author's
// public profile nested.
type ArticleResponse struct {
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Body        string          `json:"body"`
	TagList     []string        `json:"tagList"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Author      ProfileResponse `json:"author"`
}

// CommentResponse is the client-facing shape of a comment.
type CommentResponse struct {
	ID        string          `json:"id"`
	Body      string          `json:"body"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Author    ProfileResponse `json:"author"`
}

// NewSelfResponse projects a user to their own view with the given token.
func NewSelfResponse(user *User, token string) SelfResponse {
	return SelfResponse{
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	}
}

// NewProfileResponse projects a user to their public profile.
func NewProfileResponse(user *User) ProfileResponse {
	return ProfileResponse{
		Username: user.Username,
		Bio:      user.Bio,
		Image:    user.Image,
	}
}

// NewArticleResponse projects an article with its preloaded author. A dangling
// author reference yields a sentinel profile; the read path must not fail
// because of one.
func NewArticleResponse(article *Article) ArticleResponse {
	author := ProfileResponse{Username: "unknown"}
	if article.Author != nil {
		author = NewProfileResponse(article.Author)
	}
	return ArticleResponse{
		Slug:        article.Slug,
		Title:       article.Title,
		Description: article.Description,
		Body:        article.Body,
		TagList:     article.TagList,
		CreatedAt:   article.CreatedAt,
		UpdatedAt:   article.UpdatedAt,
		Author:      author,
	}
}

// NewArticleListResponse projects a slice of articles.
func NewArticleListResponse(articles []Article) []ArticleResponse {
	responses := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		responses = append(responses, NewArticleResponse(&articles[i]))
	}
	return responses
}

// NewCommentResponse projects a comment with its preloaded author, falling
// back to a sentinel profile when the author no longer resolves.
func NewCommentResponse(comment *Comment) CommentResponse {
	author := ProfileResponse{Username: "Unknown"}
	if comment.Author != nil {
		author = NewProfileResponse(comment.Author)
	}
	return CommentResponse{
		ID:        comment.ID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
		Author:    author,
	}
}

// NewCommentListResponse projects a slice of comments.
func NewCommentListResponse(comments []Comment) []CommentResponse {
	responses := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, NewCommentResponse(&comments[i]))
	}
	return responses
}
