package models

import "gorm.io/gorm"

// Comment represents a comment on an article. A comment belongs to exactly
// one article and is deleted together with it.
type Comment struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Body string `json:"body" gorm:"type:text" validate:"required"`

	AuthorID string `json:"authorId" gorm:"index;type:varchar(36)"`
	Author   *User  `json:"-" gorm:"foreignKey:AuthorID"`

	ArticleID string `json:"articleId" gorm:"index;type:varchar(36)"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
