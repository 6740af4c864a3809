package models

import "gorm.io/gorm"

// Article represents a published post.
type Article struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Slug        string   `json:"slug" gorm:"uniqueIndex;type:varchar(255)"` // immutable after creation
	Title       string   `json:"title" gorm:"type:varchar(255)" validate:"required,min=1,max=255"`
	Description string   `json:"description" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Body        string   `json:"body" gorm:"type:text" validate:"required"`
	TagList     []string `json:"tagList" gorm:"serializer:json"`

	// AuthorID is always taken from the authenticated identity, never from
	// client input.
	AuthorID string `json:"authorId" gorm:"index;type:varchar(36)"`
	Author   *User  `json:"-" gorm:"foreignKey:AuthorID"`

	Comments []Comment `json:"-" gorm:"foreignKey:ArticleID"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
