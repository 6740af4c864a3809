package services

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// NewSlug derives a URL-safe slug from an article title plus a random
// 6-character suffix. The suffix keeps duplicate titles from colliding;
// the store's unique index is the final arbiter, and callers retry with a
// fresh slug on a conflict.
func NewSlug(title string) string {
	slug := strings.ToLower(title)
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}
