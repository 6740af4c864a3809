package services_test

import (
	"testing"

	"conduit/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestNewSlug(t *testing.T) {
	assert.Regexp(t, `^my-title-[0-9a-f]{6}$`, services.NewSlug("My Title"))
	assert.Regexp(t, `^hello-world-again-[0-9a-f]{6}$`, services.NewSlug("Hello, World!  Again"))
	// A title with no usable characters still yields a non-empty slug.
	assert.Regexp(t, `^[0-9a-f]{6}$`, services.NewSlug("!!!"))
}

func TestNewSlugDuplicateTitles(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		slug := services.NewSlug("My Title")
		assert.False(t, seen[slug], "slug %s generated twice", slug)
		seen[slug] = true
	}
}

func TestCanMutate(t *testing.T) {
	assert.True(t, services.CanMutate("user-1", "user-1"))
	assert.False(t, services.CanMutate("user-1", "user-2"))
	assert.False(t, services.CanMutate("user-1", ""))
	// A resource with no recorded owner is never mutable.
	assert.False(t, services.CanMutate("", ""))
}
