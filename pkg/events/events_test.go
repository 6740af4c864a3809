package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventNames(t *testing.T) {
	// Consumers bind on these names; changing one silently strands them.
	assert.Equal(t, "user.registered", UserRegistered)
	assert.Equal(t, "article.created", ArticleCreated)
	assert.Equal(t, "article.deleted", ArticleDeleted)
}

func TestPublishWithoutChannel(t *testing.T) {
	client := &Client{}
	err := client.Publish(UserRegistered, map[string]interface{}{"user_id": "u1"})
	assert.Error(t, err)
}

func TestConsumeWithoutChannel(t *testing.T) {
	client := &Client{}
	err := client.Consume(nil)
	assert.Error(t, err)
}
