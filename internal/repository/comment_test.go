package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critterpost/critterpost/internal/model"
)

func TestCommentCreateAndList(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	posts := NewPostRepository(database)
	comments := NewCommentRepository(database)

	user := createTestUser(t, users, "a@b.com")
	post := createTestPost(t, posts, user.ID, "hello")

	comment := &model.Comment{Body: "nice", PostID: post.ID, UserID: user.ID}
	err := comments.Create(comment)
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)

	list, err := comments.ByPost(post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "nice", list[0].Body)

	empty, err := comments.ByPost(post.ID + 1)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
