package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critterpost/critterpost/internal/model"
)

func TestPostCreateAndGet(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	posts := NewPostRepository(database)

	user := createTestUser(t, users, "a@b.com")
	post := createTestPost(t, posts, user.ID, "hello world")
	assert.NotZero(t, post.ID)

	got, err := posts.ByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got.Body)
	assert.Equal(t, user.ID, got.UserID)
	assert.Nil(t, got.ImageURL)
}

func TestPostNotFound(t *testing.T) {
	posts := NewPostRepository(newTestDB(t))

	_, err := posts.ByID(99)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = posts.ByIDWithLikes(99)
	assert.ErrorIs(t, err, ErrPostNotFound)

	err = posts.SetImageURL(99, "http://x/y.png")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostSetImageURL(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	posts := NewPostRepository(database)

	user := createTestUser(t, users, "a@b.com")
	post := createTestPost(t, posts, user.ID, "hello")

	err := posts.SetImageURL(post.ID, "http://x/y.png")
	require.NoError(t, err)

	got, err := posts.ByID(post.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, "http://x/y.png", *got.ImageURL)
}

func TestPostListSorting(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	posts := NewPostRepository(database)
	likes := NewLikeRepository(database)

	user := createTestUser(t, users, "a@b.com")
	first := createTestPost(t, posts, user.ID, "first")
	second := createTestPost(t, posts, user.ID, "second")
	third := createTestPost(t, posts, user.ID, "third")

	// Two likes on the second post, one on the first
	for _, postID := range []int64{second.ID, second.ID, first.ID} {
		err := likes.Create(&model.Like{PostID: postID, UserID: user.ID})
		require.NoError(t, err)
	}

	newest, err := posts.ListWithLikes(model.SortNew)
	require.NoError(t, err)
	require.Len(t, newest, 3)
	assert.Equal(t, third.ID, newest[0].ID)

	oldest, err := posts.ListWithLikes(model.SortOld)
	require.NoError(t, err)
	assert.Equal(t, first.ID, oldest[0].ID)

	mostLiked, err := posts.ListWithLikes(model.SortMostLikes)
	require.NoError(t, err)
	assert.Equal(t, second.ID, mostLiked[0].ID)
	assert.Equal(t, int64(2), mostLiked[0].Likes)
	assert.Equal(t, first.ID, mostLiked[1].ID)
	assert.Equal(t, int64(1), mostLiked[1].Likes)
	assert.Equal(t, int64(0), mostLiked[2].Likes)
}
