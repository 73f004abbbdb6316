package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critterpost/critterpost/internal/model"
	"github.com/critterpost/critterpost/internal/repository"
	"github.com/critterpost/critterpost/internal/task"
)

type postTestEnv struct {
	svc      *PostService
	posts    repository.PostRepository
	notifier *fakeNotifier
	images   *fakeImageGen
	queue    *task.Queue
	user     *model.User
}

func setupPostTest(t *testing.T) *postTestEnv {
	t.Helper()

	database := newTestDB(t)
	users := repository.NewUserRepository(database)
	posts := repository.NewPostRepository(database)
	comments := repository.NewCommentRepository(database)
	likes := repository.NewLikeRepository(database)

	notifier := &fakeNotifier{}
	images := &fakeImageGen{image: &GeneratedImage{OutputURL: "https://cdn.example.com/generated.png"}}
	enrichment := NewEnrichmentService(images, posts, notifier)

	queue := task.NewQueue(1, 8)
	t.Cleanup(queue.Shutdown)

	user := &model.User{Email: "owner@example.com", PasswordHash: "$2a$10$hashhashhashhashhashha"}
	require.NoError(t, users.Create(user))

	return &postTestEnv{
		svc:      NewPostService(posts, comments, likes, enrichment, queue, "http://app"),
		posts:    posts,
		notifier: notifier,
		images:   images,
		queue:    queue,
		user:     user,
	}
}

func TestPostCreateWithPromptEnqueuesEnrichment(t *testing.T) {
	env := setupPostTest(t)

	post, err := env.svc.Create(env.user, "look at my otter", "an otter in a hat")
	require.NoError(t, err)
	assert.Nil(t, post.ImageURL, "image is attached asynchronously, not at creation")

	env.queue.Shutdown()

	stored, err := env.posts.ByID(post.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ImageURL)
	assert.Equal(t, "https://cdn.example.com/generated.png", *stored.ImageURL)

	emails := env.notifier.emails()
	require.Len(t, emails, 1)
	assert.Equal(t, "ready", emails[0].Kind)
	assert.Equal(t, env.user.Email, emails[0].To)
	assert.Equal(t, "http://app/post/1", emails[0].URL)
}

func TestPostCreateWithoutPromptSkipsEnrichment(t *testing.T) {
	env := setupPostTest(t)

	post, err := env.svc.Create(env.user, "no picture please", "")
	require.NoError(t, err)

	env.queue.Shutdown()

	stored, err := env.posts.ByID(post.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ImageURL)
	assert.Empty(t, env.notifier.emails())
	assert.Empty(t, env.images.prompts)
}

func TestPostGetReturnsCommentsAndLikes(t *testing.T) {
	env := setupPostTest(t)

	post, err := env.svc.Create(env.user, "first", "")
	require.NoError(t, err)

	_, err = env.svc.CreateComment(env.user, post.ID, "nice")
	require.NoError(t, err)
	_, err = env.svc.CreateComment(env.user, post.ID, "very nice")
	require.NoError(t, err)
	_, err = env.svc.Like(env.user, post.ID)
	require.NoError(t, err)

	detail, err := env.svc.Get(post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, detail.Post.ID)
	assert.Equal(t, int64(1), detail.Post.Likes)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "nice", detail.Comments[0].Body)
}

func TestPostGetNotFound(t *testing.T) {
	env := setupPostTest(t)

	_, err := env.svc.Get(99)
	assert.ErrorIs(t, err, repository.ErrPostNotFound)
}

func TestCommentOnMissingPost(t *testing.T) {
	env := setupPostTest(t)

	_, err := env.svc.CreateComment(env.user, 99, "hello?")
	assert.ErrorIs(t, err, repository.ErrPostNotFound)
}

func TestLikeOnMissingPost(t *testing.T) {
	env := setupPostTest(t)

	_, err := env.svc.Like(env.user, 99)
	assert.ErrorIs(t, err, repository.ErrPostNotFound)

	_, err = env.svc.Likes(99)
	assert.ErrorIs(t, err, repository.ErrPostNotFound)
}

func TestDuplicateLikesAreKept(t *testing.T) {
	env := setupPostTest(t)

	post, err := env.svc.Create(env.user, "likeable", "")
	require.NoError(t, err)

	_, err = env.svc.Like(env.user, post.ID)
	require.NoError(t, err)
	_, err = env.svc.Like(env.user, post.ID)
	require.NoError(t, err)

	likes, err := env.svc.Likes(post.ID)
	require.NoError(t, err)
	assert.Len(t, likes, 2)
}

func TestListSorting(t *testing.T) {
	env := setupPostTest(t)

	first, err := env.svc.Create(env.user, "first", "")
	require.NoError(t, err)
	second, err := env.svc.Create(env.user, "second", "")
	require.NoError(t, err)

	_, err = env.svc.Like(env.user, first.ID)
	require.NoError(t, err)

	newest, err := env.svc.List(model.SortNew)
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, second.ID, newest[0].ID)

	byLikes, err := env.svc.List(model.SortMostLikes)
	require.NoError(t, err)
	assert.Equal(t, first.ID, byLikes[0].ID)
	assert.Equal(t, int64(1), byLikes[0].Likes)
}
