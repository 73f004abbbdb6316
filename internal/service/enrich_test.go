package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critterpost/critterpost/internal/model"
	"github.com/critterpost/critterpost/internal/repository"
	"github.com/critterpost/critterpost/internal/task"
)

func setupEnrichTest(t *testing.T) (repository.PostRepository, *model.Post) {
	t.Helper()

	database := newTestDB(t)
	users := repository.NewUserRepository(database)
	posts := repository.NewPostRepository(database)

	user := &model.User{Email: "a@b.com", PasswordHash: "x"}
	require.NoError(t, users.Create(user))

	post := &model.Post{Body: "hello", UserID: user.ID}
	require.NoError(t, posts.Create(post))

	return posts, post
}

func TestEnrichmentSuccess(t *testing.T) {
	posts, post := setupEnrichTest(t)

	images := &fakeImageGen{image: &GeneratedImage{OutputURL: "http://x/y.png"}}
	emails := &fakeNotifier{}
	svc := NewEnrichmentService(images, posts, emails)

	job := EnrichmentJob{
		PostID:     post.ID,
		Prompt:     "a blue cat",
		OwnerEmail: "a@b.com",
		PostURL:    fmt.Sprintf("http://app/post/%d", post.ID),
	}
	err := svc.Run(context.Background(), job)
	require.NoError(t, err)

	enriched, err := posts.ByID(post.ID)
	require.NoError(t, err)
	require.NotNil(t, enriched.ImageURL)
	assert.Equal(t, "http://x/y.png", *enriched.ImageURL)

	sent := emails.emails()
	require.Len(t, sent, 1, "exactly one email per job")
	assert.Equal(t, "ready", sent[0].Kind)
	assert.Equal(t, "a@b.com", sent[0].To)
	assert.Equal(t, job.PostURL, sent[0].URL)
}

func TestEnrichmentGenerationFailure(t *testing.T) {
	posts, post := setupEnrichTest(t)

	images := &fakeImageGen{err: &RequestError{StatusCode: http.StatusInternalServerError}}
	emails := &fakeNotifier{}
	svc := NewEnrichmentService(images, posts, emails)

	err := svc.Run(context.Background(), EnrichmentJob{
		PostID:     post.ID,
		Prompt:     "a blue cat",
		OwnerEmail: "a@b.com",
	})
	require.NoError(t, err)

	// image_url stays null permanently, no retry is scheduled
	unchanged, err := posts.ByID(post.ID)
	require.NoError(t, err)
	assert.Nil(t, unchanged.ImageURL)

	sent := emails.emails()
	require.Len(t, sent, 1, "exactly one failure email")
	assert.Equal(t, "failed", sent[0].Kind)
	assert.Equal(t, "a@b.com", sent[0].To)
}

func TestEnrichmentNestedNotificationFailureIsSwallowed(t *testing.T) {
	posts, post := setupEnrichTest(t)

	images := &fakeImageGen{err: &RequestError{StatusCode: http.StatusInternalServerError}}
	emails := &fakeNotifier{sendErr: &DeliveryError{StatusCode: http.StatusBadGateway}}
	svc := NewEnrichmentService(images, posts, emails)

	// The failure email failing too must not crash the job
	err := svc.Run(context.Background(), EnrichmentJob{PostID: post.ID, OwnerEmail: "a@b.com"})
	assert.NoError(t, err)
}

func TestEnrichmentSuccessNotificationFailureSurfaces(t *testing.T) {
	posts, post := setupEnrichTest(t)

	images := &fakeImageGen{image: &GeneratedImage{OutputURL: "http://x/y.png"}}
	emails := &fakeNotifier{sendErr: &DeliveryError{StatusCode: http.StatusBadGateway}}
	svc := NewEnrichmentService(images, posts, emails)

	err := svc.Run(context.Background(), EnrichmentJob{PostID: post.ID, OwnerEmail: "a@b.com"})
	assert.Error(t, err)

	// The image was attached before the send failed
	enriched, err2 := posts.ByID(post.ID)
	require.NoError(t, err2)
	assert.NotNil(t, enriched.ImageURL)
}

func TestEnrichmentJobsForDifferentPostsDoNotInterfere(t *testing.T) {
	database := newTestDB(t)
	users := repository.NewUserRepository(database)
	posts := repository.NewPostRepository(database)

	user := &model.User{Email: "a@b.com", PasswordHash: "x"}
	require.NoError(t, users.Create(user))

	first := &model.Post{Body: "one", UserID: user.ID}
	require.NoError(t, posts.Create(first))
	second := &model.Post{Body: "two", UserID: user.ID}
	require.NoError(t, posts.Create(second))

	// Each prompt yields a distinct URL so cross-post writes would show up
	images := generatorFunc(func(ctx context.Context, prompt string) (*GeneratedImage, error) {
		return &GeneratedImage{OutputURL: "http://x/" + prompt + ".png"}, nil
	})
	emails := &fakeNotifier{}
	svc := NewEnrichmentService(images, posts, emails)

	queue := task.NewQueue(2, 4)
	queue.Enqueue(svc.Task(EnrichmentJob{PostID: first.ID, Prompt: "one", OwnerEmail: "a@b.com"}))
	queue.Enqueue(svc.Task(EnrichmentJob{PostID: second.ID, Prompt: "two", OwnerEmail: "a@b.com"}))
	queue.Shutdown()

	gotFirst, err := posts.ByID(first.ID)
	require.NoError(t, err)
	require.NotNil(t, gotFirst.ImageURL)
	assert.Equal(t, "http://x/one.png", *gotFirst.ImageURL)

	gotSecond, err := posts.ByID(second.ID)
	require.NoError(t, err)
	require.NotNil(t, gotSecond.ImageURL)
	assert.Equal(t, "http://x/two.png", *gotSecond.ImageURL)

	assert.Len(t, emails.emails(), 2)
}
