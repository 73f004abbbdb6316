package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/critterpost/critterpost/internal/db"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	err = db.RunMigrations(database.DB, "sqlite")
	require.NoError(t, err)

	return database
}

// sentEmail records one call to the fake notifier.
type sentEmail struct {
	Kind    string // "registration", "failed", "ready"
	To      string
	URL     string
}

// fakeNotifier records sends and optionally fails them.
type fakeNotifier struct {
	mu      sync.Mutex
	sent    []sentEmail
	sendErr error
}

func (f *fakeNotifier) record(e sentEmail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, e)
	return nil
}

func (f *fakeNotifier) SendRegistrationEmail(ctx context.Context, to, confirmationURL string) error {
	return f.record(sentEmail{Kind: "registration", To: to, URL: confirmationURL})
}

func (f *fakeNotifier) SendImageFailedEmail(ctx context.Context, to string) error {
	return f.record(sentEmail{Kind: "failed", To: to})
}

func (f *fakeNotifier) SendImageReadyEmail(ctx context.Context, to, postURL string) error {
	return f.record(sentEmail{Kind: "ready", To: to, URL: postURL})
}

func (f *fakeNotifier) emails() []sentEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentEmail(nil), f.sent...)
}

// fakeImageGen returns a fixed image or error.
type fakeImageGen struct {
	mu      sync.Mutex
	image   *GeneratedImage
	err     error
	prompts []string
}

func (f *fakeImageGen) Generate(ctx context.Context, prompt string) (*GeneratedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return f.image, nil
}

// generatorFunc adapts a closure to ImageGenerator.
type generatorFunc func(ctx context.Context, prompt string) (*GeneratedImage, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (*GeneratedImage, error) {
	return f(ctx, prompt)
}
