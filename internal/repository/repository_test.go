package repository

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/critterpost/critterpost/internal/db"
	"github.com/critterpost/critterpost/internal/model"
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

func createTestUser(t *testing.T, users UserRepository, email string) *model.User {
	t.Helper()

	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
	}
	err := users.Create(user)
	require.NoError(t, err)

	return user
}

func createTestPost(t *testing.T, posts PostRepository, userID int64, body string) *model.Post {
	t.Helper()

	post := &model.Post{
		Body:   body,
		UserID: userID,
	}
	err := posts.Create(post)
	require.NoError(t, err)

	return post
}
