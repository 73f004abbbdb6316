package repository

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/critterpost/critterpost/internal/model"
)

type LikeRepository interface {
	Create(like *model.Like) error
	ByPost(postID int64) ([]model.Like, error)
}

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Create inserts a like. There is no uniqueness check: the same user may
// like the same post multiple times (current behavior).
func (r *likeRepository) Create(like *model.Like) error {
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now()
	}

	query := `INSERT INTO likes (post_id, user_id, created_at) VALUES ($1, $2, $3) RETURNING id`

	return r.db.Get(&like.ID, query, like.PostID, like.UserID, like.CreatedAt)
}

func (r *likeRepository) ByPost(postID int64) ([]model.Like, error) {
	likes := []model.Like{}
	query := `SELECT * FROM likes WHERE post_id = $1 ORDER BY id ASC`

	err := r.db.Select(&likes, query, postID)
	return likes, err
}
