package repository

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/critterpost/critterpost/internal/model"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	ByPost(postID int64) ([]model.Comment, error)
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	query := `INSERT INTO comments (body, post_id, user_id, created_at) VALUES ($1, $2, $3, $4) RETURNING id`

	return r.db.Get(&comment.ID, query, comment.Body, comment.PostID, comment.UserID, comment.CreatedAt)
}

func (r *commentRepository) ByPost(postID int64) ([]model.Comment, error) {
	comments := []model.Comment{}
	query := `SELECT * FROM comments WHERE post_id = $1 ORDER BY id ASC`

	err := r.db.Select(&comments, query, postID)
	return comments, err
}
