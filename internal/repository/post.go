package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/critterpost/critterpost/internal/model"
)

type PostRepository interface {
	Create(post *model.Post) error
	ByID(id int64) (*model.Post, error)
	ByIDWithLikes(id int64) (*model.PostWithLikes, error)
	ListWithLikes(sorting model.PostSorting) ([]model.PostWithLikes, error)
	SetImageURL(id int64, imageURL string) error
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

const selectPostsWithLikes = `
	SELECT p.*, COUNT(l.id) AS likes
	FROM posts p
	LEFT JOIN likes l ON l.post_id = p.id
	GROUP BY p.id
`

func (r *postRepository) Create(post *model.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	query := `INSERT INTO posts (body, user_id, image_url, created_at) VALUES ($1, $2, $3, $4) RETURNING id`

	return r.db.Get(&post.ID, query, post.Body, post.UserID, post.ImageURL, post.CreatedAt)
}

func (r *postRepository) ByID(id int64) (*model.Post, error) {
	post := &model.Post{}
	query := `SELECT * FROM posts WHERE id = $1`

	err := r.db.Get(post, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}

	return post, err
}

func (r *postRepository) ByIDWithLikes(id int64) (*model.PostWithLikes, error) {
	post := &model.PostWithLikes{}
	query := `
		SELECT p.*, COUNT(l.id) AS likes
		FROM posts p
		LEFT JOIN likes l ON l.post_id = p.id
		WHERE p.id = $1
		GROUP BY p.id
	`

	err := r.db.Get(post, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}

	return post, err
}

func (r *postRepository) ListWithLikes(sorting model.PostSorting) ([]model.PostWithLikes, error) {
	query := selectPostsWithLikes
	switch sorting {
	case model.SortOld:
		query += ` ORDER BY p.id ASC`
	case model.SortMostLikes:
		query += ` ORDER BY likes DESC, p.id DESC`
	default:
		query += ` ORDER BY p.id DESC`
	}

	posts := []model.PostWithLikes{}
	err := r.db.Select(&posts, query)
	return posts, err
}

// SetImageURL writes the generated image URL to a single post.
// Last write wins; only the enrichment job writes this column.
func (r *postRepository) SetImageURL(id int64, imageURL string) error {
	query := `UPDATE posts SET image_url = $1 WHERE id = $2`

	result, err := r.db.Exec(query, imageURL, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPostNotFound
	}

	return nil
}
