package model

import (
	"time"
)

type Comment struct {
	ID        int64     `db:"id" json:"id"`
	Body      string    `db:"body" json:"body"`
	PostID    int64     `db:"post_id" json:"post_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
