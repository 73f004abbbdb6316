package model

import (
	"time"
)

type Post struct {
	ID        int64     `db:"id" json:"id"`
	Body      string    `db:"body" json:"body"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ImageURL  *string   `db:"image_url" json:"image_url"` // Set at most once by the enrichment job
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PostWithLikes is a Post joined with its like count for list views.
type PostWithLikes struct {
	Post
	Likes int64 `db:"likes" json:"likes"`
}

// PostWithComments is the detail view: post, like count and all comments.
type PostWithComments struct {
	Post     PostWithLikes `json:"post"`
	Comments []Comment     `json:"comments"`
}

// PostSorting selects the order of the post list endpoint.
type PostSorting string

const (
	SortNew       PostSorting = "new"
	SortOld       PostSorting = "old"
	SortMostLikes PostSorting = "most_likes"
)

func ParsePostSorting(s string) (PostSorting, bool) {
	switch PostSorting(s) {
	case SortNew, SortOld, SortMostLikes:
		return PostSorting(s), true
	case "":
		return SortNew, true
	}
	return "", false
}
