package service

import (
	"fmt"
	"log/slog"

	"github.com/critterpost/critterpost/internal/model"
	"github.com/critterpost/critterpost/internal/repository"
	"github.com/critterpost/critterpost/internal/task"
)

type PostService struct {
	posts      repository.PostRepository
	comments   repository.CommentRepository
	likes      repository.LikeRepository
	enrichment *EnrichmentService
	queue      *task.Queue
	appURL     string
}

func NewPostService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	likes repository.LikeRepository,
	enrichment *EnrichmentService,
	queue *task.Queue,
	appURL string,
) *PostService {
	return &PostService{
		posts:      posts,
		comments:   comments,
		likes:      likes,
		enrichment: enrichment,
		queue:      queue,
		appURL:     appURL,
	}
}

// Create inserts a post. When a prompt is supplied, one enrichment job is
// enqueued; it runs after the response and reports back by email only.
func (s *PostService) Create(user *model.User, body, prompt string) (*model.Post, error) {
	post := &model.Post{
		Body:   body,
		UserID: user.ID,
	}

	err := s.posts.Create(post)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if prompt != "" {
		job := EnrichmentJob{
			PostID:     post.ID,
			Prompt:     prompt,
			OwnerEmail: user.Email,
			PostURL:    fmt.Sprintf("%s/post/%d", s.appURL, post.ID),
		}
		s.queue.Enqueue(s.enrichment.Task(job))
		slog.Info("enrichment job enqueued", "post_id", post.ID)
	}

	return post, nil
}

func (s *PostService) List(sorting model.PostSorting) ([]model.PostWithLikes, error) {
	return s.posts.ListWithLikes(sorting)
}

// Get returns the post detail view: post with like count plus its comments.
func (s *PostService) Get(postID int64) (*model.PostWithComments, error) {
	post, err := s.posts.ByIDWithLikes(postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ByPost(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}

	return &model.PostWithComments{
		Post:     *post,
		Comments: comments,
	}, nil
}

// CreateComment checks the post exists before inserting, so a missing post
// surfaces as not-found rather than a constraint failure.
func (s *PostService) CreateComment(user *model.User, postID int64, body string) (*model.Comment, error) {
	_, err := s.posts.ByID(postID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		Body:   body,
		PostID: postID,
		UserID: user.ID,
	}

	err = s.comments.Create(comment)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

func (s *PostService) Comments(postID int64) ([]model.Comment, error) {
	return s.comments.ByPost(postID)
}

// Like records a like. Duplicate likes by the same user are allowed.
func (s *PostService) Like(user *model.User, postID int64) (*model.Like, error) {
	_, err := s.posts.ByID(postID)
	if err != nil {
		return nil, err
	}

	like := &model.Like{
		PostID: postID,
		UserID: user.ID,
	}

	err = s.likes.Create(like)
	if err != nil {
		return nil, fmt.Errorf("failed to create like: %w", err)
	}

	return like, nil
}

func (s *PostService) Likes(postID int64) ([]model.Like, error) {
	_, err := s.posts.ByID(postID)
	if err != nil {
		return nil, err
	}

	return s.likes.ByPost(postID)
}
