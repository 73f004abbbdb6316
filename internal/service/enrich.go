package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/critterpost/critterpost/internal/repository"
	"github.com/critterpost/critterpost/internal/task"
)

// ImageGenerator is the slice of the image gateway the enrichment job needs.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (*GeneratedImage, error)
}

// EnrichmentNotifier is the slice of the email service the enrichment job needs.
type EnrichmentNotifier interface {
	SendImageFailedEmail(ctx context.Context, to string) error
	SendImageReadyEmail(ctx context.Context, to, postURL string) error
}

// EnrichmentJob describes one deferred image generation for a freshly
// created post. At most one job exists per post creation; the client never
// learns the outcome synchronously, only via email.
type EnrichmentJob struct {
	PostID     int64
	Prompt     string
	OwnerEmail string
	PostURL    string
}

// EnrichmentService runs the deferred post-enrichment pipeline:
// generate -> write image_url -> notify. At-most-once; no retry.
type EnrichmentService struct {
	images ImageGenerator
	posts  repository.PostRepository
	emails EnrichmentNotifier
}

func NewEnrichmentService(images ImageGenerator, posts repository.PostRepository, emails EnrichmentNotifier) *EnrichmentService {
	return &EnrichmentService{
		images: images,
		posts:  posts,
		emails: emails,
	}
}

// Task wraps a job for the task queue.
func (s *EnrichmentService) Task(job EnrichmentJob) task.Task {
	return task.Func{
		TaskName: "post.enrich",
		Fn: func(ctx context.Context) error {
			return s.Run(ctx, job)
		},
	}
}

// Run executes one enrichment job.
//
// On generation failure the post keeps a null image_url permanently and the
// owner gets exactly one generic failure email. If that email itself fails to
// send, the error is logged and swallowed: the job runs detached, so there is
// nobody left to escalate to.
func (s *EnrichmentService) Run(ctx context.Context, job EnrichmentJob) error {
	image, err := s.images.Generate(ctx, job.Prompt)
	if err != nil {
		slog.Warn("image generation failed", "post_id", job.PostID, "error", err)

		err = s.emails.SendImageFailedEmail(ctx, job.OwnerEmail)
		if err != nil {
			slog.Error("failed to send image failure notification", "post_id", job.PostID, "to", job.OwnerEmail, "error", err)
		}
		return nil
	}

	err = s.posts.SetImageURL(job.PostID, image.OutputURL)
	if err != nil {
		return fmt.Errorf("failed to attach image to post %d: %w", job.PostID, err)
	}

	err = s.emails.SendImageReadyEmail(ctx, job.OwnerEmail, job.PostURL)
	if err != nil {
		return fmt.Errorf("failed to send image ready notification: %w", err)
	}

	slog.Info("post enriched", "post_id", job.PostID, "image_url", image.OutputURL)
	return nil
}
