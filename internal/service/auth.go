package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/critterpost/critterpost/internal/model"
	"github.com/critterpost/critterpost/internal/repository"
	"github.com/critterpost/critterpost/internal/task"
	"github.com/critterpost/critterpost/internal/token"
	"github.com/critterpost/critterpost/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("a user with that email already exists")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPassword    = errors.New("invalid password")
)

// RegistrationNotifier is the slice of the email service registration needs.
type RegistrationNotifier interface {
	SendRegistrationEmail(ctx context.Context, to, confirmationURL string) error
}

type AuthService struct {
	users  repository.UserRepository
	tokens *token.Service
	emails RegistrationNotifier
	queue  *task.Queue
	appURL string
}

func NewAuthService(users repository.UserRepository, tokens *token.Service, emails RegistrationNotifier, queue *task.Queue, appURL string) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		emails: emails,
		queue:  queue,
		appURL: appURL,
	}
}

// Register creates an unconfirmed user and schedules the confirmation email.
// The email carries a confirmation-purpose token; it is sent after the
// response, so a slow provider never blocks registration.
func (s *AuthService) Register(email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
	}

	err = s.users.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	confirmation, err := s.tokens.Issue(user.Email, token.PurposeConfirmation)
	if err != nil {
		return nil, fmt.Errorf("failed to issue confirmation token: %w", err)
	}
	confirmationURL := fmt.Sprintf("%s/confirm/%s", s.appURL, confirmation)

	s.queue.Enqueue(task.Func{
		TaskName: "user.registration_email",
		Fn: func(ctx context.Context) error {
			return s.emails.SendRegistrationEmail(ctx, user.Email, confirmationURL)
		},
	})

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login checks credentials and returns a short-lived access token.
func (s *AuthService) Login(email, password string) (string, error) {
	email = strings.TrimSpace(email)

	user, err := s.users.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if !user.Confirmed {
		return "", ErrEmailNotConfirmed
	}

	return s.tokens.Issue(user.Email, token.PurposeAccess)
}

// ConfirmEmail verifies a confirmation-purpose token and marks the user
// confirmed. Confirming twice is harmless.
func (s *AuthService) ConfirmEmail(tokenString string) error {
	email, err := s.tokens.Verify(tokenString, token.PurposeConfirmation)
	if err != nil {
		return err
	}

	err = s.users.Confirm(email)
	if err != nil {
		return fmt.Errorf("failed to confirm user: %w", err)
	}

	slog.Info("user confirmed", "email", email)
	return nil
}

// UserFromAccessToken resolves the user behind a verified access token.
// Token errors pass through unchanged so the HTTP layer can map them to 401.
func (s *AuthService) UserFromAccessToken(tokenString string) (*model.User, error) {
	email, err := s.tokens.Verify(tokenString, token.PurposeAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.users.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, token.ErrMalformed
		}
		return nil, err
	}

	return user, nil
}
