// Package token issues and verifies the signed, purpose-scoped tokens used
// for API access and email confirmation. Tokens are stateless: subject,
// purpose and expiry travel inside the signed payload, nothing is persisted.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose scopes a token to a single use. A confirmation token (long-lived,
// sent over email) must never be accepted as an access credential.
type Purpose string

const (
	PurposeAccess       Purpose = "access"
	PurposeConfirmation Purpose = "confirmation"
)

var (
	ErrExpired        = errors.New("token has expired")
	ErrInvalidPurpose = errors.New("token purpose mismatch")
	ErrMalformed      = errors.New("token is malformed")
)

type Service struct {
	secret        []byte
	accessExpiry  time.Duration
	confirmExpiry time.Duration
	now           func() time.Time
}

func NewService(secret string, accessExpiry, confirmExpiry time.Duration) *Service {
	return &Service{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		confirmExpiry: confirmExpiry,
		now:           time.Now,
	}
}

// Issue creates a signed token for the subject with a purpose-specific
// lifetime. Stateless; no side effects beyond token construction.
func (s *Service) Issue(subject string, purpose Purpose) (string, error) {
	expiry := s.accessExpiry
	if purpose == PurposeConfirmation {
		expiry = s.confirmExpiry
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub":     subject,
		"purpose": string(purpose),
		"exp":     now.Add(expiry).Unix(),
		"iat":     now.Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature, expiry and purpose and returns the subject.
// Expiry is evaluated against the current time on every call; verifying the
// same token twice before expiry yields the same subject.
func (s *Service) Verify(tokenString string, expected Purpose) (string, error) {
	parsed, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrMalformed
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", ErrMalformed
	}

	purpose, ok := claims["purpose"].(string)
	if !ok {
		return "", ErrMalformed
	}
	if Purpose(purpose) != expected {
		return "", ErrInvalidPurpose
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", ErrMalformed
	}

	return subject, nil
}
