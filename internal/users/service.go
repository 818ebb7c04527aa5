package users

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tokenauth/auth-service/internal/models"
	"github.com/tokenauth/auth-service/internal/password"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRefreshTokenMismatch means the presented refresh token is not the one
	// currently stored for the user (superseded, revoked, or unknown user).
	ErrRefreshTokenMismatch = errors.New("refresh token does not match stored token")
)

// Hasher is the password hashing primitive used by the service.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Service encapsulates credential and stored-refresh-token logic.
type Service struct {
	repo   Repository
	hasher Hasher
}

func NewService(r Repository, h Hasher) *Service {
	return &Service{repo: r, hasher: h}
}

// Register creates a user with a hashed password. Emails are compared as
// stored, without case folding.
func (s *Service) Register(ctx context.Context, name, email, plain string) (*models.User, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate returns the user owning email when plain matches its hash.
func (s *Service) Authenticate(ctx context.Context, email, plain string) (*models.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(u.PasswordHash, plain); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// StoreRefreshToken overwrites the user's refresh token; any previously
// issued refresh token stops being accepted.
func (s *Service) StoreRefreshToken(ctx context.Context, userID, token string) error {
	return s.repo.SetRefreshToken(ctx, userID, &token)
}

// RevokeRefreshToken clears the stored refresh token.
func (s *Service) RevokeRefreshToken(ctx context.Context, userID string) error {
	return s.repo.SetRefreshToken(ctx, userID, nil)
}

// CheckRefreshToken loads the user and confirms token is the one on record.
func (s *Service) CheckRefreshToken(ctx context.Context, userID, token string) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil || u.RefreshToken == nil ||
		subtle.ConstantTimeCompare([]byte(*u.RefreshToken), []byte(token)) != 1 {
		return nil, ErrRefreshTokenMismatch
	}
	return u, nil
}

// RotateRefreshToken replaces presented with next, failing if another
// request already replaced or revoked presented.
func (s *Service) RotateRefreshToken(ctx context.Context, userID, presented, next string) error {
	ok, err := s.repo.SwapRefreshToken(ctx, userID, presented, next)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRefreshTokenMismatch
	}
	return nil
}
