package users

import (
	"context"
	"errors"

	"github.com/tokenauth/auth-service/internal/models"
)

var (
	// ErrEmailTaken is returned when a user with the same email already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNotFound is returned when the user row does not exist.
	ErrNotFound = errors.New("user not found")
)

// Repository defines persistence operations for users. Lookups return
// (nil, nil) when no user matches.
type Repository interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// SetRefreshToken overwrites the stored refresh token; nil clears it.
	SetRefreshToken(ctx context.Context, id string, token *string) error
	// SwapRefreshToken replaces the stored token only if it still equals
	// current. It reports whether the swap happened.
	SwapRefreshToken(ctx context.Context, id, current, next string) (bool, error)
}
