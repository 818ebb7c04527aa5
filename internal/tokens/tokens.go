package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tokenauth/auth-service/internal/config"
)

// Claims is the payload carried by both access and refresh tokens.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Identity returns the caller identity encoded in the claims.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email}
}

// Pair is a freshly issued access/refresh token pair.
type Pair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Manager issues and verifies HS256 tokens. Access and refresh tokens are
// signed with different secrets so one can never be accepted as the other.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

type Option func(*Manager)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(cfg *config.Config, opts ...Option) *Manager {
	m := &Manager{
		accessSecret:  []byte(cfg.JWT.AccessSecret),
		refreshSecret: []byte(cfg.JWT.RefreshSecret),
		accessTTL:     cfg.JWT.AccessTokenTTL,
		refreshTTL:    cfg.JWT.RefreshTokenTTL,
		now:           time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// AccessTTL is the lifetime of issued access tokens.
func (m *Manager) AccessTTL() time.Duration { return m.accessTTL }

// RefreshTTL is the lifetime of issued refresh tokens.
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

// Issue creates a new access/refresh pair for the user.
func (m *Manager) Issue(userID, email string) (*Pair, error) {
	now := m.now()
	id := Identity{UserID: userID, Email: email}
	access, accessExp, err := Sign(id, m.accessSecret, m.accessTTL, now)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := Sign(id, m.refreshSecret, m.refreshTTL, now)
	if err != nil {
		return nil, err
	}
	return &Pair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// IssueAccess creates an access token only.
func (m *Manager) IssueAccess(userID, email string) (string, time.Time, error) {
	return Sign(Identity{UserID: userID, Email: email}, m.accessSecret, m.accessTTL, m.now())
}

// IssueRefresh creates a refresh token only.
func (m *Manager) IssueRefresh(userID, email string) (string, time.Time, error) {
	return Sign(Identity{UserID: userID, Email: email}, m.refreshSecret, m.refreshTTL, m.now())
}

// VerifyAccess validates a token against the access secret.
func (m *Manager) VerifyAccess(raw string) (*Claims, error) {
	return Verify(raw, m.accessSecret, m.now())
}

// VerifyRefresh validates a token against the refresh secret.
func (m *Manager) VerifyRefresh(raw string) (*Claims, error) {
	return Verify(raw, m.refreshSecret, m.now())
}

// Sign creates a signed token for id that expires ttl after now. Every token
// gets a random jti so two tokens minted in the same second differ.
func Sign(id Identity, secret []byte, ttl time.Duration, now time.Time) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := Claims{
		UserID: id.UserID,
		Email:  id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := jt.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
