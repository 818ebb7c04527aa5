package tokens

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/tokenauth/auth-service/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = "access-secret-32-bytes-should-be-long"
	cfg.JWT.RefreshSecret = "refresh-secret-32-bytes-should-be-long"
	cfg.JWT.AccessTokenTTL = 15 * time.Minute
	cfg.JWT.RefreshTokenTTL = 7 * 24 * time.Hour
	return cfg
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestManager() (*Manager, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewManager(testConfig(), WithClock(clock.Now)), clock
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	m, clock := newTestManager()

	pair, err := m.Issue("user-123", "test@example.com")
	require.NoError(t, err)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	require.Equal(t, clock.now.Add(15*time.Minute), pair.AccessExpiresAt)
	require.Equal(t, clock.now.Add(7*24*time.Hour), pair.RefreshExpiresAt)

	ac, err := m.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, Identity{UserID: "user-123", Email: "test@example.com"}, ac.Identity())

	rc, err := m.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, "user-123", rc.UserID)
	require.Equal(t, "test@example.com", rc.Email)
}

func TestVerify_SecretsAreNotInterchangeable(t *testing.T) {
	m, _ := newTestManager()
	pair, err := m.Issue("u1", "u1@example.com")
	require.NoError(t, err)

	_, err = m.VerifyRefresh(pair.AccessToken)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindInvalid, kind)

	_, err = m.VerifyAccess(pair.RefreshToken)
	kind, ok = KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindInvalid, kind)
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	m, clock := newTestManager()
	issuedAt := clock.now
	access, _, err := m.IssueAccess("u2", "x@x")
	require.NoError(t, err)

	clock.now = issuedAt.Add(15*time.Minute - time.Second)
	_, err = m.VerifyAccess(access)
	require.NoError(t, err)

	clock.now = issuedAt.Add(15 * time.Minute)
	_, err = m.VerifyAccess(access)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindExpired, kind)
	require.True(t, errors.Is(err, jwt.ErrTokenExpired))

	clock.now = issuedAt.Add(time.Hour)
	_, err = m.VerifyAccess(access)
	kind, _ = KindOf(err)
	require.Equal(t, KindExpired, kind)
}

func TestVerify_ExpiredWithWrongSecretIsInvalid(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tok, _, err := Sign(Identity{UserID: "u3"}, []byte("secret-one-32-bytes-xxxxxxxxxxxxxxxx"), time.Minute, now)
	require.NoError(t, err)

	_, err = Verify(tok, []byte("different-secret-xxxxxxxxxxxxxxxx"), now.Add(time.Hour))
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindInvalid, kind)
}

func TestVerify_Malformed(t *testing.T) {
	for _, raw := range []string{"", "not.a.jwt", "garbage"} {
		_, err := Verify(raw, []byte("x"), time.Now())
		kind, ok := KindOf(err)
		require.True(t, ok, raw)
		require.Equal(t, KindInvalid, kind, raw)
	}
}

func TestVerify_AlgNoneRejected(t *testing.T) {
	headerEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payloadEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"userId":"u-none","exp":9999999999}`))
	tok := headerEnc + "." + payloadEnc + "."

	_, err := Verify(tok, []byte("x"), time.Now())
	kind, _ := KindOf(err)
	require.Equal(t, KindInvalid, kind)
}

func TestVerify_TamperedPayload(t *testing.T) {
	secret := []byte("tamper-test-secret-32-bytes-xxxxxxx")
	now := time.Now()
	tok, _, err := Sign(Identity{UserID: "user-t", Email: "t@example.com"}, secret, 5*time.Minute, now)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(strings.Replace(string(payload), "user-t", "attacker", 1)))

	_, err = Verify(strings.Join(parts, "."), secret, now)
	kind, _ := KindOf(err)
	require.Equal(t, KindInvalid, kind)
}

func TestVerify_MissingUserID(t *testing.T) {
	secret := []byte("missing-user-secret-xxxxxxxxxxxxxxx")
	now := time.Now()
	tok, _, err := Sign(Identity{Email: "nobody@example.com"}, secret, time.Minute, now)
	require.NoError(t, err)

	_, err = Verify(tok, secret, now)
	kind, _ := KindOf(err)
	require.Equal(t, KindInvalid, kind)
}

func TestIssue_TokensAreUniqueWithinSameSecond(t *testing.T) {
	m, _ := newTestManager()
	a, err := m.Issue("u4", "u4@example.com")
	require.NoError(t, err)
	b, err := m.Issue("u4", "u4@example.com")
	require.NoError(t, err)
	require.NotEqual(t, a.RefreshToken, b.RefreshToken)
	require.NotEqual(t, a.AccessToken, b.AccessToken)
}

func TestKindOf_ForeignError(t *testing.T) {
	_, ok := KindOf(errors.New("boom"))
	require.False(t, ok)
	require.Equal(t, "expired", KindExpired.String())
	require.Equal(t, "invalid", KindInvalid.String())
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	require.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: "u5", Email: "u5@example.com"})
	id, ok := IdentityFrom(ctx)
	require.True(t, ok)
	require.Equal(t, "u5", id.UserID)
}
