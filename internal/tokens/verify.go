package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind classifies a verification failure.
type Kind int

const (
	// KindInvalid covers malformed tokens, bad signatures and bad claims.
	KindInvalid Kind = iota + 1
	// KindExpired means the signature checked out but exp has passed.
	KindExpired
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindExpired:
		return "expired"
	}
	return "unknown"
}

// VerifyError is returned by Verify for every rejected token.
type VerifyError struct {
	Kind Kind
	Err  error
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("token %s: %v", e.Kind, e.Err)
}

func (e *VerifyError) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from err. ok is false when err did not
// come from token verification.
func KindOf(err error) (kind Kind, ok bool) {
	var ve *VerifyError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	return 0, false
}

var errMissingUser = errors.New("token has no userId claim")

// Verify checks the signature of raw against secret and its expiry against
// now. A token is expired from the exact second of its exp claim onward.
func Verify(raw string, secret []byte, now time.Time) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &VerifyError{Kind: KindExpired, Err: err}
		}
		return nil, &VerifyError{Kind: KindInvalid, Err: err}
	}
	if claims.UserID == "" {
		return nil, &VerifyError{Kind: KindInvalid, Err: errMissingUser}
	}
	return claims, nil
}
