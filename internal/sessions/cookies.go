package sessions

import (
	"net/http"
	"time"

	"github.com/tokenauth/auth-service/internal/config"
)

// Cookie names carrying the token pair.
const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

// Cookies writes and reads the session cookies. Both are http-only and
// SameSite=Strict; Secure is set in production.
type Cookies struct {
	Secure     bool
	Path       string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewCookies(cfg *config.Config) *Cookies {
	return &Cookies{
		Secure:     cfg.Server.IsProduction(),
		Path:       "/",
		AccessTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTTL: cfg.JWT.RefreshTokenTTL,
	}
}

func (c *Cookies) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     c.Path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (c *Cookies) SetAccess(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(AccessCookieName, token, int(c.AccessTTL/time.Second)))
}

func (c *Cookies) SetRefresh(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(RefreshCookieName, token, int(c.RefreshTTL/time.Second)))
}

// SetPair sets both cookies.
func (c *Cookies) SetPair(w http.ResponseWriter, access, refresh string) {
	c.SetAccess(w, access)
	c.SetRefresh(w, refresh)
}

// Clear expires both cookies with the same path and flags they were set with.
func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(AccessCookieName, "", -1))
	http.SetCookie(w, c.cookie(RefreshCookieName, "", -1))
}

// AccessToken returns the access cookie value, or "" when absent.
func AccessToken(r *http.Request) string { return value(r, AccessCookieName) }

// RefreshToken returns the refresh cookie value, or "" when absent.
func RefreshToken(r *http.Request) string { return value(r, RefreshCookieName) }

func value(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
