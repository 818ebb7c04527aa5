package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tokenauth/auth-service/internal/sessions"
	"github.com/tokenauth/auth-service/internal/tokens"
	"github.com/tokenauth/auth-service/pkg/logger"
	"github.com/tokenauth/auth-service/pkg/metrics"
	"github.com/tokenauth/auth-service/pkg/response"
)

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	VerifyAccess(raw string) (*tokens.Claims, error)
}

// AuthMiddleware returns a Gin middleware that admits requests carrying a
// valid access token cookie and attaches the caller's identity to the
// request context.
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := sessions.AccessToken(c.Request)
		if raw == "" {
			metrics.Auth("guard", "no_token")
			response.Abort(c, http.StatusUnauthorized, "Access token required", response.CodeNoAccessToken)
			return
		}

		claims, err := ver.VerifyAccess(raw)
		if err != nil {
			kind, ok := tokens.KindOf(err)
			switch {
			case ok && kind == tokens.KindExpired:
				metrics.Auth("guard", "expired")
				response.Abort(c, http.StatusUnauthorized, "Access token expired. Use refresh token.", response.CodeAccessTokenExpired)
			case ok && kind == tokens.KindInvalid:
				metrics.Auth("guard", "invalid")
				response.Abort(c, http.StatusUnauthorized, "Invalid access token", response.CodeInvalidAccessToken)
			default:
				logger.Errorf("auth middleware: verify access token: %v", err)
				metrics.Auth("guard", "error")
				response.Abort(c, http.StatusInternalServerError, "Authentication failed", response.CodeAuthError)
			}
			return
		}

		c.Request = c.Request.WithContext(tokens.WithIdentity(c.Request.Context(), claims.Identity()))
		c.Next()
	}
}
