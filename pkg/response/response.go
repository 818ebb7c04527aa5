// Package response holds the JSON envelopes and error codes shared by
// handlers and middleware.
package response

import (
	"github.com/gin-gonic/gin"
)

// Error codes returned in the "code" field.
const (
	CodeValidation          = "VALIDATION"
	CodeDuplicate           = "DUPLICATE"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeNoAccessToken       = "NO_ACCESS_TOKEN"
	CodeAccessTokenExpired  = "ACCESS_TOKEN_EXPIRED"
	CodeInvalidAccessToken  = "INVALID_ACCESS_TOKEN"
	CodeAuthError           = "AUTH_ERROR"
	CodeNoRefreshToken      = "NO_REFRESH_TOKEN"
	CodeRefreshTokenExpired = "REFRESH_TOKEN_EXPIRED"
	CodeInvalidRefreshToken = "INVALID_REFRESH_TOKEN"
	CodeNotFound            = "NOT_FOUND"
	CodeInternal            = "INTERNAL"
	CodeRateLimited         = "RATE_LIMITED"
)

func errorBody(message, code string) gin.H {
	body := gin.H{"success": false, "error": message}
	if code != "" {
		body["code"] = code
	}
	return body
}

// Error writes {success:false, error, code}.
func Error(c *gin.Context, status int, message, code string) {
	c.JSON(status, errorBody(message, code))
}

// Abort is Error for middleware: it also stops the handler chain.
func Abort(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, errorBody(message, code))
}

// OK writes {success:true, message?} merged with payload.
func OK(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}
