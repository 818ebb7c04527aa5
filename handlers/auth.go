package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/tokenauth/auth-service/internal/config"
	"github.com/tokenauth/auth-service/internal/sessions"
	"github.com/tokenauth/auth-service/internal/tokens"
	"github.com/tokenauth/auth-service/internal/users"
	"github.com/tokenauth/auth-service/pkg/logger"
	"github.com/tokenauth/auth-service/pkg/metrics"
	"github.com/tokenauth/auth-service/pkg/response"
)

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg      *config.Config
	usersSvc *users.Service
	tokens   *tokens.Manager
	cookies  *sessions.Cookies
}

func NewAuthHandler(cfg *config.Config, u *users.Service, tm *tokens.Manager) *AuthHandler {
	return &AuthHandler{cfg: cfg, usersSvc: u, tokens: tm, cookies: sessions.NewCookies(cfg)}
}

// Mount registers routes under /auth. guard protects profile and logout.
// limits (rate limiting) wrap every route; on the protected routes they run
// after guard so they can key on the authenticated user.
func (h *AuthHandler) Mount(rg *gin.RouterGroup, guard gin.HandlerFunc, limits ...gin.HandlerFunc) {
	a := rg.Group("/auth")

	open := a.Group("", limits...)
	open.POST("/register", h.Register)
	open.POST("/login", h.Login)
	open.POST("/refresh", h.Refresh)

	protected := a.Group("", append([]gin.HandlerFunc{guard}, limits...)...)
	protected.GET("/profile", h.Profile)
	protected.POST("/logout", h.Logout)
}

// Register creates an account. No tokens are issued.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Validate() != nil {
		metrics.Auth("register", "validation")
		response.Error(c, http.StatusBadRequest, "All fields required", response.CodeValidation)
		return
	}

	u, err := h.usersSvc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			metrics.Auth("register", "duplicate")
			response.Error(c, http.StatusBadRequest, "Email already registered", response.CodeDuplicate)
			return
		}
		logger.Errorf("register: %v", err)
		metrics.Auth("register", "error")
		response.Error(c, http.StatusInternalServerError, "Registration failed", response.CodeInternal)
		return
	}

	logger.Debugf("register: created user %s", u.ID)
	metrics.Auth("register", "success")
	response.OK(c, http.StatusCreated, "User registered successfully", gin.H{"user": u.Public()})
}

// Login checks credentials, stores the new refresh token on the user and
// sets both session cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Validate() != nil {
		metrics.Auth("login", "validation")
		response.Error(c, http.StatusBadRequest, "Email and password required", response.CodeValidation)
		return
	}

	ctx := c.Request.Context()
	u, err := h.usersSvc.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			metrics.Auth("login", "invalid_credentials")
			response.Error(c, http.StatusUnauthorized, "Invalid credentials", response.CodeInvalidCredentials)
			return
		}
		h.fail(c, "login", "Login failed", err)
		return
	}

	pair, err := h.tokens.Issue(u.ID, u.Email)
	if err != nil {
		h.fail(c, "login", "Login failed", err)
		return
	}
	if err := h.usersSvc.StoreRefreshToken(ctx, u.ID, pair.RefreshToken); err != nil {
		h.fail(c, "login", "Login failed", err)
		return
	}

	h.cookies.SetPair(c.Writer, pair.AccessToken, pair.RefreshToken)
	metrics.Auth("login", "success")
	response.OK(c, http.StatusOK, "Login successful", gin.H{"user": u.Public()})
}

// Refresh exchanges the refresh cookie for a new access token. With
// rotation enabled the refresh token is replaced as well.
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw := sessions.RefreshToken(c.Request)
	if raw == "" {
		metrics.Auth("refresh", "no_token")
		response.Error(c, http.StatusUnauthorized, "Refresh token required", response.CodeNoRefreshToken)
		return
	}

	claims, err := h.tokens.VerifyRefresh(raw)
	if err != nil {
		kind, ok := tokens.KindOf(err)
		switch {
		case ok && kind == tokens.KindExpired:
			metrics.Auth("refresh", "expired")
			response.Error(c, http.StatusUnauthorized, "Refresh token expired. Please login again.", response.CodeRefreshTokenExpired)
		case ok && kind == tokens.KindInvalid:
			h.invalidRefresh(c)
		default:
			h.fail(c, "refresh", "Token refresh failed", err)
		}
		return
	}

	ctx := c.Request.Context()
	u, err := h.usersSvc.CheckRefreshToken(ctx, claims.UserID, raw)
	if err != nil {
		if errors.Is(err, users.ErrRefreshTokenMismatch) {
			h.invalidRefresh(c)
			return
		}
		h.fail(c, "refresh", "Token refresh failed", err)
		return
	}

	access, _, err := h.tokens.IssueAccess(u.ID, u.Email)
	if err != nil {
		h.fail(c, "refresh", "Token refresh failed", err)
		return
	}

	if h.cfg.JWT.RotateRefreshToken {
		next, _, err := h.tokens.IssueRefresh(u.ID, u.Email)
		if err != nil {
			h.fail(c, "refresh", "Token refresh failed", err)
			return
		}
		if err := h.usersSvc.RotateRefreshToken(ctx, u.ID, raw, next); err != nil {
			if errors.Is(err, users.ErrRefreshTokenMismatch) {
				h.invalidRefresh(c)
				return
			}
			h.fail(c, "refresh", "Token refresh failed", err)
			return
		}
		h.cookies.SetRefresh(c.Writer, next)
	}

	h.cookies.SetAccess(c.Writer, access)
	metrics.Auth("refresh", "success")
	response.OK(c, http.StatusOK, "Access token refreshed", nil)
}

// Profile returns the authenticated user.
func (h *AuthHandler) Profile(c *gin.Context) {
	id, ok := tokens.IdentityFrom(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Access token required", response.CodeNoAccessToken)
		return
	}

	u, err := h.usersSvc.GetByID(c.Request.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			metrics.Auth("profile", "not_found")
			response.Error(c, http.StatusNotFound, "User not found", response.CodeNotFound)
			return
		}
		h.fail(c, "profile", "Failed to fetch profile", err)
		return
	}

	metrics.Auth("profile", "success")
	response.OK(c, http.StatusOK, "", gin.H{"user": u.Profile()})
}

// Logout clears the stored refresh token and both cookies. The access token
// stays valid until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	if id, ok := tokens.IdentityFrom(c.Request.Context()); ok {
		err := h.usersSvc.RevokeRefreshToken(c.Request.Context(), id.UserID)
		if err != nil && !errors.Is(err, users.ErrNotFound) {
			h.fail(c, "logout", "Logout failed", err)
			return
		}
	}

	h.cookies.Clear(c.Writer)
	metrics.Auth("logout", "success")
	response.OK(c, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) invalidRefresh(c *gin.Context) {
	metrics.Auth("refresh", "invalid")
	response.Error(c, http.StatusUnauthorized, "Invalid refresh token", response.CodeInvalidRefreshToken)
}

// fail logs the cause and answers with the flow's generic 500 message.
func (h *AuthHandler) fail(c *gin.Context, flow, message string, err error) {
	logger.Errorf("%s: %v", flow, err)
	metrics.Auth(flow, "error")
	response.Error(c, http.StatusInternalServerError, message, response.CodeInternal)
}
