package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nz1manager/ielts-backend/internal/config"
	"github.com/nz1manager/ielts-backend/internal/oauth"
	"github.com/nz1manager/ielts-backend/internal/users"
	"github.com/nz1manager/ielts-backend/pkg/logger"
	"github.com/nz1manager/ielts-backend/pkg/metrics"
)

// VerifyTokenRequest is the body of the direct ID-token login endpoint.
type VerifyTokenRequest struct {
	Token string `json:"token"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg      *config.Config
	provider oauth.Provider
	verifier oauth.TokenVerifier
	usersSvc *users.Service
}

func NewAuthHandler(cfg *config.Config, p oauth.Provider, v oauth.TokenVerifier, u *users.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, provider: p, verifier: v, usersSvc: u}
}

// Register routes. The redirect flow needs a provider; the token flow only
// needs a verifier, so each is registered when its dependency is present.
func (h *AuthHandler) Register(r *gin.Engine) {
	if h.provider != nil {
		r.GET("/auth/google", h.Begin)
		r.GET("/auth/google/callback", h.Callback)
	}
	r.POST("/api/auth/google", h.VerifyToken)
}

// Begin redirects the browser to Google's consent screen.
func (h *AuthHandler) Begin(c *gin.Context) {
	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(""))
}

// Callback completes the authorization-code flow. This endpoint answers a
// browser mid-redirect, so every failure is swallowed into an error redirect
// back to the front-end rather than a raw error body.
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		metrics.LoginAttempts.WithLabelValues("callback", "no_code").Inc()
		h.redirectError(c, "no_code")
		return
	}

	ctx := c.Request.Context()
	token, err := h.provider.Exchange(ctx, code)
	if err != nil {
		logger.Errorf("code exchange failed: %v", err)
		metrics.LoginAttempts.WithLabelValues("callback", "auth_failed").Inc()
		h.redirectError(c, "auth_failed")
		return
	}

	identity, err := h.provider.FetchUserInfo(ctx, token)
	if err != nil {
		logger.Errorf("userinfo fetch failed: %v", err)
		metrics.LoginAttempts.WithLabelValues("callback", "auth_failed").Inc()
		h.redirectError(c, "auth_failed")
		return
	}

	u, isNew, err := h.usersSvc.Login(ctx, identity)
	if err != nil {
		logger.Errorf("user upsert failed for sub=%s: %v", identity.Sub, err)
		metrics.LoginAttempts.WithLabelValues("callback", "store_failed").Inc()
		h.redirectError(c, "auth_failed")
		return
	}

	metrics.LoginAttempts.WithLabelValues("callback", "success").Inc()
	if isNew {
		metrics.UsersCreated.Inc()
	}

	params := url.Values{}
	params.Set("login", "success")
	params.Set("isNew", strconv.FormatBool(isNew))
	params.Set("id", strconv.FormatInt(u.ID, 10))
	if name := u.FullName(); name != "" {
		params.Set("name", name)
	}
	c.Redirect(http.StatusFound, h.frontendBase()+"/?"+params.Encode())
}

// VerifyToken validates a Google ID token supplied directly by the client
// (token-verification variant used by single-page front-ends).
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	if h.verifier == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "token verification not configured"})
		return
	}
	var req VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing token"})
		return
	}

	tok, err := h.verifier.Verify(c.Request.Context(), req.Token)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("token", "auth_failed").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
		return
	}
	identity, err := oauth.IdentityFromToken(tok)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("token", "auth_failed").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
		return
	}

	u, isNew, err := h.usersSvc.Login(c.Request.Context(), identity)
	if err != nil {
		logger.Errorf("user upsert failed for sub=%s: %v", identity.Sub, err)
		metrics.LoginAttempts.WithLabelValues("token", "store_failed").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "user upsert failed"})
		return
	}

	metrics.LoginAttempts.WithLabelValues("token", "success").Inc()
	if isNew {
		metrics.UsersCreated.Inc()
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":      u.ID,
			"email":   u.Email,
			"name":    u.FullName(),
			"picture": u.AvatarURL,
			"isNew":   isNew,
		},
	})
}

func (h *AuthHandler) frontendBase() string {
	return strings.TrimRight(h.cfg.Frontend.BaseURL, "/")
}

func (h *AuthHandler) redirectError(c *gin.Context, code string) {
	c.Redirect(http.StatusFound, h.frontendBase()+"/?error="+code)
}
