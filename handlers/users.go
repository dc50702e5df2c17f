package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nz1manager/ielts-backend/internal/users"
	"github.com/nz1manager/ielts-backend/pkg/logger"
)

// CompleteProfileRequest is the payload the front-end posts after the user
// fills in the remaining profile fields.
type CompleteProfileRequest struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	GroupName string `json:"group_name"`
}

// UserHandler holds dependencies
type UserHandler struct {
	usersSvc *users.Service
}

func NewUserHandler(u *users.Service) *UserHandler {
	return &UserHandler{usersSvc: u}
}

// Register routes under /api
func (h *UserHandler) Register(r *gin.Engine) {
	r.POST("/api/profile", h.CompleteProfile)
	r.GET("/api/users", h.ListUsers)
}

// CompleteProfile updates the row with the posted id and marks it complete.
func (h *UserHandler) CompleteProfile(c *gin.Context) {
	var req CompleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if req.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing user id"})
		return
	}

	u, err := h.usersSvc.CompleteProfile(c.Request.Context(), req.ID, users.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		GroupName: req.GroupName,
	})
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
			return
		}
		logger.Errorf("profile update failed for id=%d: %v", req.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "profile update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

// ListUsers returns the whole users table, newest first.
func (h *UserHandler) ListUsers(c *gin.Context) {
	list, err := h.usersSvc.List(c.Request.Context())
	if err != nil {
		logger.Errorf("user listing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "user listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(list), "users": list})
}
