package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"forklift-fleet-backend/internal/session"
)

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a user account and returns its first session.
func (h *Handler) Register(c *gin.Context) {
	var req session.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := h.sessions.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// Login signs a user in by username or email.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := h.sessions.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Logout revokes the caller's token.
func (h *Handler) Logout(c *gin.Context) {
	s, ok := session.FromContext(c)
	if !ok {
		respondError(c, session.ErrUnauthorized)
		return
	}
	if err := h.sessions.Logout(s); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCurrentUser returns the signed-in user.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	s, ok := session.FromContext(c)
	if !ok {
		respondError(c, session.ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, s.User)
}
