package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Login handles POST /api/v1/auth/login by proxying to the auth service.
func (h *Handlers) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.authClient.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error().Err(err).Msg("Auth service login call failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "auth service unavailable"})
		return
	}

	if !result.Success {
		c.JSON(http.StatusUnauthorized, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Signup handles POST /api/v1/auth/signup
func (h *Handlers) Signup(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.authClient.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.logger.Error().Err(err).Msg("Auth service signup call failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "auth service unavailable"})
		return
	}

	if !result.Success {
		c.JSON(http.StatusConflict, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Logout handles POST /api/v1/auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusOK, gin.H{"status": "logged out"})
		return
	}

	if err := h.authClient.Logout(c.Request.Context(), token); err != nil {
		h.logger.Error().Err(err).Msg("Auth service logout call failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "auth service unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Me handles GET /api/v1/auth/me
func (h *Handlers) Me(c *gin.Context) {
	actor := actorFrom(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, actor)
}
