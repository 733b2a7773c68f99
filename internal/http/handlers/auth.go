package handlers

import (
	"net/http"
	"strings"

	"rps_arena/internal/domain"
	"rps_arena/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	Name string `json:"name"`
}

// Auth is the thin identity boundary: it upserts an account by display name
// and issues a JWT. Credential storage and verification live outside this
// service.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 80 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must be 1-80 characters"})
		return
	}

	ctx := c.Request.Context()

	acc, err := h.AccountRepo.GetByName(ctx, name)
	if err != nil {
		acc = &domain.Account{Name: name}
		if err := h.AccountRepo.Create(ctx, acc); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
			return
		}
	}

	token, err := service.GenerateJWT(acc.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"account": gin.H{
			"id":     acc.ID,
			"name":   acc.Name,
			"rating": acc.Rating,
		},
	})
}
