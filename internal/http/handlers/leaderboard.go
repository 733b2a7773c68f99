package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Leaderboard returns accounts ordered by rating, optionally filtered by a
// name search.
func (h *Handler) Leaderboard(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))

	accounts, err := h.AccountRepo.Leaderboard(c.Request.Context(), search, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}

	entries := make([]gin.H, 0, len(accounts))
	for i, a := range accounts {
		entries = append(entries, gin.H{
			"rank":     i + 1,
			"id":       a.ID,
			"name":     a.Name,
			"rating":   a.Rating,
			"wins":     a.Wins,
			"losses":   a.Losses,
			"ties":     a.Ties,
			"win_rate": a.WinRate(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"search":      search,
	})
}

// Me returns the authenticated account's profile.
func (h *Handler) Me(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	acc, err := h.AccountRepo.GetByID(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       acc.ID,
		"name":     acc.Name,
		"rating":   acc.Rating,
		"wins":     acc.Wins,
		"losses":   acc.Losses,
		"ties":     acc.Ties,
		"win_rate": acc.WinRate(),
	})
}
