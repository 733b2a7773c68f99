package handlers

import (
	"net/http"

	"rps_arena/internal/session"
	"rps_arena/internal/ws"

	"github.com/gin-gonic/gin"
)

// QuickMatch pairs the requester with any open waiting session, or creates a
// new one. The caller then opens the session over the websocket.
func (h *Handler) QuickMatch(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	s, joined := h.Directory.QuickMatch(accountID)
	if joined {
		c.JSON(http.StatusOK, gin.H{
			"session_id": s.ID,
			"status":     "matched",
			"message":    "Matched with a player!",
		})
		return
	}

	ws.ActiveSessions.Inc()
	c.JSON(http.StatusOK, gin.H{
		"session_id": s.ID,
		"status":     "waiting",
		"message":    "Waiting for an opponent...",
	})
}

// Match returns the live state of one session.
func (h *Handler) Match(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	s, err := h.Directory.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	snap := s.Snapshot()
	if snap.SlotA != accountID && snap.SlotB != accountID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
		return
	}

	resp := gin.H{
		"session_id": snap.ID,
		"status":     string(snap.Status),
		"created_at": snap.CreatedAt,
	}
	if snap.Status == session.StatusCompleted {
		resp["winner_account_id"] = snap.WinnerAccount()
		resp["delta_a"] = snap.DeltaA
		resp["delta_b"] = snap.DeltaB
	}
	c.JSON(http.StatusOK, resp)
}

// MyMatches returns the account's recent terminal matches.
func (h *Handler) MyMatches(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	matches, err := h.MatchRepo.ListByAccount(c.Request.Context(), accountID, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load matches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}
