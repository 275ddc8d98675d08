package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"khetibook/internal/service/session"
	"khetibook/pkg/clients/ledger"
)

// Login authenticates against the ledger API and opens a local session.
func (h *Handler) Login(c *gin.Context) {
	var creds ledger.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.ledger.Login(c.Request.Context(), creds)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	if err := h.sessions.SignIn(session.Session{Token: result.Token, DisplayName: result.Name}); err != nil {
		h.logger.Error("failed persisting session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": result.Name})
}

// Signup registers a new account and opens a local session.
func (h *Handler) Signup(c *gin.Context) {
	var req ledger.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.ledger.Signup(c.Request.Context(), req)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	if err := h.sessions.SignIn(session.Session{Token: result.Token, DisplayName: result.Name}); err != nil {
		h.logger.Error("failed persisting session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"name": result.Name})
}

// Logout clears the session credential.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.SignOut(); err != nil {
		h.logger.Error("failed clearing session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear session"})
		return
	}
	c.Status(http.StatusNoContent)
}

// CurrentSession reports whether a user is signed in and their display name.
func (h *Handler) CurrentSession(c *gin.Context) {
	sess := h.sessions.Current()
	c.JSON(http.StatusOK, gin.H{
		"authenticated": sess.Active(),
		"name":          sess.DisplayName,
	})
}
