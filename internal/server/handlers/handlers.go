// Package handlers adapts the bookkeeping services to the gin HTTP surface.
// Every failure is handled at this boundary: validation errors render inline
// messages, ledger transport failures render a blocking notice and are never
// retried, credential rejections render a generic message.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"khetibook/internal/service/bookkeeping"
	"khetibook/internal/service/finance"
	"khetibook/internal/service/lifecycle"
	"khetibook/internal/service/reconcile"
	"khetibook/internal/service/reporting"
	"khetibook/internal/service/session"
	"khetibook/pkg/clients/ledger"
)

const tokenKey = "sessionToken"

// Handler carries the service dependencies for all routes.
type Handler struct {
	sessions    *session.Manager
	ledger      ledger.API
	bookkeeping *bookkeeping.Service
	finance     *finance.Service
	lifecycle   *lifecycle.Calculator
	reporting   *reporting.Service
	logger      *zap.Logger
}

// New constructs the HTTP handler adapter.
func New(
	sessions *session.Manager,
	ledgerClient ledger.API,
	bookkeepingSvc *bookkeeping.Service,
	financeSvc *finance.Service,
	lifecycleCalc *lifecycle.Calculator,
	reportingSvc *reporting.Service,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		sessions:    sessions,
		ledger:      ledgerClient,
		bookkeeping: bookkeepingSvc,
		finance:     financeSvc,
		lifecycle:   lifecycleCalc,
		reporting:   reportingSvc,
		logger:      logger,
	}
}

// RequireSession guards data routes: requests without an active session are
// rejected and the bearer token is made available to the route handlers.
func (h *Handler) RequireSession(c *gin.Context) {
	sess := h.sessions.Current()
	if !sess.Active() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}
	c.Set(tokenKey, sess.Token)
	c.Next()
}

func (h *Handler) token(c *gin.Context) string {
	return c.GetString(tokenKey)
}

// renderFailure maps a service error to its HTTP representation.
func (h *Handler) renderFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reconcile.ErrAmountRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "please enter an amount"})
	case errors.Is(err, ledger.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		h.logger.Error("ledger call failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not reach the bookkeeping service, please retry"})
	}
}
