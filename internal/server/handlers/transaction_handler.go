package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListTransactions returns every transaction regardless of scope.
func (h *Handler) ListTransactions(c *gin.Context) {
	txs, err := h.ledger.ListTransactions(c.Request.Context(), h.token(c))
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// ListFarmTransactions returns the transactions owned by one farm.
func (h *Handler) ListFarmTransactions(c *gin.Context) {
	farmID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid farm id"})
		return
	}

	txs, err := h.ledger.ListFarmTransactions(c.Request.Context(), h.token(c), farmID)
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// ListCommonTransactions returns the shared entries with no owning farm.
func (h *Handler) ListCommonTransactions(c *gin.Context) {
	txs, err := h.ledger.ListCommonTransactions(c.Request.Context(), h.token(c))
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// DashboardSummary aggregates the full transaction set into totals.
func (h *Handler) DashboardSummary(c *gin.Context) {
	summary, err := h.finance.OverallSummary(c.Request.Context(), h.token(c))
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CommonSummary aggregates the common-only scope.
func (h *Handler) CommonSummary(c *gin.Context) {
	summary, err := h.finance.CommonSummary(c.Request.Context(), h.token(c))
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Ask forwards a free-text advisory question to the ledger API.
func (h *Handler) Ask(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reply, err := h.ledger.Ask(c.Request.Context(), h.token(c), req.Message)
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// ExportTransactions triggers an on-demand spreadsheet export.
func (h *Handler) ExportTransactions(c *gin.Context) {
	rows, err := h.reporting.ExportTransactions(c.Request.Context())
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exported": rows})
}
