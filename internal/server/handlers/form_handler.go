package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"khetibook/internal/domain/models"
)

// openFormRequest describes how a form should be opened. TransactionID set
// means edit; otherwise a create form is resolved, optionally prefilled.
// The two cases map to distinct seed types so that prefill fields can never
// flip a create form into edit mode.
type openFormRequest struct {
	TransactionID int64               `json:"transactionId"`
	Prefill       *transactionPrefill `json:"prefill"`
}

type transactionPrefill struct {
	Kind        models.TransactionKind `json:"type"`
	FarmID      *int64                 `json:"farmId"`
	Category    string                 `json:"category"`
	Date        models.Date            `json:"date"`
	Description string                 `json:"description"`
	Amount      string                 `json:"amount"`
	Quantity    string                 `json:"quantity"`
	Unit        string                 `json:"unit"`
}

// OpenForm resolves a transaction form into its mode and initial values.
func (h *Handler) OpenForm(c *gin.Context) {
	var req openFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.TransactionID != 0 {
		state, err := h.bookkeeping.OpenEditForm(c.Request.Context(), h.token(c), req.TransactionID)
		if err != nil {
			h.renderFailure(c, err)
			return
		}
		c.JSON(http.StatusOK, state)
		return
	}

	var seed *models.NewTransactionSeed
	if req.Prefill != nil {
		seed = &models.NewTransactionSeed{
			Kind:        req.Prefill.Kind,
			FarmID:      req.Prefill.FarmID,
			Category:    req.Prefill.Category,
			Date:        req.Prefill.Date,
			Description: req.Prefill.Description,
			Amount:      req.Prefill.Amount,
			Quantity:    req.Prefill.Quantity,
			Unit:        req.Prefill.Unit,
		}
	}

	c.JSON(http.StatusOK, h.bookkeeping.OpenCreateForm(seed))
}

// DeriveAmount recomputes the amount from quantity and rate. The client calls
// this on every quantity, rate or kind change.
func (h *Handler) DeriveAmount(c *gin.Context) {
	var state models.FormState
	if err := c.ShouldBindJSON(&state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, h.bookkeeping.Recalculate(state))
}

// SubmitForm normalizes the form state and dispatches it to the ledger API.
func (h *Handler) SubmitForm(c *gin.Context) {
	var state models.FormState
	if err := c.ShouldBindJSON(&state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tx, err := h.bookkeeping.Submit(c.Request.Context(), h.token(c), state)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	status := http.StatusCreated
	if state.Mode == models.ModeEdit {
		status = http.StatusOK
	}
	c.JSON(status, tx)
}

// Vocabulary lists the category and unit choices offered by the form.
func (h *Handler) Vocabulary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": gin.H{
			string(models.KindExpense): models.ExpenseCategories,
			string(models.KindIncome):  models.IncomeCategories,
		},
		"units":       models.Units,
		"defaultUnit": models.DefaultUnit,
	})
}
