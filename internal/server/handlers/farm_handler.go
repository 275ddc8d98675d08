package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"khetibook/internal/domain/models"
	"khetibook/internal/service/lifecycle"
)

// farmView is a farm with its derived crop progress attached. Progress is
// omitted entirely when the farm has no sowing date; that is a distinct
// state from 0% and the client renders it differently.
type farmView struct {
	models.Farm
	Progress *lifecycle.Progress `json:"progress,omitempty"`
}

// ListFarms returns every farm with lifecycle progress attached.
func (h *Handler) ListFarms(c *gin.Context) {
	farms, err := h.ledger.ListFarms(c.Request.Context(), h.token(c))
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	views := make([]farmView, 0, len(farms))
	for _, farm := range farms {
		view := farmView{Farm: farm}
		if progress, ok := h.lifecycle.Progress(farm.SowingDate); ok {
			view.Progress = &progress
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, views)
}

// CreateFarm inserts a new farm.
func (h *Handler) CreateFarm(c *gin.Context) {
	var payload models.FarmPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	farm, err := h.ledger.CreateFarm(c.Request.Context(), h.token(c), payload)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	c.JSON(http.StatusCreated, farm)
}

// UpdateFarm replaces a farm record by identifier.
func (h *Handler) UpdateFarm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid farm id"})
		return
	}

	var payload models.FarmPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	farm, err := h.ledger.UpdateFarm(c.Request.Context(), h.token(c), id, payload)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, farm)
}

// FarmSummary aggregates one farm's transactions.
func (h *Handler) FarmSummary(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid farm id"})
		return
	}

	summary, err := h.finance.FarmSummary(c.Request.Context(), h.token(c), id)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
