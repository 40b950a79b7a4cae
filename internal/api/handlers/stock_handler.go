package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/shopops/opsdash/backend-go/internal/cache"
	"github.com/shopops/opsdash/backend-go/internal/repository"
)

// StockHandler is the caller-owned write path for current stock. The engine
// never updates stock itself; every change comes through here.
type StockHandler struct {
	stock      repository.StockRepository
	alertCache cache.AlertCache
}

func NewStockHandler(stock repository.StockRepository, alertCache cache.AlertCache) *StockHandler {
	if alertCache == nil {
		alertCache = cache.NewNoopAlertCache()
	}
	return &StockHandler{stock: stock, alertCache: alertCache}
}

// ListStock returns all current stock levels.
func (h *StockHandler) ListStock(c *gin.Context) {
	levels, err := h.stock.ListStock(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list stock", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": levels, "total": len(levels)})
}

// GetStock returns one item's stock level.
func (h *StockHandler) GetStock(c *gin.Context) {
	level, err := h.stock.GetStock(c.Request.Context(), c.Param("item"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stock", "details": err.Error()})
		return
	}
	if level == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown item"})
		return
	}

	c.JSON(http.StatusOK, level)
}

type updateStockRequest struct {
	CurrentStock float64 `json:"current_stock"`
}

// UpdateStock sets the on-hand quantity for one item and invalidates cached
// alert lists, which are derived from it.
func (h *StockHandler) UpdateStock(c *gin.Context) {
	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	item := c.Param("item")
	if err := h.stock.UpdateStock(c.Request.Context(), item, req.CurrentStock); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to update stock", "details": err.Error()})
		return
	}

	if err := h.alertCache.InvalidateAll(c.Request.Context()); err != nil {
		log.Warn().Err(err).Msg("stock: alert cache invalidation failed")
	}

	c.JSON(http.StatusOK, gin.H{"item": item, "current_stock": req.CurrentStock})
}
