package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopops/opsdash/backend-go/internal/domain"
	"github.com/shopops/opsdash/backend-go/internal/service"
)

type ReplenishmentHandler struct {
	service *service.ReplenishmentService
}

func NewReplenishmentHandler(service *service.ReplenishmentService) *ReplenishmentHandler {
	return &ReplenishmentHandler{service: service}
}

func (h *ReplenishmentHandler) parseRequest(c *gin.Context) service.OrderSheetRequest {
	req := service.OrderSheetRequest{
		Vendor: strings.TrimSpace(c.Query("vendor")),
	}

	if freq, err := strconv.ParseFloat(c.Query("frequency"), 64); err == nil {
		req.Frequency = domain.OrderFrequency(freq)
	}

	if days, err := strconv.Atoi(c.Query("days")); err == nil && days > 0 {
		req.AnalysisDays = days
	}

	if asOf, err := time.Parse("2006-01-02", c.Query("as_of")); err == nil {
		req.AsOf = asOf
	}

	return req
}

// GetOrderSheet returns one recommendation row per stocked item.
func (h *ReplenishmentHandler) GetOrderSheet(c *gin.Context) {
	items, err := h.service.BuildOrderSheet(c.Request.Context(), h.parseRequest(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to build order sheet", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// GetVendorOrderSheets returns a sheet per vendor.
func (h *ReplenishmentHandler) GetVendorOrderSheets(c *gin.Context) {
	sheets, err := h.service.BuildVendorOrderSheets(c.Request.Context(), h.parseRequest(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to build vendor order sheets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sheets)
}

type orderQuantityRequest struct {
	Item     domain.ReplenishmentItem `json:"item" binding:"required"`
	Quantity int                      `json:"quantity"`
}

// SetOrderQuantity applies a user override to a sheet row and returns the
// pack-rounded result.
func (h *ReplenishmentHandler) SetOrderQuantity(c *gin.Context) {
	var req orderQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	h.service.UpdateOrderQuantity(&req.Item, req.Quantity)
	c.JSON(http.StatusOK, req.Item)
}

type packSizeRequest struct {
	Item     domain.ReplenishmentItem `json:"item" binding:"required"`
	PackSize int                      `json:"pack_size"`
}

// SetPackSize reassigns a pack size and re-rounds the row's quantities.
func (h *ReplenishmentHandler) SetPackSize(c *gin.Context) {
	var req packSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	h.service.UpdatePackSize(&req.Item, req.PackSize)
	c.JSON(http.StatusOK, req.Item)
}

// GetFrequencies lists the allowed order-frequency multipliers.
func (h *ReplenishmentHandler) GetFrequencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"frequencies": domain.OrderFrequencies()})
}
