package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopops/opsdash/backend-go/internal/replenish"
	"github.com/shopops/opsdash/backend-go/internal/service"
)

type DeliveryHandler struct {
	service *service.DeliveryService
}

func NewDeliveryHandler(service *service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{service: service}
}

// GetPlan returns one order sheet per configured delivery window. The mode
// query selects per_window (default, overlapping days double-count) or
// exclusive (each day claimed once).
func (h *DeliveryHandler) GetPlan(c *gin.Context) {
	mode := replenish.ModePerWindow
	if strings.EqualFold(strings.TrimSpace(c.Query("mode")), "exclusive") {
		mode = replenish.ModeExclusive
	}

	var asOf time.Time
	if parsed, err := time.Parse("2006-01-02", c.Query("as_of")); err == nil {
		asOf = parsed
	}

	sheets, err := h.service.PlanDeliveries(c.Request.Context(), asOf, mode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to plan deliveries", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sheets": sheets, "total": len(sheets)})
}
