package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopops/opsdash/backend-go/internal/service"
)

type AlertHandler struct {
	alerts    *service.AlertService
	reminders *service.ReminderService
}

func NewAlertHandler(alerts *service.AlertService, reminders *service.ReminderService) *AlertHandler {
	return &AlertHandler{alerts: alerts, reminders: reminders}
}

// GetLowStock returns the sorted low-stock alert list.
func (h *AlertHandler) GetLowStock(c *gin.Context) {
	vendor := strings.TrimSpace(c.Query("vendor"))

	alerts, err := h.alerts.LowStock(c.Request.Context(), vendor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute alerts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "total": len(alerts)})
}

// GetDigest returns the vendor-grouped human-readable digest.
func (h *AlertHandler) GetDigest(c *gin.Context) {
	digest, err := h.alerts.Digest(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build digest", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"digest": digest})
}

// GetReminders returns today's vendor ordering deadlines sorted by urgency.
func (h *AlertHandler) GetReminders(c *gin.Context) {
	reminders := h.reminders.DueToday(time.Now())
	c.JSON(http.StatusOK, gin.H{"reminders": reminders, "total": len(reminders)})
}
