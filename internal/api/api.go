// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shopops/opsdash/backend-go/internal/api/handlers"
	"github.com/shopops/opsdash/backend-go/internal/api/middleware"
	"github.com/shopops/opsdash/backend-go/internal/cache"
	"github.com/shopops/opsdash/backend-go/internal/repository"
	"github.com/shopops/opsdash/backend-go/internal/service"
)

type Services struct {
	Replenishment *service.ReplenishmentService
	Deliveries    *service.DeliveryService
	Alerts        *service.AlertService
	Reminders     *service.ReminderService
	Stock         repository.StockRepository
	AlertCache    cache.AlertCache
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Replenishment != nil {
			replenishmentHandler := handlers.NewReplenishmentHandler(services.Replenishment)
			replenishGroup := apiGroup.Group("/replenishment")
			{
				replenishGroup.GET("/order_sheet", replenishmentHandler.GetOrderSheet)
				replenishGroup.GET("/vendor_sheets", replenishmentHandler.GetVendorOrderSheets)
				replenishGroup.GET("/frequencies", replenishmentHandler.GetFrequencies)
				replenishGroup.POST("/order_quantity", replenishmentHandler.SetOrderQuantity)
				replenishGroup.POST("/pack_size", replenishmentHandler.SetPackSize)
			}
		}

		if services.Deliveries != nil {
			deliveryHandler := handlers.NewDeliveryHandler(services.Deliveries)
			apiGroup.GET("/deliveries/plan", deliveryHandler.GetPlan)
		}

		if services.Alerts != nil && services.Reminders != nil {
			alertHandler := handlers.NewAlertHandler(services.Alerts, services.Reminders)
			alertGroup := apiGroup.Group("/alerts")
			{
				alertGroup.GET("/low_stock", alertHandler.GetLowStock)
				alertGroup.GET("/digest", alertHandler.GetDigest)
				alertGroup.GET("/reminders", alertHandler.GetReminders)
			}
		}

		if services.Stock != nil {
			stockHandler := handlers.NewStockHandler(services.Stock, services.AlertCache)
			stockGroup := apiGroup.Group("/stock")
			{
				stockGroup.GET("", stockHandler.ListStock)
				stockGroup.GET("/:item", stockHandler.GetStock)
				stockGroup.PUT("/:item", stockHandler.UpdateStock)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
