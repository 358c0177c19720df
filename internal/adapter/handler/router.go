package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/revitawellness/voiceai-hub/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	webhookHandler *WebhookHandler
	callHandler    *CallHandler
	statsHandler   *StatsHandler
	startedAt      time.Time
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, webhookHandler *WebhookHandler, callHandler *CallHandler, statsHandler *StatsHandler) *Router {
	return &Router{
		cfg:            cfg,
		webhookHandler: webhookHandler,
		callHandler:    callHandler,
		statsHandler:   statsHandler,
		startedAt:      time.Now(),
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/", rt.root)

	rt.setupWebhookRoutes(e.Group("/webhooks"))
	rt.setupAPIRoutes(e.Group("/api"))
}

// setupWebhookRoutes configures provider-facing webhook routes
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	g.POST("/voice", rt.webhookHandler.HandleVoiceWebhook)
	g.POST("/tools/send-sms", rt.webhookHandler.HandleSendInfoSMS)
	g.POST("/tools/book-appointment", rt.webhookHandler.HandleBookAppointment)
}

// setupAPIRoutes configures the query API routes
func (rt *Router) setupAPIRoutes(g *echo.Group) {
	g.GET("/calls", rt.callHandler.ListCalls)
	g.GET("/calls/recent", rt.callHandler.RecentCalls)
	g.GET("/calls/:callControlID", rt.callHandler.GetCall)
	g.POST("/calls/outbound", rt.callHandler.DialOutbound)

	g.GET("/stats/today", rt.statsHandler.Today)
	g.GET("/stats/range", rt.statsHandler.Range)

	g.GET("/health", rt.healthCheck)
}

// root describes the service
func (rt *Router) root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"name":    "VoiceAI Hub",
		"version": "1.0.0",
		"status":  "running",
		"endpoints": map[string]string{
			"webhooks": "/webhooks/voice",
			"api":      "/api/calls",
			"health":   "/api/health",
		},
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"uptime":      time.Since(rt.startedAt).String(),
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": rt.cfg.Server.Environment,
	})
}
