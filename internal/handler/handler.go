package handler

import (
	"context"
	"time"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// RiskRunner is the orchestration surface exposed over HTTP.
type RiskRunner interface {
	CheckAccount(ctx context.Context, userID int64, accountRef string) domain.CheckResult
	DryRun(ctx context.Context, userID int64, accountRef string) domain.DiagnosticReport
	CheckAll(ctx context.Context) (domain.SweepResult, error)
}

// AlertStore is the alert persistence surface the API needs.
type AlertStore interface {
	ListByUser(ctx context.Context, userID int64, includeDismissed bool, limit int) ([]domain.Alert, error)
	MarkRead(ctx context.Context, userID, alertID int64) error
	Dismiss(ctx context.Context, userID, alertID int64) error
	Acknowledge(ctx context.Context, userID, alertID int64, note string) error
}

// RulesStore reads and writes per-trader risk rules.
type RulesStore interface {
	GetByUser(ctx context.Context, userID int64) (domain.RiskRules, bool, error)
	Upsert(ctx context.Context, rules domain.RiskRules) error
}

type Handler struct {
	tracer trace.Tracer
	risk   RiskRunner
	alerts AlertStore
	rules  RulesStore
}

func New(tracer trace.Tracer, risk RiskRunner, alerts AlertStore, rules RulesStore) *Handler {
	return &Handler{
		tracer: tracer,
		risk:   risk,
		alerts: alerts,
		rules:  rules,
	}
}

// RegisterRoutes mounts the API. Middleware applies to /api only so health
// probes and swagger stay reachable without a key.
func (h *Handler) RegisterRoutes(r *gin.Engine, middleware ...gin.HandlerFunc) {
	r.GET("/health", h.Health)

	api := r.Group("/api", middleware...)
	api.POST("/risk/check", h.CheckRisk)
	api.GET("/risk/diagnose", h.DiagnoseRisk)
	api.POST("/risk/sweep", h.SweepRisk)
	api.GET("/alerts", h.ListAlerts)
	api.POST("/alerts/:id/read", h.MarkAlertRead)
	api.POST("/alerts/:id/dismiss", h.DismissAlert)
	api.POST("/alerts/:id/ack", h.AcknowledgeAlert)
	api.GET("/rules", h.GetRules)
	api.PUT("/rules", h.PutRules)
}

// Health godoc
// @Summary      Health check
// @Description  Returns the health status of the service
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "healthy", "time": time.Now().UTC().Format(time.RFC3339)})
}
