package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

// ListAlerts godoc
// @Summary      List the trader's alerts
// @Description  Returns recent alerts, newest first; dismissed alerts are excluded unless requested
// @Tags         alerts
// @Produce      json
// @Param        X-User-ID       header  int   true   "Trader user id"
// @Param        include_dismissed  query  bool  false  "Include dismissed alerts"
// @Param        limit           query   int   false  "Max alerts (default 50, max 200)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/alerts [get]
func (h *Handler) ListAlerts(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-alerts")
	defer span.End()

	userID, ok := h.userID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("user_id", userID))

	includeDismissed := c.Query("include_dismissed") == "true"
	limit := 50
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	alerts, err := h.alerts.ListByUser(ctx, userID, includeDismissed, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

func (h *Handler) alertID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return 0, false
	}
	return id, true
}

// MarkAlertRead godoc
// @Summary      Mark an alert as read
// @Tags         alerts
// @Produce      json
// @Param        X-User-ID  header  int  true  "Trader user id"
// @Param        id         path    int  true  "Alert id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/alerts/{id}/read [post]
func (h *Handler) MarkAlertRead(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.mark-alert-read")
	defer span.End()

	h.mutateAlert(c, func(userID, alertID int64) error {
		return h.alerts.MarkRead(ctx, userID, alertID)
	})
}

// DismissAlert godoc
// @Summary      Dismiss an alert
// @Tags         alerts
// @Produce      json
// @Param        X-User-ID  header  int  true  "Trader user id"
// @Param        id         path    int  true  "Alert id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/alerts/{id}/dismiss [post]
func (h *Handler) DismissAlert(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.dismiss-alert")
	defer span.End()

	h.mutateAlert(c, func(userID, alertID int64) error {
		return h.alerts.Dismiss(ctx, userID, alertID)
	})
}

// AcknowledgeAlert godoc
// @Summary      Acknowledge an alert with an optional note
// @Description  Marks the alert read and records the acknowledgement time and note
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header  int  true  "Trader user id"
// @Param        id         path    int  true  "Alert id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/alerts/{id}/ack [post]
func (h *Handler) AcknowledgeAlert(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.acknowledge-alert")
	defer span.End()

	var body struct {
		Note string `json:"note"`
	}
	// empty body is a bare acknowledgement
	_ = c.ShouldBindJSON(&body)

	h.mutateAlert(c, func(userID, alertID int64) error {
		return h.alerts.Acknowledge(ctx, userID, alertID, body.Note)
	})
}

// mutateAlert runs one scoped alert mutation and maps "no such row" to 404.
// Every mutation is scoped by user id so traders cannot touch each other's
// alerts.
func (h *Handler) mutateAlert(c *gin.Context, mutate func(userID, alertID int64) error) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	alertID, ok := h.alertID(c)
	if !ok {
		return
	}

	if err := mutate(userID, alertID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
