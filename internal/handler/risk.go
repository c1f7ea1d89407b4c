package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// userID extracts the authenticated trader from the X-User-ID header set by
// the dashboard's session layer. Responds 400 and returns false when absent.
func (h *Handler) userID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing X-User-ID header"})
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid X-User-ID header"})
		return 0, false
	}
	return id, true
}

// CheckRisk godoc
// @Summary      Run a live risk check
// @Description  Fetches account state from the bridge, evaluates risk rules, persists alerts for breaches
// @Tags         risk
// @Produce      json
// @Param        X-User-ID  header  int     true   "Trader user id"
// @Param        account    query   string  false  "Account ref (defaults to first linked account)"
// @Success      200  {object}  domain.CheckResult
// @Failure      400  {object}  map[string]string
// @Router       /api/risk/check [post]
func (h *Handler) CheckRisk(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.check-risk")
	defer span.End()

	userID, ok := h.userID(c)
	if !ok {
		return
	}
	accountRef := c.Query("account")
	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.String("account_ref", accountRef),
	)

	result := h.risk.CheckAccount(ctx, userID, accountRef)
	if !result.OK {
		c.JSON(http.StatusBadGateway, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DiagnoseRisk godoc
// @Summary      Dry-run risk diagnostics
// @Description  Runs the full fetch and evaluation pipeline with no alerts, notifications, or cache writes
// @Tags         risk
// @Produce      json
// @Param        X-User-ID  header  int     true   "Trader user id"
// @Param        account    query   string  false  "Account ref (defaults to first linked account)"
// @Success      200  {object}  domain.DiagnosticReport
// @Failure      400  {object}  map[string]string
// @Router       /api/risk/diagnose [get]
func (h *Handler) DiagnoseRisk(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.diagnose-risk")
	defer span.End()

	userID, ok := h.userID(c)
	if !ok {
		return
	}
	report := h.risk.DryRun(ctx, userID, c.Query("account"))
	c.JSON(http.StatusOK, report)
}

// SweepRisk godoc
// @Summary      Sweep all linked accounts
// @Description  Runs a risk check across every linked account; per-account failures are reported, not fatal
// @Tags         risk
// @Produce      json
// @Success      200  {object}  domain.SweepResult
// @Failure      500  {object}  map[string]string
// @Router       /api/risk/sweep [post]
func (h *Handler) SweepRisk(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.sweep-risk")
	defer span.End()

	result, err := h.risk.CheckAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
