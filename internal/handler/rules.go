package handler

import (
	"net/http"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetRules godoc
// @Summary      Get the trader's risk rules
// @Description  Returns the configured rules, or the defaults when none are configured
// @Tags         rules
// @Produce      json
// @Param        X-User-ID  header  int  true  "Trader user id"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/rules [get]
func (h *Handler) GetRules(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-rules")
	defer span.End()

	userID, ok := h.userID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("user_id", userID))

	rules, found, err := h.rules.GetByUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		rules = domain.DefaultRiskRules(userID)
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules, "defaults": !found})
}

// PutRules godoc
// @Summary      Set the trader's risk rules
// @Description  Replaces the trader's risk rule configuration
// @Tags         rules
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header  int                true  "Trader user id"
// @Param        rules      body    domain.RiskRules   true  "Risk rules"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/rules [put]
func (h *Handler) PutRules(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.put-rules")
	defer span.End()

	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var rules domain.RiskRules
	if err := c.ShouldBindJSON(&rules); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rules payload: " + err.Error()})
		return
	}
	rules.UserID = userID
	if !rules.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rule limits must be non-negative"})
		return
	}

	if err := h.rules.Upsert(ctx, rules); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}
