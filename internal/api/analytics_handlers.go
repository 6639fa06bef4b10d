package api

import (
	"github.com/gin-gonic/gin"
	"github.com/trustex-app/trustex-core/internal/apperr"
)

// analytics обслуживает и окна периодов (day/week/month/year), и сводку
// по типам сделок (период "stats").
func (h *Handler) analytics(c *gin.Context) {
	userID := c.Param("userId")
	if !canAccess(c, userID) {
		h.fail(c, apperr.ErrNotFound)
		return
	}

	period := c.Param("period")
	if period == "stats" {
		stats, err := h.svc.TradeTypeStats(c.Request.Context(), userID)
		if err != nil {
			h.fail(c, err)
			return
		}
		h.ok(c, stats)
		return
	}

	report, err := h.svc.AnalyticsByPeriod(c.Request.Context(), userID, period)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, report)
}
