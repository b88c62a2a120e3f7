package api

import (
	"net/http"

	"fitpro/tracker/internal/service"
	"fitpro/tracker/internal/timeseries"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) EnergyBalance(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	days, ok := daysParam(c, service.DefaultBalanceDays)
	if !ok {
		return
	}
	report, err := h.analyticsService.EnergyBalance(c.Request.Context(), uid, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Trend analyses one workout metric, ?metric=duration by default.
func (h *AnalyticsHandler) Trend(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	days, ok := daysParam(c, timeseries.AllTime)
	if !ok {
		return
	}
	metric := c.DefaultQuery("metric", timeseries.MetricDuration)
	report, err := h.analyticsService.Trend(c.Request.Context(), uid, metric, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) Consistency(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	days, ok := daysParam(c, timeseries.AllTime)
	if !ok {
		return
	}
	report, err := h.analyticsService.Consistency(c.Request.Context(), uid, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) Patterns(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	days, ok := daysParam(c, timeseries.AllTime)
	if !ok {
		return
	}
	report, err := h.analyticsService.Patterns(c.Request.Context(), uid, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
