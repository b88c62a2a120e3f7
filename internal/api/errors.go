package api

import (
	"errors"
	"net/http"
	"strconv"

	"fitpro/tracker/internal/domain"
	"fitpro/tracker/internal/goals"
	"fitpro/tracker/internal/service"
	"fitpro/tracker/internal/timeseries"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// respondError maps service errors to HTTP responses.
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Errors})
	case errors.Is(err, goals.ErrNegativeValue):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnknownMetric):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, goals.ErrGoalNotFound),
		errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrMealNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, goals.ErrGoalCompleted),
		errors.Is(err, goals.ErrDuplicateGoal),
		errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInsufficientData):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// daysParam reads ?days=N. Missing means def, "all" or a negative value
// means timeseries.AllTime.
func daysParam(c *gin.Context, def int) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return def, true
	}
	if raw == "all" {
		return timeseries.AllTime, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "days must be an integer or \"all\"")
		return 0, false
	}
	if days < 0 {
		return timeseries.AllTime, true
	}
	return days, true
}
