package api

import (
	"fmt"
	"net/http"

	"fitpro/tracker/internal/service"
	"fitpro/tracker/internal/timeseries"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// LogWorkout godoc
// @Summary Log a workout
// @Description Estimates burned calories from the profile, stores the workout and advances goals.
// @Tags Workouts
// @Accept json
// @Produce json
// @Success 201 {object} service.LoggedWorkout
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Router /workouts [post]
func (h *WorkoutHandler) LogWorkout(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req service.WorkoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	logged, err := h.workoutService.LogWorkout(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, logged)
}

// GetWorkouts returns the workout history, oldest first. ?days=N limits it
// to the last N days.
func (h *WorkoutHandler) GetWorkouts(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	days, ok := daysParam(c, timeseries.AllTime)
	if !ok {
		return
	}
	history, err := h.workoutService.History(c.Request.Context(), uid, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	if err := h.workoutService.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Estimate returns a calorie estimate without storing anything.
func (h *WorkoutHandler) Estimate(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req service.EstimateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	est, err := h.workoutService.Estimate(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calories": est.Calories, "source": est.Source})
}
