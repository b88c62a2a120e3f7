package api

import (
	"fmt"
	"net/http"

	"fitpro/tracker/internal/domain"
	"fitpro/tracker/internal/goals"
	"fitpro/tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type GoalHandler struct {
	goalService service.GoalService
}

func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

type GoalValueRequest struct {
	Value *float64 `json:"value" binding:"required"`
}

type GoalIncrementRequest struct {
	Delta *float64 `json:"delta" binding:"required"`
}

// goalRef identifies the goal of a /goals/:id request. Goals stored before
// ids existed can be addressed with ?name=...&targetDate=... instead.
func goalRef(c *gin.Context) goals.Ref {
	if name := c.Query("name"); name != "" {
		return goals.ByNameAndDate(name, c.Query("targetDate"))
	}
	return goals.ByID(c.Param("id"))
}

func (h *GoalHandler) CreateGoal(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req service.GoalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	g, err := h.goalService.Create(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// GetGoals lists goals, optionally filtered with ?status=active|completed.
func (h *GoalHandler) GetGoals(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	status := domain.GoalStatus(c.Query("status"))
	switch status {
	case "", domain.GoalActive, domain.GoalCompleted:
	default:
		abortWithError(c, http.StatusBadRequest, "status must be active or completed")
		return
	}
	list, err := h.goalService.List(c.Request.Context(), uid, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *GoalHandler) SetValue(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req GoalValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	g, err := h.goalService.SetValue(c.Request.Context(), uid, goalRef(c), *req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GoalHandler) Increment(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req GoalIncrementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	g, err := h.goalService.Increment(c.Request.Context(), uid, goalRef(c), *req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GoalHandler) Complete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	g, err := h.goalService.Complete(c.Request.Context(), uid, goalRef(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	if err := h.goalService.Delete(c.Request.Context(), uid, goalRef(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
