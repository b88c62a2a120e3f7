package api

import (
	"fmt"
	"net/http"

	"fitpro/tracker/internal/service"
	"fitpro/tracker/internal/timeseries"

	"github.com/gin-gonic/gin"
)

type NutritionHandler struct {
	nutritionService service.NutritionService
}

func NewNutritionHandler(nutritionService service.NutritionService) *NutritionHandler {
	return &NutritionHandler{nutritionService: nutritionService}
}

func (h *NutritionHandler) LogMeal(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req service.MealInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	entry, err := h.nutritionService.LogMeal(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *NutritionHandler) GetMeals(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	days, ok := daysParam(c, timeseries.AllTime)
	if !ok {
		return
	}
	meals, err := h.nutritionService.History(c.Request.Context(), uid, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

// GetDaily returns per-date totals.
func (h *NutritionHandler) GetDaily(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	days, ok := daysParam(c, timeseries.AllTime)
	if !ok {
		return
	}
	daily, err := h.nutritionService.Daily(c.Request.Context(), uid, days)
	if err != nil {
		respondError(c, err)
		return
	}
	if daily == nil {
		daily = []timeseries.DailyNutrition{}
	}
	c.JSON(http.StatusOK, daily)
}

func (h *NutritionHandler) DeleteMeal(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	if err := h.nutritionService.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
