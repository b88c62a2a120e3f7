package api

import (
	"fmt"
	"net/http"

	"fitpro/tracker/internal/domain"
	"fitpro/tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile returns the stored profile, or the default one before the first save.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	p, err := h.profileService.Get(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// SaveProfile replaces the whole profile.
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req domain.UserProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	p, err := h.profileService.Save(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) GetOverview(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	overview, err := h.profileService.Overview(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
