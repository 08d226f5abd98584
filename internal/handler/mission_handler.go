package handler

import (
	"net/http"

	"quizverse_backend/internal/service"
	"quizverse_backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type MissionHandler struct {
	missions service.MissionService
}

func NewMissionHandler(missions service.MissionService) *MissionHandler {
	return &MissionHandler{missions: missions}
}

// List returns the caller's mission assignments, active first.
func (h *MissionHandler) List(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	assignments, err := h.missions.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"missions": assignments})
}

func (h *MissionHandler) Stats(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	stats, err := h.missions.StatsForUser(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
