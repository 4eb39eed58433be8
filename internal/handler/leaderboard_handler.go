package handler

import (
	"net/http"

	"github.com/BLUETOID/RIMAP/internal/dto"
	"github.com/BLUETOID/RIMAP/internal/service"
	"github.com/BLUETOID/RIMAP/pkg/response"
	"github.com/BLUETOID/RIMAP/pkg/validator"
	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	service service.LeaderboardService
}

func NewLeaderboardHandler(svc service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: svc}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	var query dto.LeaderboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	var (
		entries []service.LeaderboardEntry
		err     error
	)
	if query.Department != "" {
		entries, err = h.service.GetDepartmentLeaderboard(c.Request.Context(), query.Department, query.Limit)
	} else {
		entries, err = h.service.GetLeaderboard(c.Request.Context(), service.LeaderboardCategory(query.Category), query.Limit)
	}
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": query.Category,
		"data":     entries,
	})
}
