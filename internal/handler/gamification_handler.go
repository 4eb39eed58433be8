package handler

import (
	"fmt"
	"net/http"

	"github.com/BLUETOID/RIMAP/internal/dto"
	"github.com/BLUETOID/RIMAP/internal/service"
	"github.com/BLUETOID/RIMAP/pkg/response"
	"github.com/BLUETOID/RIMAP/pkg/validator"
	"github.com/gin-gonic/gin"
)

type GamificationHandler struct {
	service service.GamificationService
}

func NewGamificationHandler(svc service.GamificationService) *GamificationHandler {
	return &GamificationHandler{service: svc}
}

func (h *GamificationHandler) GetStats(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	stats, err := h.service.GetStats(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *GamificationHandler) GetAchievements(c *gin.Context) {
	achievements, err := h.service.ListAchievements(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": achievements})
}

func (h *GamificationHandler) GetMyAchievements(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	unlocked, err := h.service.ListUserAchievements(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": unlocked})
}

func (h *GamificationHandler) GetChallenges(c *gin.Context) {
	challenges, err := h.service.ListChallenges(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": challenges})
}

func (h *GamificationHandler) GetMyChallenges(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	challenges, err := h.service.ListUserChallenges(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": challenges})
}

func (h *GamificationHandler) JoinChallenge(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	challengeID := c.Param("id")
	if err := h.service.JoinChallenge(c.Request.Context(), userID, challengeID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("joined challenge %s", challengeID)})
}

func (h *GamificationHandler) UpdateChallengeProgress(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateChallengeProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	challengeID := c.Param("id")
	if err := h.service.UpdateChallengeProgress(c.Request.Context(), userID, challengeID, req.Progress); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "progress updated"})
}

func (h *GamificationHandler) GetTransactions(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var pagination dto.PaginationQuery
	if err := c.ShouldBindQuery(&pagination); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	transactions, err := h.service.ListTransactions(c.Request.Context(), userID, pagination.PerPage(), pagination.Offset())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": transactions})
}
