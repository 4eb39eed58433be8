package handler

import (
	"net/http"

	"github.com/BLUETOID/RIMAP/internal/service"
	"github.com/BLUETOID/RIMAP/pkg/response"
	"github.com/gin-gonic/gin"
)

type StatHandler struct {
	statService service.StatService
}

func NewStatHandler(statService service.StatService) *StatHandler {
	return &StatHandler{
		statService: statService,
	}
}

func (h *StatHandler) GetPortalStats(c *gin.Context) {
	stats, err := h.statService.GetPortalStats(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
