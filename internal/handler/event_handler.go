package handler

import (
	"net/http"

	"github.com/BLUETOID/RIMAP/internal/dto"
	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/BLUETOID/RIMAP/internal/service"
	"github.com/BLUETOID/RIMAP/pkg/response"
	"github.com/BLUETOID/RIMAP/pkg/validator"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{service: svc}
}

func (h *EventHandler) GetEvents(c *gin.Context) {
	var filter dto.EventFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	events, err := h.service.GetEvents(c.Request.Context(), filter.Type)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.service.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) RSVP(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	rsvp, err := h.service.RSVP(c.Request.Context(), userID, c.Param("id"), model.RSVPStatus(req.Status))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, rsvp)
}
