package handler

import (
	"fmt"
	"net/http"

	"github.com/BLUETOID/RIMAP/internal/dto"
	"github.com/BLUETOID/RIMAP/internal/service"
	"github.com/BLUETOID/RIMAP/pkg/response"
	"github.com/BLUETOID/RIMAP/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MentorshipHandler struct {
	service service.MentorshipService
}

func NewMentorshipHandler(svc service.MentorshipService) *MentorshipHandler {
	return &MentorshipHandler{service: svc}
}

func (h *MentorshipHandler) SendRequest(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.SendMentorshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	mentorID, err := uuid.Parse(req.MentorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mentor id"})
		return
	}

	request, err := h.service.SendRequest(c.Request.Context(), userID, service.SendMentorshipInput{
		MentorID:  mentorID,
		Subject:   req.Subject,
		Message:   req.Message,
		Expertise: req.Expertise,
	})
	if err != nil {
		if rateLimitErr, ok := err.(*service.RateLimitError); ok {
			c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": rateLimitErr.Message})
			return
		}
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *MentorshipHandler) Respond(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	var req dto.RespondMentorshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	request, err := h.service.Respond(c.Request.Context(), userID, requestID, *req.Accept)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *MentorshipHandler) GetIncoming(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	requests, err := h.service.GetForMentor(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": requests})
}

func (h *MentorshipHandler) GetOutgoing(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	requests, err := h.service.GetForMentee(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": requests})
}
