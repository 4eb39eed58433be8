package handler

import (
	"net/http"

	"github.com/BLUETOID/RIMAP/internal/dto"
	"github.com/BLUETOID/RIMAP/internal/service"
	"github.com/BLUETOID/RIMAP/pkg/response"
	"github.com/BLUETOID/RIMAP/pkg/validator"
	"github.com/gin-gonic/gin"
)

type DonationHandler struct {
	service service.DonationService
}

func NewDonationHandler(svc service.DonationService) *DonationHandler {
	return &DonationHandler{service: svc}
}

func (h *DonationHandler) GetCauses(c *gin.Context) {
	var filter dto.CauseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	causes, err := h.service.GetCauses(c.Request.Context(), filter.Category)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": causes})
}

func (h *DonationHandler) GetCause(c *gin.Context) {
	cause, err := h.service.GetCause(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, cause)
}

func (h *DonationHandler) Donate(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.DonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	record, err := h.service.Donate(c.Request.Context(), userID, c.Param("id"), service.DonateInput{
		Amount:    int(req.Amount),
		Anonymous: req.Anonymous,
		Message:   req.Message,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *DonationHandler) GetMyDonations(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	records, err := h.service.GetUserDonations(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}
