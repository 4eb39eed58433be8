package handler

import (
	"net/http"

	"github.com/BLUETOID/RIMAP/internal/dto"
	"github.com/BLUETOID/RIMAP/internal/service"
	"github.com/BLUETOID/RIMAP/pkg/response"
	"github.com/BLUETOID/RIMAP/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
	searchService  service.SearchService
}

func NewProfileHandler(profileService service.ProfileService, searchService service.SearchService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		searchService:  searchService,
	}
}

func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	user, err := h.profileService.GetProfile(c.Request.Context(), userID.String())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	user.PasswordHash = ""
	c.JSON(http.StatusOK, user)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	input := service.UpdateProfileInput{
		Name:              req.Name,
		GraduationYear:    req.GraduationYear,
		Department:        req.Department,
		CurrentCompany:    req.CurrentCompany,
		Position:          req.Position,
		Skills:            req.Skills,
		Bio:               req.Bio,
		Location:          req.Location,
		ContactPreference: req.ContactPreference,
	}

	if fileHeader, err := c.FormFile("avatar"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read avatar"})
			return
		}
		defer file.Close()

		input.Avatar = &service.AvatarFile{
			Reader:   file,
			FileName: fileHeader.Filename,
		}
	}

	user, err := h.profileService.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	user.PasswordHash = ""
	c.JSON(http.StatusOK, user)
}

func (h *ProfileHandler) SearchAlumni(c *gin.Context) {
	var req dto.AlumniSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	results, err := h.searchService.Search(c.Request.Context(), service.AlumniSearchQuery{
		Query:          req.Query,
		GraduationYear: req.GraduationYear,
		Department:     req.Department,
		Company:        req.Company,
		Limit:          req.Limit,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": results})
}
