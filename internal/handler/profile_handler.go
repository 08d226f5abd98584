package handler

import (
	"net/http"

	"quizverse_backend/internal/service"
	"quizverse_backend/pkg/response"
	"quizverse_backend/pkg/validator"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profiles service.ProfileService
}

func NewProfileHandler(profiles service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	info, err := h.profiles.Info(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

type updateProfileRequest struct {
	Name            *string `json:"name"`
	Surname         *string `json:"surname"`
	Bio             *string `json:"bio"`
	Birthday        *string `json:"birthday"`
	Location        *string `json:"location"`
	Website         *string `json:"website"`
	CurrentAvatarID *uint   `json:"current_avatar_id"`
	CurrentTitleID  *uint   `json:"current_title_id"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	user, err := h.profiles.Update(c.Request.Context(), userID, service.UpdateProfileInput{
		Name:            req.Name,
		Surname:         req.Surname,
		Bio:             req.Bio,
		Birthday:        req.Birthday,
		Location:        req.Location,
		Website:         req.Website,
		CurrentAvatarID: req.CurrentAvatarID,
		CurrentTitleID:  req.CurrentTitleID,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *ProfileHandler) UploadImage(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	url, err := h.profiles.UploadCustomImage(c.Request.Context(), userID, file, fileHeader.Filename)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

type setPhoneRequest struct {
	Phone string `json:"phone" binding:"required,max=30"`
}

func (h *ProfileHandler) SetPhone(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req setPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.profiles.SetPhone(c.Request.Context(), userID, req.Phone); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "phone updated"})
}

type setNotificationsRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func (h *ProfileHandler) SetEmailNotifications(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req setNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.profiles.SetEmailNotifications(c.Request.Context(), userID, *req.Enabled); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification preference updated"})
}
