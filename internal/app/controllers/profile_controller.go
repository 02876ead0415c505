package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/notehub/internal/app/models/dto"
	"github.com/yigit/notehub/internal/app/services"
	"github.com/yigit/notehub/internal/middleware"
	"github.com/yigit/notehub/internal/pkg/apperrors"
)

// ProfileController handles profile operations
type ProfileController struct {
	profileService services.ProfileService
	maxUploadBytes int64
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService, maxUploadBytes int64) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		maxUploadBytes: maxUploadBytes,
	}
}

// GetMyProfile returns the requester's profile
func (c *ProfileController) GetMyProfile(ctx *gin.Context) {
	c.respondProfile(ctx, middleware.RequesterID(ctx))
}

// GetProfile returns a public profile
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	c.respondProfile(ctx, ctx.Param("id"))
}

func (c *ProfileController) respondProfile(ctx *gin.Context, id string) {
	profile, err := c.profileService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, dto.NewProfileResponse(profile))
}

// UpdateMyProfile godoc
// @Summary Update own profile
// @Description Change username, university, major or study start year. Omitted fields are kept.
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /profiles/me [put]
func (c *ProfileController) UpdateMyProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	requesterID := middleware.RequesterID(ctx)
	profile, err := c.profileService.Update(ctx.Request.Context(), requesterID, requesterID, req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, dto.NewProfileResponse(profile))
}

// UpdateMyAvatar replaces the requester's avatar with the uploaded "avatar" image
// @Router /profiles/me/avatar [put]
func (c *ProfileController) UpdateMyAvatar(ctx *gin.Context) {
	if !parseMultipart(ctx, c.maxUploadBytes) {
		return
	}

	file, _, err := formFile(ctx, "avatar")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if file == nil {
		middleware.HandleAPIError(ctx, apperrors.NewFieldValidationError("avatar", "avatar image is required"))
		return
	}
	defer file.Close()

	requesterID := middleware.RequesterID(ctx)
	url, err := c.profileService.UpdateAvatar(ctx.Request.Context(), requesterID, requesterID, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, dto.AvatarResponse{AvatarURL: url})
}
