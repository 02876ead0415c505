package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/notehub/internal/app/models/dto"
	"github.com/yigit/notehub/internal/app/services"
	"github.com/yigit/notehub/internal/middleware"
)

// RatingController handles the ratings of a note
type RatingController struct {
	ratingService services.RatingService
}

// NewRatingController creates a new RatingController
func NewRatingController(ratingService services.RatingService) *RatingController {
	return &RatingController{ratingService: ratingService}
}

// ListRatings godoc
// @Summary List a note's ratings
// @Description Ratings newest first together with the average and count
// @Tags ratings
// @Produce json
// @Param id path string true "Note ID"
// @Success 200 {object} dto.APIResponse{data=dto.RatingListResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /notes/{id}/ratings [get]
func (c *RatingController) ListRatings(ctx *gin.Context) {
	noteID := ctx.Param("id")

	ratings, err := c.ratingService.ListForNote(ctx.Request.Context(), noteID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	summary, err := c.ratingService.Summary(ctx.Request.Context(), noteID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, dto.NewRatingListResponse(ratings, summary))
}

// GetRatingSummary returns only the average and count
func (c *RatingController) GetRatingSummary(ctx *gin.Context) {
	summary, err := c.ratingService.Summary(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, dto.NewRatingSummaryResponse(summary))
}

// GetMyRating returns the requester's rating of a note
func (c *RatingController) GetMyRating(ctx *gin.Context) {
	rating, err := c.ratingService.GetForRater(ctx.Request.Context(), ctx.Param("id"), middleware.RequesterID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, dto.NewRatingResponse(rating))
}

// UpsertMyRating godoc
// @Summary Rate a note
// @Description Creates the requester's rating, or overwrites stars and comment of an existing one
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Param request body dto.UpsertRatingRequest true "Stars 1-5 and optional comment"
// @Success 200 {object} dto.APIResponse{data=dto.RatingResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /notes/{id}/ratings/me [put]
func (c *RatingController) UpsertMyRating(ctx *gin.Context) {
	var req dto.UpsertRatingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rating, err := c.ratingService.Upsert(ctx.Request.Context(), ctx.Param("id"), middleware.RequesterID(ctx), req.Stars, req.Comment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, dto.NewRatingResponse(rating))
}
