package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/notehub/internal/app/models/dto"
	"github.com/yigit/notehub/internal/app/services"
	"github.com/yigit/notehub/internal/middleware"
)

// ReferenceController serves the subject and professor dropdowns
type ReferenceController struct {
	referenceService services.ReferenceService
}

// NewReferenceController creates a new ReferenceController
func NewReferenceController(referenceService services.ReferenceService) *ReferenceController {
	return &ReferenceController{referenceService: referenceService}
}

// ListSubjects returns all subjects sorted by name
func (c *ReferenceController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.referenceService.ListSubjects(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.NewSubjectResponses(subjects))
}

// ListProfessors returns all professors sorted by name
func (c *ReferenceController) ListProfessors(ctx *gin.Context) {
	professors, err := c.referenceService.ListProfessors(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.NewProfessorResponses(professors))
}
