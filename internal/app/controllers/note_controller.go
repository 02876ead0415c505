package controllers

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/notehub/internal/app/models"
	"github.com/yigit/notehub/internal/app/models/dto"
	"github.com/yigit/notehub/internal/app/services"
	"github.com/yigit/notehub/internal/middleware"
)

// NoteController handles note operations
type NoteController struct {
	noteService    services.NoteService
	maxUploadBytes int64
}

// NewNoteController creates a new NoteController
func NewNoteController(noteService services.NoteService, maxUploadBytes int64) *NoteController {
	return &NoteController{
		noteService:    noteService,
		maxUploadBytes: maxUploadBytes,
	}
}

// ListNotes godoc
// @Summary List notes
// @Description Notes newest first, filtered by subject, professor, owner or year
// @Tags notes
// @Produce json
// @Param subjectId query string false "Filter by subject"
// @Param professorId query string false "Filter by professor"
// @Param ownerId query string false "Filter by owner"
// @Param year query int false "Filter by year"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.NoteListResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /notes [get]
func (c *NoteController) ListNotes(ctx *gin.Context) {
	var query dto.ListNotesQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	notes, pagination, err := c.noteService.List(ctx.Request.Context(), models.NoteFilter{
		SubjectID:   query.SubjectID,
		ProfessorID: query.ProfessorID,
		OwnerID:     query.OwnerID,
		Year:        query.Year,
		Page:        query.Page,
		Size:        query.Size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, dto.NewNoteListResponse(notes, pagination))
}

// GetNote godoc
// @Summary Get a note
// @Description A note with subject, professor and owner names, download count and average rating
// @Tags notes
// @Produce json
// @Param id path string true "Note ID"
// @Success 200 {object} dto.APIResponse{data=dto.NoteResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /notes/{id} [get]
func (c *NoteController) GetNote(ctx *gin.Context) {
	note, err := c.noteService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, dto.NewNoteResponse(note))
}

// CreateNote godoc
// @Summary Create a note
// @Description Create a note from an uploaded PDF or image, or from text content
// @Tags notes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param subjectId formData string true "Subject ID"
// @Param professorId formData string true "Professor ID"
// @Param year formData int true "Year"
// @Param content formData string false "Text content, when no file is attached"
// @Param file formData file false "PDF or image"
// @Success 201 {object} dto.APIResponse{data=dto.NoteResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 502 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /notes [post]
func (c *NoteController) CreateNote(ctx *gin.Context) {
	if !parseMultipart(ctx, c.maxUploadBytes) {
		return
	}

	var req dto.CreateNoteRequest
	if !middleware.BindForm(ctx, &req) {
		return
	}

	input := services.CreateNoteInput{
		Title:       req.Title,
		SubjectID:   req.SubjectID,
		ProfessorID: req.ProfessorID,
		Year:        req.Year,
		Text:        req.Content,
	}

	file, header, err := formFile(ctx, "file")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if file != nil {
		defer file.Close()
		input.Upload = &services.FileUpload{FileName: header.Filename, Reader: file}
	}

	note, err := c.noteService.Create(ctx.Request.Context(), middleware.RequesterID(ctx), input)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewNoteResponse(note)))
}

// DeleteNote godoc
// @Summary Delete a note
// @Description Only the owner may delete; ratings and downloads go with it
// @Tags notes
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /notes/{id} [delete]
func (c *NoteController) DeleteNote(ctx *gin.Context) {
	if err := c.noteService.Delete(ctx.Request.Context(), ctx.Param("id"), middleware.RequesterID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, dto.SuccessResponse{Message: "Note deleted"})
}

// DownloadNote streams the note's file as an attachment and records the download
// @Summary Download a note file
// @Description Streams the file of a note and records one download. Text notes have no file.
// @Tags notes
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Success 200 {file} binary
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 502 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /notes/{id}/download [get]
func (c *NoteController) DownloadNote(ctx *gin.Context) {
	reader, info, err := c.noteService.Download(ctx.Request.Context(), ctx.Param("id"), middleware.RequesterID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer reader.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": info.FileName})
	ctx.DataFromReader(http.StatusOK, info.Size, info.ContentType, reader, map[string]string{
		"Content-Disposition": disposition,
	})
}
