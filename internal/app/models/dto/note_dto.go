package dto

import (
	"time"

	"github.com/yigit/notehub/internal/app/models"
)

// --- Request DTOs ---

// CreateNoteRequest is the multipart form sent by the add-note screen.
// The file part is read separately; Content is used when no file is attached.
type CreateNoteRequest struct {
	Title       string  `form:"title" binding:"required,max=255" example:"Calc II midterm"`
	SubjectID   string  `form:"subjectId" binding:"required" example:"7f0c3d3e-0e0a-4c8c-9b5e-3f0f6a1d2b11"`
	ProfessorID string  `form:"professorId" binding:"required" example:"0b6c6a59-4e55-4c11-8f35-7d2f5b9fe0c2"`
	Year        int     `form:"year" binding:"required" example:"2024"`
	Content     *string `form:"content" example:"Integration by parts, series convergence..."`
}

// ListNotesQuery binds the note listing filters
type ListNotesQuery struct {
	SubjectID   *string `form:"subjectId"`
	ProfessorID *string `form:"professorId"`
	OwnerID     *string `form:"ownerId"`
	Year        *int    `form:"year"`
	Page        int     `form:"page,default=1" binding:"omitempty,min=1"`
	Size        int     `form:"size,default=10" binding:"omitempty,min=1,max=100"`
}

// --- Response DTOs ---

// NoteResponse represents a note together with its joined names and aggregates
type NoteResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title" example:"Calc II midterm"`
	SubjectID       string    `json:"subjectId"`
	SubjectName     string    `json:"subjectName" example:"Calculus II"`
	ProfessorID     string    `json:"professorId"`
	ProfessorName   string    `json:"professorName" example:"Dr. Ada Lovelace"`
	OwnerID         string    `json:"ownerId"`
	OwnerUsername   string    `json:"ownerUsername" example:"ada"`
	OwnerUniversity *string   `json:"ownerUniversity,omitempty"`
	OwnerMajor      *string   `json:"ownerMajor,omitempty"`
	Year            int       `json:"year" example:"2024"`
	FileType        string    `json:"fileType" example:"pdf"`
	Content         *string   `json:"content,omitempty"`
	HasFile         bool      `json:"hasFile"`
	DownloadCount   int64     `json:"downloadCount" example:"3"`
	AverageRating   float64   `json:"averageRating" example:"4.5"`
	RatingCount     int64     `json:"ratingCount" example:"2"`
	StarIcons       int       `json:"starIcons" example:"5"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NoteListResponse represents a page of notes
type NoteListResponse struct {
	Notes      []NoteResponse `json:"notes"`
	Pagination PaginationInfo `json:"pagination"`
}

// NewNoteResponse maps a joined note onto its response shape
func NewNoteResponse(n *models.NoteDetails) NoteResponse {
	filePath, fileType, content := models.PayloadColumns(n.Payload)
	return NoteResponse{
		ID:              n.ID,
		Title:           n.Title,
		SubjectID:       n.SubjectID,
		SubjectName:     n.SubjectName,
		ProfessorID:     n.ProfessorID,
		ProfessorName:   n.ProfessorName,
		OwnerID:         n.OwnerID,
		OwnerUsername:   n.OwnerUsername,
		OwnerUniversity: n.OwnerUniversity,
		OwnerMajor:      n.OwnerMajor,
		Year:            n.Year,
		FileType:        fileType,
		Content:         content,
		HasFile:         filePath != nil,
		DownloadCount:   n.DownloadCount,
		AverageRating:   n.AverageRating,
		RatingCount:     n.RatingCount,
		StarIcons:       models.StarIcons(n.AverageRating),
		CreatedAt:       n.CreatedAt,
	}
}

// NewNoteListResponse maps a page of notes
func NewNoteListResponse(notes []models.NoteDetails, pagination PaginationInfo) NoteListResponse {
	items := make([]NoteResponse, 0, len(notes))
	for i := range notes {
		items = append(items, NewNoteResponse(&notes[i]))
	}
	return NoteListResponse{Notes: items, Pagination: pagination}
}

// ReferenceResponse is a subject or professor in a dropdown
type ReferenceResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewSubjectResponses maps subjects for the add-note form
func NewSubjectResponses(subjects []models.Subject) []ReferenceResponse {
	out := make([]ReferenceResponse, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, ReferenceResponse{ID: s.ID, Name: s.Name})
	}
	return out
}

// NewProfessorResponses maps professors for the add-note form
func NewProfessorResponses(professors []models.Professor) []ReferenceResponse {
	out := make([]ReferenceResponse, 0, len(professors))
	for _, p := range professors {
		out = append(out, ReferenceResponse{ID: p.ID, Name: p.Name})
	}
	return out
}
