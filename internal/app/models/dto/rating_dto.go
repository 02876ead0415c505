package dto

import (
	"time"

	"github.com/yigit/notehub/internal/app/models"
)

// UpsertRatingRequest creates or overwrites the requester's rating of a note.
// Range checks on stars are enforced by the rating service.
type UpsertRatingRequest struct {
	Stars   int     `json:"stars" binding:"required" example:"4"`
	Comment *string `json:"comment" binding:"omitempty,max=2000" example:"Clear and complete"`
}

// RatingResponse represents a single rating
type RatingResponse struct {
	ID            string    `json:"id"`
	NoteID        string    `json:"noteId"`
	RaterID       string    `json:"raterId"`
	RaterUsername string    `json:"raterUsername,omitempty"`
	Stars         int       `json:"stars" example:"4"`
	Comment       *string   `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RatingSummaryResponse is the derived aggregate of a note's ratings
type RatingSummaryResponse struct {
	Average   float64 `json:"average" example:"4.5"`
	Count     int64   `json:"count" example:"2"`
	StarIcons int     `json:"starIcons" example:"5"`
}

// RatingListResponse lists a note's ratings newest first
type RatingListResponse struct {
	Ratings []RatingResponse      `json:"ratings"`
	Summary RatingSummaryResponse `json:"summary"`
}

// NewRatingResponse maps a rating
func NewRatingResponse(r *models.Rating) RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		NoteID:    r.NoteID,
		RaterID:   r.RaterID,
		Stars:     r.Stars,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// NewRatingSummaryResponse maps an aggregate
func NewRatingSummaryResponse(s models.RatingSummary) RatingSummaryResponse {
	return RatingSummaryResponse{
		Average:   s.Average,
		Count:     s.Count,
		StarIcons: models.StarIcons(s.Average),
	}
}

// NewRatingListResponse maps the ratings of a note and their summary
func NewRatingListResponse(ratings []models.RatingDetails, summary models.RatingSummary) RatingListResponse {
	items := make([]RatingResponse, 0, len(ratings))
	for i := range ratings {
		resp := NewRatingResponse(&ratings[i].Rating)
		resp.RaterUsername = ratings[i].RaterUsername
		items = append(items, resp)
	}
	return RatingListResponse{Ratings: items, Summary: NewRatingSummaryResponse(summary)}
}
