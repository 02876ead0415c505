package dto

import (
	"time"

	"github.com/yigit/notehub/internal/app/models"
)

// UpdateProfileRequest carries the fields of the settings screen. Omitted fields stay unchanged.
type UpdateProfileRequest struct {
	Username       *string `json:"username" binding:"omitempty,max=50" example:"ada"`
	University     *string `json:"university" binding:"omitempty,max=255" example:"METU"`
	Major          *string `json:"major" binding:"omitempty,max=255" example:"Mathematics"`
	StudyStartYear *int    `json:"studyStartYear" example:"2021"`
}

// ToModel converts the request into a profile update
func (r UpdateProfileRequest) ToModel() models.ProfileUpdate {
	return models.ProfileUpdate{
		Username:       r.Username,
		University:     r.University,
		Major:          r.Major,
		StudyStartYear: r.StudyStartYear,
	}
}

// ProfileResponse represents a public profile
type ProfileResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username" example:"ada"`
	AvatarURL      *string   `json:"avatarUrl,omitempty"`
	University     *string   `json:"university,omitempty"`
	Major          *string   `json:"major,omitempty"`
	StudyStartYear *int      `json:"studyStartYear,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// AvatarResponse returns the stable public URL of an uploaded avatar
type AvatarResponse struct {
	AvatarURL string `json:"avatarUrl" example:"http://localhost:8080/storage/avatars/u1/avatar.png"`
}

// NewProfileResponse maps a profile
func NewProfileResponse(p *models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:             p.ID,
		Username:       p.Username,
		AvatarURL:      p.AvatarURL,
		University:     p.University,
		Major:          p.Major,
		StudyStartYear: p.StudyStartYear,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
