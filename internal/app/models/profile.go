package models

import "time"

// Profile is the mutable public identity record of an authenticated user.
// ID is issued by the identity platform and never generated here.
type Profile struct {
	ID             string    `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	AvatarURL      *string   `db:"avatar_url" json:"avatarUrl,omitempty"`
	University     *string   `db:"university" json:"university,omitempty"`
	Major          *string   `db:"major" json:"major,omitempty"`
	StudyStartYear *int      `db:"study_start_year" json:"studyStartYear,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// ProfileUpdate carries the owner-editable fields. Nil leaves a field unchanged.
type ProfileUpdate struct {
	Username       *string
	University     *string
	Major          *string
	StudyStartYear *int
}

// IsEmpty reports whether the update would change nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Username == nil && u.University == nil && u.Major == nil && u.StudyStartYear == nil
}
