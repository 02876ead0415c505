package models

import (
	"math"
	"time"
)

// Rating is a 1-5 star score with an optional comment, one per (note, rater).
type Rating struct {
	ID        string    `db:"id" json:"id"`
	NoteID    string    `db:"note_id" json:"noteId"`
	RaterID   string    `db:"user_id" json:"raterId"`
	Stars     int       `db:"stars" json:"stars"`
	Comment   *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// RatingDetails is a Rating joined with the rater's username.
type RatingDetails struct {
	Rating
	RaterUsername string `db:"rater_username" json:"raterUsername"`
}

// RatingSummary is the derived aggregate over all ratings of a note.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// StarIcons rounds an average to the number of filled stars shown for it.
// Display only; the average itself stays a float.
func StarIcons(average float64) int {
	return int(math.Round(average))
}
