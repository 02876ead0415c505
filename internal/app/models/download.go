package models

import "time"

// Download is one append-only download event. Repeat downloads all count.
type Download struct {
	ID        string    `db:"id" json:"id"`
	NoteID    string    `db:"note_id" json:"noteId"`
	UserID    string    `db:"user_id" json:"userId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
