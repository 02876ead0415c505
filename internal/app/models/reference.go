package models

// Subject is a course a note belongs to. Read-only for clients.
type Subject struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Professor is the lecturer a note was taken under. Read-only for clients.
type Professor struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
