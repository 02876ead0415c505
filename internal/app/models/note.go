package models

import (
	"fmt"
	"time"
)

// FileKind is the kind of an uploaded note file.
type FileKind string

const (
	FileKindPDF   FileKind = "pdf"
	FileKindImage FileKind = "image"
)

// FileTypeText is the file_type stored for notes with inline text content.
const FileTypeText = "text"

// Valid reports whether k is a known file kind.
func (k FileKind) Valid() bool {
	return k == FileKindPDF || k == FileKindImage
}

// Payload is the body of a note: either an uploaded file or inline text.
// The two implementations are the only ones; the unexported method seals the set.
type Payload interface {
	// FileType is the stored discriminator: "pdf", "image" or "text".
	FileType() string
	isPayload()
}

// FilePayload references an uploaded blob in the notes namespace.
type FilePayload struct {
	Path string
	Kind FileKind
}

// TextPayload carries the note body inline.
type TextPayload struct {
	Content string
}

func (p FilePayload) FileType() string { return string(p.Kind) }
func (FilePayload) isPayload()         {}

func (TextPayload) FileType() string { return FileTypeText }
func (TextPayload) isPayload()       {}

// PayloadColumns flattens a payload onto the file_path, file_type and content columns.
func PayloadColumns(p Payload) (filePath *string, fileType string, content *string) {
	switch v := p.(type) {
	case FilePayload:
		path := v.Path
		return &path, string(v.Kind), nil
	case TextPayload:
		text := v.Content
		return nil, FileTypeText, &text
	default:
		return nil, "", nil
	}
}

// PayloadFromColumns rebuilds the payload from its stored columns.
func PayloadFromColumns(filePath *string, fileType string, content *string) (Payload, error) {
	switch fileType {
	case string(FileKindPDF), string(FileKindImage):
		if filePath == nil || *filePath == "" {
			return nil, fmt.Errorf("note of type %q has no file path", fileType)
		}
		return FilePayload{Path: *filePath, Kind: FileKind(fileType)}, nil
	case FileTypeText:
		if content == nil {
			return TextPayload{}, nil
		}
		return TextPayload{Content: *content}, nil
	default:
		return nil, fmt.Errorf("unknown note file type %q", fileType)
	}
}

// Note is a user-submitted study artifact.
// DownloadCount, AverageRating and RatingCount are derived at read time.
type Note struct {
	ID            string
	Title         string
	OwnerID       string
	SubjectID     string
	ProfessorID   string
	Year          int
	Payload       Payload
	CreatedAt     time.Time
	DownloadCount int64
	AverageRating float64
	RatingCount   int64
}

// File returns the file payload, if the note has one.
func (n *Note) File() (FilePayload, bool) {
	f, ok := n.Payload.(FilePayload)
	return f, ok
}

// Text returns the inline content, if the note has one.
func (n *Note) Text() (string, bool) {
	t, ok := n.Payload.(TextPayload)
	return t.Content, ok
}

// FileType returns the payload discriminator, or "" for a note without payload.
func (n *Note) FileType() string {
	if n.Payload == nil {
		return ""
	}
	return n.Payload.FileType()
}

// NoteDetails is a Note joined with its subject, professor and owner names.
type NoteDetails struct {
	Note
	SubjectName     string
	ProfessorName   string
	OwnerUsername   string
	OwnerUniversity *string
	OwnerMajor      *string
}

// NoteFilter narrows a note listing. Nil fields do not filter.
type NoteFilter struct {
	SubjectID   *string
	ProfessorID *string
	OwnerID     *string
	Year        *int
	Page        int
	Size        int
}
