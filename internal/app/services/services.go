package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/yigit/notehub/internal/app/models"
	"github.com/yigit/notehub/internal/app/models/dto"
)

// Store interfaces implemented by the repositories package.

// NoteStore persists notes
type NoteStore interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id string) (*models.NoteDetails, error)
	Exists(ctx context.Context, id string) (bool, error)
	ReferencesExist(ctx context.Context, subjectID, professorID string) (subject, professor bool, err error)
	List(ctx context.Context, filter models.NoteFilter) ([]models.NoteDetails, dto.PaginationInfo, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// DownloadStore appends download events
type DownloadStore interface {
	Create(ctx context.Context, download *models.Download) error
}

// RatingStore persists ratings
type RatingStore interface {
	Upsert(ctx context.Context, rating *models.Rating) (*models.Rating, error)
	ListForNote(ctx context.Context, noteID string) ([]models.RatingDetails, error)
	GetForRater(ctx context.Context, noteID, raterID string) (*models.Rating, error)
	Summary(ctx context.Context, noteID string) (models.RatingSummary, error)
}

// ProfileStore persists profiles
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	CreateIfMissing(ctx context.Context, profile *models.Profile) (bool, error)
	Update(ctx context.Context, id string, update models.ProfileUpdate) (*models.Profile, error)
	UpdateAvatarURL(ctx context.Context, id, avatarURL string) error
}

// ReferenceStore reads subjects and professors
type ReferenceStore interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListProfessors(ctx context.Context) ([]models.Professor, error)
}

var (
	notesCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notehub_notes_created_total",
		Help: "Notes created, by file type.",
	}, []string{"file_type"})

	orphanedBlobsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notehub_orphaned_blobs_total",
		Help: "Note files uploaded whose record insert failed afterwards.",
	})

	downloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notehub_note_downloads_total",
		Help: "Note file downloads served.",
	})

	ratingsSubmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notehub_ratings_submitted_total",
		Help: "Rating submissions (insert or overwrite), by stars.",
	}, []string{"stars"})
)

// sniffLen matches the number of bytes mimetype inspects by default.
const sniffLen = 3072

// sniff detects the content type of r from its first bytes and returns a
// reader that still yields the whole content. An empty stream reports ok=false.
func sniff(r io.Reader) (mime *mimetype.MIME, body io.Reader, ok bool, err error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, nil, false, err
	}
	head = head[:n]
	if n == 0 {
		return nil, nil, false, nil
	}
	return mimetype.Detect(head), io.MultiReader(bytes.NewReader(head), r), true, nil
}

// isRasterImage accepts image/* except SVG, which can carry script.
func isRasterImage(mime *mimetype.MIME) bool {
	return strings.HasPrefix(mime.String(), "image/") && !mime.Is("image/svg+xml")
}
