package services

import (
	"bufio"
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/yigit/notehub/internal/app/auth"
	"github.com/yigit/notehub/internal/app/models"
	"github.com/yigit/notehub/internal/app/models/dto"
	"github.com/yigit/notehub/internal/pkg/apperrors"
	"github.com/yigit/notehub/internal/pkg/filestorage"
	"github.com/yigit/notehub/internal/pkg/logger"
	"github.com/yigit/notehub/internal/pkg/validation"
)

// MaxTitleLength is the longest note title accepted
const MaxTitleLength = 255

// FileUpload is an uploaded note file as received from the client
type FileUpload struct {
	FileName string
	Reader   io.Reader
}

// CreateNoteInput carries a new note. Exactly one of Upload and Text must be set.
type CreateNoteInput struct {
	Title       string
	SubjectID   string
	ProfessorID string
	Year        int
	Upload      *FileUpload
	Text        *string
}

// DownloadInfo describes a file stream returned by Download
type DownloadInfo struct {
	FileName    string
	ContentType string
	Size        int64
}

// NoteService defines the interface for note operations
type NoteService interface {
	List(ctx context.Context, filter models.NoteFilter) ([]models.NoteDetails, dto.PaginationInfo, error)
	Create(ctx context.Context, requesterID string, input CreateNoteInput) (*models.NoteDetails, error)
	Get(ctx context.Context, id string) (*models.NoteDetails, error)
	Delete(ctx context.Context, id, requesterID string) error
	Download(ctx context.Context, id, requesterID string) (io.ReadCloser, *DownloadInfo, error)
}

// noteServiceImpl implements NoteService
type noteServiceImpl struct {
	notes     NoteStore
	downloads DownloadStore
	blobs     filestorage.BlobStore
	authz     *auth.AuthorizationService
}

// NewNoteService creates a new NoteService
func NewNoteService(
	notes NoteStore,
	downloads DownloadStore,
	blobs filestorage.BlobStore,
	authz *auth.AuthorizationService,
) NoteService {
	return &noteServiceImpl{
		notes:     notes,
		downloads: downloads,
		blobs:     blobs,
		authz:     authz,
	}
}

// List returns a page of notes, newest first
func (s *noteServiceImpl) List(ctx context.Context, filter models.NoteFilter) ([]models.NoteDetails, dto.PaginationInfo, error) {
	if filter.Year != nil {
		if err := validation.NewRangeValidation("year", *filter.Year, models.MinNoteYear, models.MaxNoteYear).Validate(); err != nil {
			return nil, dto.PaginationInfo{}, err
		}
	}
	return s.notes.List(ctx, filter)
}

func (s *noteServiceImpl) validateCreate(input *CreateNoteInput) error {
	if err := validation.First(
		validation.NewStringValidation("title", input.Title).WithMaxLength(MaxTitleLength),
		validation.NewStringValidation("subjectId", input.SubjectID),
		validation.NewStringValidation("professorId", input.ProfessorID),
		validation.NewRangeValidation("year", input.Year, models.MinNoteYear, models.MaxNoteYear),
	); err != nil {
		return err
	}

	switch {
	case input.Upload == nil && input.Text == nil:
		return apperrors.NewFieldValidationError("file", "either a file or text content is required")
	case input.Upload != nil && input.Text != nil:
		return apperrors.NewFieldValidationError("file", "a note carries either a file or text content, not both")
	case input.Text != nil:
		return validation.NewStringValidation("content", *input.Text).Validate()
	}
	return nil
}

// fileKind maps sniffed content onto the accepted note file kinds.
func fileKind(mime *mimetype.MIME, fileName string) (models.FileKind, bool) {
	switch {
	case mime.Is("application/pdf"):
		return models.FileKindPDF, true
	case isRasterImage(mime):
		return models.FileKindImage, true
	case mime.Is("application/octet-stream") && strings.EqualFold(path.Ext(fileName), ".pdf"):
		return models.FileKindPDF, true
	}
	return "", false
}

// checkReferences rejects unknown subjects and professors before anything is uploaded.
func (s *noteServiceImpl) checkReferences(ctx context.Context, input *CreateNoteInput) error {
	subjectOK, professorOK, err := s.notes.ReferencesExist(ctx, input.SubjectID, input.ProfessorID)
	if err != nil {
		return err
	}
	if !subjectOK {
		return apperrors.NewFieldValidationError("subjectId", "subject does not exist")
	}
	if !professorOK {
		return apperrors.NewFieldValidationError("professorId", "professor does not exist")
	}
	return nil
}

// Create validates the input, uploads the file (if any) and inserts the note.
// The upload and the insert are two steps: when the insert fails on the backend
// the uploaded file stays behind and is only logged. Input rejected by the
// insert removes the file again.
func (s *noteServiceImpl) Create(ctx context.Context, requesterID string, input CreateNoteInput) (*models.NoteDetails, error) {
	if err := s.authz.RequireAuthenticated(requesterID); err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	if err := s.validateCreate(&input); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, &input); err != nil {
		return nil, err
	}

	note := &models.Note{
		ID:          uuid.NewString(),
		Title:       input.Title,
		OwnerID:     requesterID,
		SubjectID:   input.SubjectID,
		ProfessorID: input.ProfessorID,
		Year:        input.Year,
	}

	var uploadedPath string
	if input.Upload != nil {
		mime, body, ok, err := sniff(input.Upload.Reader)
		if err != nil {
			return nil, apperrors.NewStorageError("failed to read uploaded file", err)
		}
		if !ok {
			return nil, apperrors.NewFieldValidationError("file", "uploaded file is empty")
		}
		kind, ok := fileKind(mime, input.Upload.FileName)
		if !ok {
			return nil, apperrors.NewFieldValidationError("file", "only PDF and image files are accepted")
		}

		ext := mime.Extension()
		if kind == models.FileKindPDF {
			ext = ".pdf"
		}
		uploadedPath = requesterID + "/" + uuid.NewString() + ext

		if _, err := s.blobs.Put(ctx, filestorage.NamespaceNotes, uploadedPath, body); err != nil {
			return nil, apperrors.NewStorageError("failed to upload note file", err)
		}
		note.Payload = models.FilePayload{Path: uploadedPath, Kind: kind}
	} else {
		note.Payload = models.TextPayload{Content: *input.Text}
	}

	if err := s.notes.Create(ctx, note); err != nil {
		if uploadedPath != "" {
			s.discardUpload(ctx, note.ID, uploadedPath, err)
		}
		if apperrors.Kind(err) == nil {
			return nil, apperrors.NewStorageError("failed to save note", err)
		}
		return nil, err
	}

	notesCreatedTotal.WithLabelValues(note.FileType()).Inc()
	logger.Info().Str("noteID", note.ID).Str("ownerID", requesterID).Str("fileType", note.FileType()).Msg("Note created")

	return s.notes.GetByID(ctx, note.ID)
}

// discardUpload handles a file whose note insert failed. A rejected insert
// (e.g. a reference deleted in between) removes the file; a backend failure
// leaves it orphaned.
func (s *noteServiceImpl) discardUpload(ctx context.Context, noteID, uploadedPath string, cause error) {
	if errors.Is(cause, apperrors.ErrValidation) || errors.Is(cause, apperrors.ErrNotFound) {
		if err := s.blobs.Delete(ctx, filestorage.NamespaceNotes, uploadedPath); err == nil {
			return
		}
	}
	orphanedBlobsTotal.Inc()
	logger.Warn().Err(cause).
		Str("noteID", noteID).
		Str("path", uploadedPath).
		Msg("Note insert failed after upload, file left orphaned")
}

// Get returns a note with its joined names
func (s *noteServiceImpl) Get(ctx context.Context, id string) (*models.NoteDetails, error) {
	return s.notes.GetByID(ctx, id)
}

// Delete removes a note owned by the requester. The file is removed afterwards
// on a best-effort basis.
func (s *noteServiceImpl) Delete(ctx context.Context, id, requesterID string) error {
	if err := s.authz.RequireAuthenticated(requesterID); err != nil {
		return err
	}

	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.CanDeleteNote(requesterID, &note.Note); err != nil {
		return err
	}

	if err := s.notes.Delete(ctx, id, requesterID); err != nil {
		return err
	}

	if file, ok := note.File(); ok {
		if err := s.blobs.Delete(ctx, filestorage.NamespaceNotes, file.Path); err != nil {
			logger.Warn().Err(err).Str("noteID", id).Str("path", file.Path).Msg("Failed to delete note file")
		}
	}

	logger.Info().Str("noteID", id).Str("requesterID", requesterID).Msg("Note deleted")
	return nil
}

// Download opens the note file and records one download event.
// Notes without a file report not found and record nothing.
func (s *noteServiceImpl) Download(ctx context.Context, id, requesterID string) (io.ReadCloser, *DownloadInfo, error) {
	if err := s.authz.RequireAuthenticated(requesterID); err != nil {
		return nil, nil, err
	}

	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	file, ok := note.File()
	if !ok {
		return nil, nil, apperrors.ErrNoDownloadableFile
	}

	rc, blob, err := s.blobs.Open(ctx, filestorage.NamespaceNotes, file.Path)
	if err != nil {
		return nil, nil, apperrors.NewStorageError("failed to open note file", err)
	}

	if err := s.downloads.Create(ctx, &models.Download{
		ID:     uuid.NewString(),
		NoteID: note.ID,
		UserID: requesterID,
	}); err != nil {
		_ = rc.Close()
		return nil, nil, err
	}
	downloadsTotal.Inc()

	br := bufio.NewReaderSize(rc, sniffLen)
	head, _ := br.Peek(sniffLen)
	info := &DownloadInfo{
		FileName:    downloadFileName(note.Title, file.Path),
		ContentType: mimetype.Detect(head).String(),
		Size:        blob.Size,
	}

	return struct {
		io.Reader
		io.Closer
	}{br, rc}, info, nil
}

// downloadFileName turns a note title into a safe attachment name keeping the stored extension.
func downloadFileName(title, storedPath string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, strings.TrimSpace(title))
	if name == "" {
		name = "note"
	}
	return name + path.Ext(storedPath)
}
