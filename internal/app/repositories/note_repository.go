package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/notehub/internal/app/models"
	"github.com/yigit/notehub/internal/app/models/dto"
	"github.com/yigit/notehub/internal/pkg/apperrors"
	"github.com/yigit/notehub/internal/pkg/dberrors"
	"github.com/yigit/notehub/internal/pkg/helpers"
)

// NoteRepository handles database operations for notes.
type NoteRepository struct {
	DB DBTX
}

// NewNoteRepository creates a new instance of NoteRepository.
func NewNoteRepository(db DBTX) *NoteRepository {
	return &NoteRepository{DB: db}
}

// selectNoteDetailsQuery joins names and derives the aggregates at read time.
func (r *NoteRepository) selectNoteDetailsQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"n.id", "n.title", "n.user_id", "n.subject_id", "n.professor_id", "n.year",
		"n.file_type", "n.file_path", "n.content", "n.created_at",
		"s.name AS subject_name", "p.name AS professor_name",
		"u.username AS owner_username", "u.university AS owner_university", "u.major AS owner_major",
		"(SELECT COUNT(*) FROM downloads d WHERE d.note_id = n.id) AS download_count",
		"(SELECT COALESCE(AVG(r.stars), 0)::float8 FROM ratings r WHERE r.note_id = n.id) AS average_rating",
		"(SELECT COUNT(*) FROM ratings r WHERE r.note_id = n.id) AS rating_count",
	).From("notes n").
		Join("subjects s ON s.id = n.subject_id").
		Join("professors p ON p.id = n.professor_id").
		Join("user_profiles u ON u.id = n.user_id").
		PlaceholderFormat(squirrel.Dollar)
}

// ScanNoteDetails scans a row into NoteDetails.
func ScanNoteDetails(row pgx.Row) (*models.NoteDetails, error) {
	var (
		note     models.NoteDetails
		fileType string
		filePath *string
		content  *string
	)
	err := row.Scan(
		&note.ID, &note.Title, &note.OwnerID, &note.SubjectID, &note.ProfessorID, &note.Year,
		&fileType, &filePath, &content, &note.CreatedAt,
		&note.SubjectName, &note.ProfessorName,
		&note.OwnerUsername, &note.OwnerUniversity, &note.OwnerMajor,
		&note.DownloadCount, &note.AverageRating, &note.RatingCount,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, storageError("scan note", err)
	}

	payload, err := models.PayloadFromColumns(filePath, fileType, content)
	if err != nil {
		return nil, storageError("decode note payload", err)
	}
	note.Payload = payload
	return &note, nil
}

// Create inserts a note. The id must be set by the caller; CreatedAt is filled from the database.
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	filePath, fileType, content := models.PayloadColumns(note.Payload)

	sql, args, err := squirrel.Insert("notes").
		Columns("id", "title", "user_id", "subject_id", "professor_id", "year", "file_type", "file_path", "content").
		Values(note.ID, note.Title, note.OwnerID, note.SubjectID, note.ProfessorID, note.Year, fileType, filePath, content).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return storageError("build create note", err)
	}

	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&note.CreatedAt); err != nil {
		switch {
		case dberrors.IsForeignKeyError(err, "notes_subject_id_fkey"):
			return apperrors.NewFieldValidationError("subjectId", "subject does not exist")
		case dberrors.IsForeignKeyError(err, "notes_professor_id_fkey"):
			return apperrors.NewFieldValidationError("professorId", "professor does not exist")
		case dberrors.IsForeignKeyError(err, "notes_user_id_fkey"):
			return apperrors.ErrProfileNotFound
		case dberrors.IsCheckViolation(err):
			return apperrors.NewValidationError("note violates a data constraint")
		}
		return storageError("create note", err)
	}
	return nil
}

// GetByID retrieves a single note with its joined names.
func (r *NoteRepository) GetByID(ctx context.Context, id string) (*models.NoteDetails, error) {
	sql, args, err := r.selectNoteDetailsQuery().Where(squirrel.Eq{"n.id": id}).ToSql()
	if err != nil {
		return nil, storageError("build get note", err)
	}
	return ScanNoteDetails(r.DB.QueryRow(ctx, sql, args...))
}

// Exists reports whether a note with the id exists.
func (r *NoteRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM notes WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, storageError("check note exists", err)
	}
	return exists, nil
}

// ReferencesExist reports whether the subject and the professor exist.
func (r *NoteRepository) ReferencesExist(ctx context.Context, subjectID, professorID string) (bool, bool, error) {
	var subject, professor bool
	err := r.DB.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM subjects WHERE id = $1), EXISTS(SELECT 1 FROM professors WHERE id = $2)",
		subjectID, professorID,
	).Scan(&subject, &professor)
	if err != nil {
		return false, false, storageError("check note references", err)
	}
	return subject, professor, nil
}

// applyNoteFilter adds the optional listing filters to a query over "notes n".
func applyNoteFilter(b squirrel.SelectBuilder, f models.NoteFilter) squirrel.SelectBuilder {
	if f.SubjectID != nil {
		b = b.Where(squirrel.Eq{"n.subject_id": *f.SubjectID})
	}
	if f.ProfessorID != nil {
		b = b.Where(squirrel.Eq{"n.professor_id": *f.ProfessorID})
	}
	if f.OwnerID != nil {
		b = b.Where(squirrel.Eq{"n.user_id": *f.OwnerID})
	}
	if f.Year != nil {
		b = b.Where(squirrel.Eq{"n.year": *f.Year})
	}
	return b
}

// List retrieves a filtered page of notes, newest first.
func (r *NoteRepository) List(ctx context.Context, filter models.NoteFilter) ([]models.NoteDetails, dto.PaginationInfo, error) {
	countBuilder := applyNoteFilter(
		squirrel.Select("COUNT(*)").From("notes n").PlaceholderFormat(squirrel.Dollar),
		filter,
	)
	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, storageError("build count notes", err)
	}

	var totalItems int64
	if err := r.DB.QueryRow(ctx, countSQL, countArgs...).Scan(&totalItems); err != nil {
		return nil, dto.PaginationInfo{}, storageError("count notes", err)
	}

	pagination := helpers.NewPaginationInfo(totalItems, filter.Page, filter.Size)
	if totalItems == 0 {
		return []models.NoteDetails{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)
	sql, args, err := applyNoteFilter(r.selectNoteDetailsQuery(), filter).
		OrderBy("n.created_at DESC", "n.id DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, storageError("build list notes", err)
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, dto.PaginationInfo{}, storageError("list notes", err)
	}
	defer rows.Close()

	notes := make([]models.NoteDetails, 0, limit)
	for rows.Next() {
		note, err := ScanNoteDetails(rows)
		if err != nil {
			return nil, dto.PaginationInfo{}, err
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, dto.PaginationInfo{}, storageError("iterate notes", fmt.Errorf("database iteration error: %w", err))
	}

	return notes, pagination, nil
}

// Delete removes a note owned by ownerID. Ratings and downloads cascade.
// A note that is missing or owned by someone else reports not found.
func (r *NoteRepository) Delete(ctx context.Context, id, ownerID string) error {
	sql, args, err := squirrel.Delete("notes").
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return storageError("build delete note", err)
	}

	tag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		return storageError("delete note", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNoteNotFound
	}
	return nil
}
