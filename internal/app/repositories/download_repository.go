package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/notehub/internal/app/models"
	"github.com/yigit/notehub/internal/pkg/apperrors"
	"github.com/yigit/notehub/internal/pkg/dberrors"
)

// DownloadRepository appends download events.
type DownloadRepository struct {
	DB DBTX
}

// NewDownloadRepository creates a new instance of DownloadRepository.
func NewDownloadRepository(db DBTX) *DownloadRepository {
	return &DownloadRepository{DB: db}
}

// Create appends one download event. Repeat downloads by the same user all count.
func (r *DownloadRepository) Create(ctx context.Context, download *models.Download) error {
	sql, args, err := squirrel.Insert("downloads").
		Columns("id", "note_id", "user_id").
		Values(download.ID, download.NoteID, download.UserID).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return storageError("build create download", err)
	}

	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&download.CreatedAt); err != nil {
		switch {
		case dberrors.IsForeignKeyError(err, "downloads_note_id_fkey"):
			return apperrors.ErrNoteNotFound
		case dberrors.IsForeignKeyError(err, "downloads_user_id_fkey"):
			return apperrors.ErrProfileNotFound
		}
		return storageError("create download", err)
	}
	return nil
}

// CountForNote returns how many times a note was downloaded.
func (r *DownloadRepository) CountForNote(ctx context.Context, noteID string) (int64, error) {
	var count int64
	if err := r.DB.QueryRow(ctx, "SELECT COUNT(*) FROM downloads WHERE note_id = $1", noteID).Scan(&count); err != nil {
		return 0, storageError("count downloads", err)
	}
	return count, nil
}
