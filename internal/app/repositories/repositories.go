package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/notehub/internal/pkg/apperrors"
	"github.com/yigit/notehub/internal/pkg/dberrors"
	"github.com/yigit/notehub/internal/pkg/logger"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, so a
// repository can run on the pool or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	ProfileRepository   *ProfileRepository
	NoteRepository      *NoteRepository
	RatingRepository    *RatingRepository
	DownloadRepository  *DownloadRepository
	ReferenceRepository *ReferenceRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		ProfileRepository:   NewProfileRepository(db),
		NoteRepository:      NewNoteRepository(db),
		RatingRepository:    NewRatingRepository(db),
		DownloadRepository:  NewDownloadRepository(db),
		ReferenceRepository: NewReferenceRepository(db),
	}
}

// scanError maps a failed row scan. Constraint violations are returned
// unwrapped and unlogged so the writing caller can classify them.
func scanError(op string, err error) error {
	if dberrors.IsConstraintViolation(err) {
		return err
	}
	return storageError(op, err)
}

// storageError logs a failed database call and wraps it as a storage error
func storageError(op string, err error) error {
	logger.Error().Err(err).Str("op", op).Msg("Database operation failed")
	return apperrors.NewStorageError(op+" failed", err)
}
