package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/notehub/internal/app/models"
	"github.com/yigit/notehub/internal/pkg/apperrors"
	"github.com/yigit/notehub/internal/pkg/dberrors"
)

// RatingRepository handles database operations for ratings.
type RatingRepository struct {
	DB DBTX
}

// NewRatingRepository creates a new instance of RatingRepository.
func NewRatingRepository(db DBTX) *RatingRepository {
	return &RatingRepository{DB: db}
}

var ratingColumns = []string{"r.id", "r.note_id", "r.user_id", "r.stars", "r.comment", "r.created_at", "r.updated_at"}

func scanRating(row pgx.Row, extra ...any) (*models.Rating, error) {
	var rating models.Rating
	dest := append([]any{
		&rating.ID, &rating.NoteID, &rating.RaterID, &rating.Stars, &rating.Comment,
		&rating.CreatedAt, &rating.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrRatingNotFound
		}
		return nil, scanError("scan rating", err)
	}
	return &rating, nil
}

// Upsert inserts the rating or, when the rater already rated the note,
// overwrites stars and comment in place. The unique (note_id, user_id)
// constraint arbitrates concurrent submissions; id and created_at of the
// existing row are kept.
func (r *RatingRepository) Upsert(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	sql, args, err := squirrel.Insert("ratings AS r").
		Columns("id", "note_id", "user_id", "stars", "comment").
		Values(rating.ID, rating.NoteID, rating.RaterID, rating.Stars, rating.Comment).
		Suffix(`ON CONFLICT ON CONSTRAINT ratings_note_user_key DO UPDATE
			SET stars = EXCLUDED.stars, comment = EXCLUDED.comment, updated_at = NOW()
			RETURNING r.id, r.note_id, r.user_id, r.stars, r.comment, r.created_at, r.updated_at`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, storageError("build upsert rating", err)
	}

	saved, err := scanRating(r.DB.QueryRow(ctx, sql, args...))
	if err != nil {
		switch {
		case dberrors.IsForeignKeyError(err, "ratings_note_id_fkey"):
			return nil, apperrors.ErrNoteNotFound
		case dberrors.IsForeignKeyError(err, "ratings_user_id_fkey"):
			return nil, apperrors.ErrProfileNotFound
		case dberrors.IsCheckViolation(err):
			return nil, apperrors.NewFieldValidationError("stars", "stars must be between 1 and 5")
		case dberrors.IsConstraintViolation(err):
			return nil, storageError("upsert rating", err)
		}
		return nil, err
	}
	return saved, nil
}

// ListForNote returns every rating of a note with the rater's username, newest first.
func (r *RatingRepository) ListForNote(ctx context.Context, noteID string) ([]models.RatingDetails, error) {
	sql, args, err := squirrel.Select(append(ratingColumns, "u.username")...).
		From("ratings r").
		Join("user_profiles u ON u.id = r.user_id").
		Where(squirrel.Eq{"r.note_id": noteID}).
		OrderBy("r.created_at DESC", "r.id DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, storageError("build list ratings", err)
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, storageError("list ratings", err)
	}
	defer rows.Close()

	ratings := make([]models.RatingDetails, 0)
	for rows.Next() {
		var username string
		rating, err := scanRating(rows, &username)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, models.RatingDetails{Rating: *rating, RaterUsername: username})
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate ratings", err)
	}
	return ratings, nil
}

// GetForRater returns the rating a rater gave a note.
func (r *RatingRepository) GetForRater(ctx context.Context, noteID, raterID string) (*models.Rating, error) {
	sql, args, err := squirrel.Select(ratingColumns...).
		From("ratings r").
		Where(squirrel.Eq{"r.note_id": noteID, "r.user_id": raterID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, storageError("build get rating", err)
	}
	return scanRating(r.DB.QueryRow(ctx, sql, args...))
}

// Summary computes the mean stars and the rating count of a note; both are 0 without ratings.
func (r *RatingRepository) Summary(ctx context.Context, noteID string) (models.RatingSummary, error) {
	var summary models.RatingSummary
	err := r.DB.QueryRow(ctx,
		"SELECT COALESCE(AVG(stars), 0)::float8, COUNT(*) FROM ratings WHERE note_id = $1",
		noteID,
	).Scan(&summary.Average, &summary.Count)
	if err != nil {
		return models.RatingSummary{}, storageError("summarize ratings", err)
	}
	return summary, nil
}
