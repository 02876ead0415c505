package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/notehub/internal/app/models"
	"github.com/yigit/notehub/internal/pkg/apperrors"
	"github.com/yigit/notehub/internal/pkg/dberrors"
)

// UsernameConstraint is the unique constraint on user_profiles.username
const UsernameConstraint = "user_profiles_username_key"

// ProfileRepository handles database operations for profiles.
type ProfileRepository struct {
	DB DBTX
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

const profileReturning = "RETURNING id, username, avatar_url, university, major, study_start_year, created_at, updated_at"

// ScanProfile scans a row into a Profile.
func ScanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Username, &p.AvatarURL, &p.University, &p.Major, &p.StudyStartYear, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, scanError("scan profile", err)
	}
	return &p, nil
}

// GetByID retrieves a profile.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	sql, args, err := squirrel.Select("id", "username", "avatar_url", "university", "major", "study_start_year", "created_at", "updated_at").
		From("user_profiles").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, storageError("build get profile", err)
	}
	return ScanProfile(r.DB.QueryRow(ctx, sql, args...))
}

// CreateIfMissing inserts the profile unless one with the same id exists.
// It reports whether a row was created. A username clash is returned as a
// validation error on the username field.
func (r *ProfileRepository) CreateIfMissing(ctx context.Context, profile *models.Profile) (bool, error) {
	sql, args, err := squirrel.Insert("user_profiles").
		Columns("id", "username").
		Values(profile.ID, profile.Username).
		Suffix("ON CONFLICT (id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, storageError("build create profile", err)
	}

	tag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, UsernameConstraint) {
			return false, apperrors.NewFieldValidationError("username", "username is already taken")
		}
		return false, storageError("create profile", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Update applies the non-nil fields and returns the stored profile.
func (r *ProfileRepository) Update(ctx context.Context, id string, update models.ProfileUpdate) (*models.Profile, error) {
	builder := squirrel.Update("user_profiles").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix(profileReturning).
		PlaceholderFormat(squirrel.Dollar)

	if update.Username != nil {
		builder = builder.Set("username", *update.Username)
	}
	if update.University != nil {
		builder = builder.Set("university", nullIfEmpty(*update.University))
	}
	if update.Major != nil {
		builder = builder.Set("major", nullIfEmpty(*update.Major))
	}
	if update.StudyStartYear != nil {
		builder = builder.Set("study_start_year", *update.StudyStartYear)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, storageError("build update profile", err)
	}

	profile, err := ScanProfile(r.DB.QueryRow(ctx, sql, args...))
	switch {
	case err == nil:
		return profile, nil
	case dberrors.IsDuplicateConstraintError(err, UsernameConstraint):
		return nil, apperrors.NewFieldValidationError("username", "username is already taken")
	case dberrors.IsCheckViolation(err):
		return nil, apperrors.NewValidationError("profile violates a data constraint")
	case dberrors.IsConstraintViolation(err):
		return nil, storageError("update profile", err)
	}
	return nil, err
}

// UpdateAvatarURL stores the public avatar reference of a profile.
func (r *ProfileRepository) UpdateAvatarURL(ctx context.Context, id, avatarURL string) error {
	sql, args, err := squirrel.Update("user_profiles").
		Set("avatar_url", avatarURL).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return storageError("build update avatar", err)
	}

	tag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		return storageError("update avatar", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// nullIfEmpty clears an optional text column when given "".
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
