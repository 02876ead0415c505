package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/notehub/internal/app/auth"
	"github.com/yigit/notehub/internal/app/models"
	"github.com/yigit/notehub/internal/pkg/apperrors"
	"github.com/yigit/notehub/internal/pkg/logger"
	"github.com/yigit/notehub/internal/pkg/validation"
)

// MaxCommentLength is the longest rating comment accepted
const MaxCommentLength = 2000

// RatingService defines the interface for rating operations
type RatingService interface {
	Upsert(ctx context.Context, noteID, raterID string, stars int, comment *string) (*models.Rating, error)
	ListForNote(ctx context.Context, noteID string) ([]models.RatingDetails, error)
	GetForRater(ctx context.Context, noteID, raterID string) (*models.Rating, error)
	Summary(ctx context.Context, noteID string) (models.RatingSummary, error)
}

// ratingServiceImpl implements RatingService
type ratingServiceImpl struct {
	ratings RatingStore
	notes   NoteStore
	authz   *auth.AuthorizationService
}

// NewRatingService creates a new RatingService
func NewRatingService(ratings RatingStore, notes NoteStore, authz *auth.AuthorizationService) RatingService {
	return &ratingServiceImpl{
		ratings: ratings,
		notes:   notes,
		authz:   authz,
	}
}

func (s *ratingServiceImpl) requireNote(ctx context.Context, noteID string) error {
	exists, err := s.notes.Exists(ctx, noteID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrNoteNotFound
	}
	return nil
}

// Upsert records the rater's rating of a note. A second submission by the
// same rater overwrites stars and comment of the existing rating.
func (s *ratingServiceImpl) Upsert(ctx context.Context, noteID, raterID string, stars int, comment *string) (*models.Rating, error) {
	if err := s.authz.RequireAuthenticated(raterID); err != nil {
		return nil, err
	}
	if err := validation.NewRangeValidation("stars", stars, models.MinStars, models.MaxStars).Validate(); err != nil {
		return nil, err
	}

	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		if trimmed == "" {
			comment = nil
		} else {
			if err := validation.NewStringValidation("comment", trimmed).WithMaxLength(MaxCommentLength).Validate(); err != nil {
				return nil, err
			}
			comment = &trimmed
		}
	}

	if err := s.requireNote(ctx, noteID); err != nil {
		return nil, err
	}

	rating, err := s.ratings.Upsert(ctx, &models.Rating{
		ID:      uuid.NewString(),
		NoteID:  noteID,
		RaterID: raterID,
		Stars:   stars,
		Comment: comment,
	})
	if err != nil {
		return nil, err
	}

	ratingsSubmittedTotal.WithLabelValues(strconv.Itoa(stars)).Inc()
	logger.Debug().Str("noteID", noteID).Str("raterID", raterID).Int("stars", stars).Msg("Rating saved")
	return rating, nil
}

// ListForNote returns the ratings of a note, newest first
func (s *ratingServiceImpl) ListForNote(ctx context.Context, noteID string) ([]models.RatingDetails, error) {
	if err := s.requireNote(ctx, noteID); err != nil {
		return nil, err
	}
	return s.ratings.ListForNote(ctx, noteID)
}

// GetForRater returns the rating a rater gave a note
func (s *ratingServiceImpl) GetForRater(ctx context.Context, noteID, raterID string) (*models.Rating, error) {
	if err := s.authz.RequireAuthenticated(raterID); err != nil {
		return nil, err
	}
	return s.ratings.GetForRater(ctx, noteID, raterID)
}

// Summary returns the average stars and rating count of a note
func (s *ratingServiceImpl) Summary(ctx context.Context, noteID string) (models.RatingSummary, error) {
	if err := s.requireNote(ctx, noteID); err != nil {
		return models.RatingSummary{}, err
	}
	return s.ratings.Summary(ctx, noteID)
}
