package auth

import (
	"github.com/yigit/notehub/internal/app/models"
	"github.com/yigit/notehub/internal/pkg/apperrors"
	"github.com/yigit/notehub/internal/pkg/logger"
)

// AuthorizationService decides whether a requester may mutate a resource.
// Ownership is checked here even where the SQL statement also filters by owner.
type AuthorizationService struct{}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// RequireAuthenticated rejects an empty requester id
func (s *AuthorizationService) RequireAuthenticated(requesterID string) error {
	if requesterID == "" {
		return apperrors.ErrUnauthenticated
	}
	return nil
}

// CanDeleteNote allows only the note owner
func (s *AuthorizationService) CanDeleteNote(requesterID string, note *models.Note) error {
	if err := s.RequireAuthenticated(requesterID); err != nil {
		return err
	}
	if note.OwnerID != requesterID {
		logger.Warn().
			Str("noteID", note.ID).
			Str("requesterID", requesterID).
			Msg("Rejected note deletion by non-owner")
		return apperrors.ErrNotNoteOwner
	}
	return nil
}

// CanModifyProfile allows only the profile owner
func (s *AuthorizationService) CanModifyProfile(requesterID, profileID string) error {
	if err := s.RequireAuthenticated(requesterID); err != nil {
		return err
	}
	if requesterID != profileID {
		logger.Warn().
			Str("profileID", profileID).
			Str("requesterID", requesterID).
			Msg("Rejected profile modification by non-owner")
		return apperrors.ErrNotProfileOwner
	}
	return nil
}
