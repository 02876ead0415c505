package services

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/notehub/internal/app/auth"
	"github.com/yigit/notehub/internal/app/models"
	"github.com/yigit/notehub/internal/pkg/apperrors"
	"github.com/yigit/notehub/internal/pkg/filestorage"
	"github.com/yigit/notehub/internal/pkg/logger"
	"github.com/yigit/notehub/internal/pkg/validation"
)

// MaxAffiliationLength bounds university and major
const MaxAffiliationLength = 255

// usernameAttempts is how often EnsureProfile retries a generated username that is taken
const usernameAttempts = 3

// ProfileService defines the interface for profile operations
type ProfileService interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
	EnsureProfile(ctx context.Context, id, emailHint string) error
	Update(ctx context.Context, id, requesterID string, update models.ProfileUpdate) (*models.Profile, error)
	UpdateAvatar(ctx context.Context, id, requesterID string, image io.Reader) (string, error)
}

// profileServiceImpl implements ProfileService
type profileServiceImpl struct {
	profiles ProfileStore
	blobs    filestorage.BlobStore
	authz    *auth.AuthorizationService
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles ProfileStore, blobs filestorage.BlobStore, authz *auth.AuthorizationService) ProfileService {
	return &profileServiceImpl{
		profiles: profiles,
		blobs:    blobs,
		authz:    authz,
	}
}

// Get returns a profile
func (s *profileServiceImpl) Get(ctx context.Context, id string) (*models.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

// EnsureProfile creates the profile of a newly signed-in user. Existing
// profiles are left untouched. The username is derived from the email.
func (s *profileServiceImpl) EnsureProfile(ctx context.Context, id, emailHint string) error {
	if err := s.authz.RequireAuthenticated(id); err != nil {
		return err
	}

	base := usernameBase(emailHint)
	username := base
	for attempt := 0; attempt < usernameAttempts; attempt++ {
		created, err := s.profiles.CreateIfMissing(ctx, &models.Profile{ID: id, Username: username})
		if err == nil {
			if created {
				logger.Info().Str("profileID", id).Str("username", username).Msg("Profile created")
			}
			return nil
		}
		if !apperrors.Is(err, apperrors.ErrValidation) {
			return err
		}
		username = base + "_" + uuid.NewString()[:8]
	}
	return apperrors.NewStorageError("could not allocate a unique username", nil)
}

// usernameBase keeps the safe characters of an email's local part.
func usernameBase(email string) string {
	local, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(email)), "@")
	var b strings.Builder
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if base == "" {
		base = "user"
	}
	// leave room for the "_xxxxxxxx" suffix
	if limit := models.MaxUsernameLength - 9; len(base) > limit {
		base = base[:limit]
	}
	return base
}

func (s *profileServiceImpl) normalizeUpdate(update *models.ProfileUpdate) error {
	var checks []validation.Validator
	if update.Username != nil {
		trimmed := strings.TrimSpace(*update.Username)
		update.Username = &trimmed
		checks = append(checks, validation.NewStringValidation("username", trimmed).WithMaxLength(models.MaxUsernameLength))
	}
	if update.University != nil {
		trimmed := strings.TrimSpace(*update.University)
		update.University = &trimmed
		checks = append(checks, validation.NewStringValidation("university", trimmed).WithRequired(false).WithMaxLength(MaxAffiliationLength))
	}
	if update.Major != nil {
		trimmed := strings.TrimSpace(*update.Major)
		update.Major = &trimmed
		checks = append(checks, validation.NewStringValidation("major", trimmed).WithRequired(false).WithMaxLength(MaxAffiliationLength))
	}
	if update.StudyStartYear != nil {
		checks = append(checks, validation.NewRangeValidation("studyStartYear", *update.StudyStartYear, models.MinStudyStartYear, models.MaxStudyStartYear))
	}
	return validation.First(checks...)
}

// Update changes the owner-editable fields of a profile
func (s *profileServiceImpl) Update(ctx context.Context, id, requesterID string, update models.ProfileUpdate) (*models.Profile, error) {
	if err := s.authz.CanModifyProfile(requesterID, id); err != nil {
		return nil, err
	}
	if err := s.normalizeUpdate(&update); err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return s.profiles.GetByID(ctx, id)
	}
	return s.profiles.Update(ctx, id, update)
}

// UpdateAvatar stores a new avatar under a path keyed by the profile id,
// replacing any previous one, and returns its public URL.
func (s *profileServiceImpl) UpdateAvatar(ctx context.Context, id, requesterID string, image io.Reader) (string, error) {
	if err := s.authz.CanModifyProfile(requesterID, id); err != nil {
		return "", err
	}

	mime, body, ok, err := sniff(image)
	if err != nil {
		return "", apperrors.NewStorageError("failed to read avatar", err)
	}
	if !ok {
		return "", apperrors.NewFieldValidationError("avatar", "avatar image is empty")
	}
	if !isRasterImage(mime) {
		return "", apperrors.NewFieldValidationError("avatar", "avatar must be an image")
	}

	current, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	blobPath := id + "/avatar" + mime.Extension()
	if _, err := s.blobs.Put(ctx, filestorage.NamespaceAvatars, blobPath, body); err != nil {
		return "", apperrors.NewStorageError("failed to upload avatar", err)
	}

	url := s.blobs.PublicURL(filestorage.NamespaceAvatars, blobPath)
	if err := s.profiles.UpdateAvatarURL(ctx, id, url); err != nil {
		return "", err
	}

	// An avatar of another format lives at a different path; drop it.
	if current.AvatarURL != nil && *current.AvatarURL != url {
		prefix := s.blobs.PublicURL(filestorage.NamespaceAvatars, "")
		if oldPath, ok := strings.CutPrefix(*current.AvatarURL, prefix); ok && strings.HasPrefix(oldPath, id+"/") {
			if err := s.blobs.Delete(ctx, filestorage.NamespaceAvatars, oldPath); err != nil {
				logger.Warn().Err(err).Str("profileID", id).Str("path", oldPath).Msg("Failed to delete previous avatar")
			}
		}
	}

	return url, nil
}
