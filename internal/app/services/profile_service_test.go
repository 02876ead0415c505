package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/notehub/internal/app/models"
	"github.com/yigit/notehub/internal/pkg/apperrors"
)

func intPtr(i int) *int { return &i }

func TestProfileService_UpdateByNonOwner(t *testing.T) {
	env := newTestEnv()

	_, err := env.profiles.Update(context.Background(), "owner", "other", models.ProfileUpdate{Username: strPtr("x")})
	require.ErrorIs(t, err, apperrors.ErrAuthorization)
	assert.Equal(t, "owner", env.db.profiles["owner"].Username)
}

func TestProfileService_Update(t *testing.T) {
	env := newTestEnv()

	updated, err := env.profiles.Update(context.Background(), "owner", "owner", models.ProfileUpdate{
		Username:       strPtr("  ada  "),
		University:     strPtr("METU"),
		StudyStartYear: intPtr(2021),
	})
	require.NoError(t, err)
	assert.Equal(t, "ada", updated.Username)
	require.NotNil(t, updated.University)
	assert.Equal(t, "METU", *updated.University)
	require.NotNil(t, updated.StudyStartYear)
	assert.Equal(t, 2021, *updated.StudyStartYear)
}

func TestProfileService_UpdateValidation(t *testing.T) {
	tests := []struct {
		name   string
		update models.ProfileUpdate
		field  string
	}{
		{"empty username", models.ProfileUpdate{Username: strPtr(" ")}, "username"},
		{"long username", models.ProfileUpdate{Username: strPtr(strings.Repeat("a", models.MaxUsernameLength+1))}, "username"},
		{"taken username", models.ProfileUpdate{Username: strPtr("rater")}, "username"},
		{"year too early", models.ProfileUpdate{StudyStartYear: intPtr(1949)}, "studyStartYear"},
		{"year too late", models.ProfileUpdate{StudyStartYear: intPtr(2101)}, "studyStartYear"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			_, err := env.profiles.Update(context.Background(), "owner", "owner", tt.update)
			require.ErrorIs(t, err, apperrors.ErrValidation)

			var ce *apperrors.CustomError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestProfileService_EmptyUpdateReturnsCurrent(t *testing.T) {
	env := newTestEnv()

	got, err := env.profiles.Update(context.Background(), "owner", "owner", models.ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "owner", got.Username)
}

func TestProfileService_EnsureProfile(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.profiles.EnsureProfile(ctx, "new-user", "Ada.Lovelace+notes@example.com"))
	got, err := env.profiles.Get(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, "ada.lovelacenotes", got.Username)

	// idempotent
	require.NoError(t, env.profiles.EnsureProfile(ctx, "new-user", "other@example.com"))
	got, err = env.profiles.Get(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, "ada.lovelacenotes", got.Username)

	// clashing username gets a suffix
	require.NoError(t, env.profiles.EnsureProfile(ctx, "second", "rater@example.com"))
	got, err = env.profiles.Get(ctx, "second")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.Username, "rater_"), got.Username)
	assert.LessOrEqual(t, len(got.Username), models.MaxUsernameLength)

	require.NoError(t, env.profiles.EnsureProfile(ctx, "third", ""))
	got, err = env.profiles.Get(ctx, "third")
	require.NoError(t, err)
	assert.Equal(t, "user", got.Username)
}

func TestProfileService_GetMissing(t *testing.T) {
	env := newTestEnv()
	_, err := env.profiles.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProfileService_UpdateAvatar(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	url, err := env.profiles.UpdateAvatar(ctx, "owner", "owner", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "http://blobs.test/avatars/owner/avatar.png", url)
	assert.Equal(t, []string{"avatars/owner/avatar.png"}, env.blobs.keys())

	profile, err := env.profiles.Get(ctx, "owner")
	require.NoError(t, err)
	require.NotNil(t, profile.AvatarURL)
	assert.Equal(t, url, *profile.AvatarURL)

	// same path again: overwritten, URL unchanged
	next := append(bytes.Clone(pngBytes), 1)
	again, err := env.profiles.UpdateAvatar(ctx, "owner", "owner", bytes.NewReader(next))
	require.NoError(t, err)
	assert.Equal(t, url, again)
	assert.Len(t, env.blobs.keys(), 1)
	assert.Equal(t, next, env.blobs.data["avatars/owner/avatar.png"])
}

func TestProfileService_UpdateAvatarReplacesOtherFormat(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.profiles.UpdateAvatar(ctx, "owner", "owner", bytes.NewReader(pngBytes))
	require.NoError(t, err)

	gif := append([]byte("GIF89a"), make([]byte, 16)...)
	url, err := env.profiles.UpdateAvatar(ctx, "owner", "owner", bytes.NewReader(gif))
	require.NoError(t, err)
	assert.Equal(t, "http://blobs.test/avatars/owner/avatar.gif", url)
	assert.Equal(t, []string{"avatars/owner/avatar.gif"}, env.blobs.keys())
}

func TestProfileService_UpdateAvatarRejects(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.profiles.UpdateAvatar(ctx, "owner", "other", bytes.NewReader(pngBytes))
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)

	_, err = env.profiles.UpdateAvatar(ctx, "owner", "owner", bytes.NewReader(pdfBytes))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = env.profiles.UpdateAvatar(ctx, "owner", "owner", bytes.NewReader(nil))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`)
	_, err = env.profiles.UpdateAvatar(ctx, "owner", "owner", bytes.NewReader(svg))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.Empty(t, env.blobs.keys())
}
