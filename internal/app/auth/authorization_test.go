package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/notehub/internal/app/models"
	"github.com/yigit/notehub/internal/pkg/apperrors"
)

func TestCanDeleteNote(t *testing.T) {
	authz := NewAuthorizationService()
	note := &models.Note{ID: "n1", OwnerID: "owner"}

	assert.NoError(t, authz.CanDeleteNote("owner", note))
	assert.ErrorIs(t, authz.CanDeleteNote("someone", note), apperrors.ErrAuthorization)
	assert.ErrorIs(t, authz.CanDeleteNote("", note), apperrors.ErrUnauthenticated)
}

func TestCanModifyProfile(t *testing.T) {
	authz := NewAuthorizationService()

	assert.NoError(t, authz.CanModifyProfile("u1", "u1"))
	assert.ErrorIs(t, authz.CanModifyProfile("u2", "u1"), apperrors.ErrAuthorization)
	assert.ErrorIs(t, authz.CanModifyProfile("", "u1"), apperrors.ErrUnauthenticated)
}
