package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/notehub/internal/pkg/apperrors"
)

func TestStringValidation(t *testing.T) {
	tests := []struct {
		name    string
		v       *StringValidation
		wantErr bool
	}{
		{"present", NewStringValidation("title", "Calc II"), false},
		{"empty required", NewStringValidation("title", ""), true},
		{"blank required", NewStringValidation("title", "   "), true},
		{"empty optional", NewStringValidation("major", "").WithRequired(false), false},
		{"too long", NewStringValidation("username", "abcdef").WithMaxLength(5), true},
		{"multibyte at limit", NewStringValidation("username", "çğışöü").WithMaxLength(6), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)

			var ce *apperrors.CustomError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.v.Field, ce.Field)
		})
	}
}

func TestRangeValidation(t *testing.T) {
	assert.NoError(t, NewRangeValidation("year", 2000, 2000, 2100).Validate())
	assert.NoError(t, NewRangeValidation("year", 2100, 2000, 2100).Validate())
	assert.ErrorIs(t, NewRangeValidation("year", 1999, 2000, 2100).Validate(), apperrors.ErrValidation)
	assert.ErrorIs(t, NewRangeValidation("year", 2101, 2000, 2100).Validate(), apperrors.ErrValidation)
}

func TestFirst(t *testing.T) {
	err := First(
		NewStringValidation("title", "ok"),
		NewRangeValidation("year", 1, 2000, 2100),
		NewStringValidation("other", ""),
	)
	var ce *apperrors.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "year", ce.Field)

	assert.NoError(t, First())
}
