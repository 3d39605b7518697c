package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "secret1!pass", nil},
		{"too short", "a1!", ErrPasswordTooShort},
		{"exactly seven", "abc123!", ErrPasswordTooShort},
		{"no digit", "password!!", ErrPasswordTooWeak},
		{"no letter", "12345678!", ErrPasswordTooWeak},
		{"no special", "password123", ErrPasswordTooWeak},
		{"all classes at minimum length", "abcd12!@", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePassword(tt.password)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
