package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// HashPassword Tests
// ============================================

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"minimum length", "hunter22", nil},
		{"typical signup password", "rahim-loves-gadgets", nil},
		{"unicode", "পাসওয়ার্ড১২৩৪", nil},
		{"seven characters", "hunter2", ErrPasswordTooShort},
		{"empty", "", ErrPasswordTooShort},
		{"spaces only", "       ", ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, strings.HasPrefix(hash, "$2a$12$"), "hash must carry the configured bcrypt cost")
		})
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	hash1, err := HashPassword("password123")
	require.NoError(t, err)
	hash2, err := HashPassword("password123")
	require.NoError(t, err)

	// Each call salts independently, yet both verify.
	assert.NotEqual(t, hash1, hash2)
	assert.True(t, CheckPassword("password123", hash1))
	assert.True(t, CheckPassword("password123", hash2))
}

// ============================================
// CheckPassword Tests
// ============================================

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("Password123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"correct password", "Password123", hash, true},
		{"wrong password", "wrongpassword", hash, false},
		{"case differs", "password123", hash, false},
		{"empty password", "", hash, false},
		{"garbage hash", "Password123", "not-a-bcrypt-hash", false},
		{"empty hash", "Password123", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPassword(tt.password, tt.hash))
		})
	}
}
