package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserTimezone(t *testing.T) {
	t.Parallel() // Enable parallel execution

	user, err := NewUser("tester@example.com", "a-long-enough-password", "")
	require.NoError(t, err)
	assert.Equal(t, "UTC", user.Timezone, "empty timezone defaults to UTC")

	user, err = NewUser("tester@example.com", "a-long-enough-password", "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", user.Location().String())

	_, err = NewUser("tester@example.com", "a-long-enough-password", "Mars/Olympus")
	assert.Error(t, err, "unknown timezone names are rejected")
}

func TestUserPasswordValidation(t *testing.T) {
	t.Parallel() // Enable parallel execution

	_, err := NewUser("tester@example.com", "short", "")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = NewUser("tester@example.com", strings.Repeat("x", 73), "")
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = NewUser("not-an-email", "a-long-enough-password", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestUserValidateStoredHash(t *testing.T) {
	t.Parallel() // Enable parallel execution

	user, err := NewUser("tester@example.com", "a-long-enough-password", "")
	require.NoError(t, err)

	// A user loaded from storage carries only the hash.
	user.Password = ""
	user.HashedPassword = "$2a$10$notarealhashbutnonempty"
	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
}

func TestUserLocationFallback(t *testing.T) {
	t.Parallel() // Enable parallel execution

	user := &User{Timezone: "No/Such_Zone"}
	assert.Equal(t, time.UTC, user.Location(), "unparseable stored timezone falls back to UTC")
}
