package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	u, err := CreateUser("cafe", "Robin Owner", "Robin@Example.com", "secret123", ROLE_OWNER)
	require.NoError(t, err)

	assert.Equal(t, "robin@example.com", u.Email)
	assert.Equal(t, STATUS_ACTIVE, u.Status)
	assert.True(t, u.IsOwner())
	assert.True(t, u.IsActive())

	assert.NotEqual(t, "secret123", u.Password, "password must be stored hashed")
	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestCreateUserValidation(t *testing.T) {
	_, err := CreateUser("cafe", "Robin", "not-an-email", "secret123", ROLE_STAFF)
	assert.Error(t, err)

	_, err = CreateUser("cafe", "Robin", "robin@example.com", "secret123", "superadmin")
	assert.Error(t, err)
}

func TestSetPassword(t *testing.T) {
	u, err := CreateUser("cafe", "Robin", "robin@example.com", "secret123", ROLE_STAFF)
	require.NoError(t, err)

	require.NoError(t, u.SetPassword("newsecret"))
	assert.False(t, u.CheckPassword("secret123"))
	assert.True(t, u.CheckPassword("newsecret"))
}

func TestUserRoleHelpers(t *testing.T) {
	staff := &User{Role: ROLE_STAFF, Status: STATUS_DISABLED}
	assert.False(t, staff.IsOwner())
	assert.False(t, staff.IsActive())
}
