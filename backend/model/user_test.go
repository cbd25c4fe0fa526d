package model

import (
	"testing"

	"github.com/zaunist/filebox/backend/common"

	"github.com/stretchr/testify/assert"
)

func TestInsertEnforcesPasswordPolicy(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()

	weak := &User{
		Username: "alice",
		Password: "short",
		Email:    "alice@example.com",
		Role:     common.RoleCommonUser,
		Status:   common.UserStatusEnabled,
	}
	assert.ErrorIs(t, weak.Insert(), ErrPasswordPolicy)

	assert.False(t, IsEmailAlreadyTaken("alice@example.com"), "no row may exist for a rejected credential")

	weak.Password = "abc12345"
	assert.NoError(t, weak.Insert())
}

func TestEnsureRootUserEnforcesPasswordPolicy(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()

	err := EnsureRootUser("boxer", "admin@example.com", "letters")
	assert.ErrorIs(t, err, ErrPasswordPolicy)

	existing, err := UserDB.Where("role = ?", common.RoleRootUser).Fetch(0, 1)
	assert.NoError(t, err)
	assert.Empty(t, existing)

	assert.NoError(t, EnsureRootUser("boxer", "admin@example.com", "abc12345"))
}

func TestResetUserPasswordByEmail(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()

	user := &User{
		Username: "alice",
		Password: "abc12345",
		Email:    "alice@example.com",
		Role:     common.RoleCommonUser,
		Status:   common.UserStatusEnabled,
	}
	assert.NoError(t, user.Insert())

	// The reset path enforces the same policy as registration.
	assert.ErrorIs(t, ResetUserPasswordByEmail("alice@example.com", "short"), ErrPasswordPolicy)

	assert.NoError(t, ResetUserPasswordByEmail("alice@example.com", "newpass99"))

	old := &User{Email: "alice@example.com", Password: "abc12345"}
	assert.Error(t, old.ValidateAndFill(), "old credential must stop working")

	fresh := &User{Email: "alice@example.com", Password: "newpass99"}
	assert.NoError(t, fresh.ValidateAndFill())
	assert.Equal(t, user.ID, fresh.ID)
}
