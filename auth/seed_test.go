package auth

import (
	"testing"

	"case-management-tool/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo implements just the user lookups SeedAdmin touches; the
// embedded interface panics on anything else.
type fakeUserRepo struct {
	models.Repository
	users map[string]*models.User
}

func (f *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	if user, ok := f.users[username]; ok {
		return user, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserRepo) CreateUser(user *models.User) error {
	if _, ok := f.users[user.Username]; ok {
		return models.ErrConflict
	}
	f.users[user.Username] = user
	return nil
}

func TestSeedAdminCreatesDefaultAccount(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{}}

	require.NoError(t, SeedAdmin(repo, "admin123", "admin@example.com"))

	admin, ok := repo.users["admin"]
	require.True(t, ok)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, CheckPassword(admin.PasswordHash, "admin123"))
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{}}

	require.NoError(t, SeedAdmin(repo, "admin123", "admin@example.com"))
	first := repo.users["admin"].PasswordHash

	require.NoError(t, SeedAdmin(repo, "different", "admin@example.com"))
	assert.Equal(t, first, repo.users["admin"].PasswordHash)
}
