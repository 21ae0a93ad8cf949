package repository

import (
	"errors"
	"testing"

	"github.com/jkim/roastery-backend/internal/app/model"
	"github.com/jkim/roastery-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) UserRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return NewUserRepository(testDB)
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := setupUserTest(t)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, repo.Create(user))
	assert.NotZero(t, user.ID)

	byID, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", byID.Email)

	byEmail, err := repo.FindByEmail("test@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo := setupUserTest(t)

	require.NoError(t, repo.Create(&model.User{
		Email: "dup@example.com", PasswordHash: "hash", Name: "First", Role: model.RoleCustomer,
	}))

	err := repo.Create(&model.User{
		Email: "dup@example.com", PasswordHash: "hash", Name: "Second", Role: model.RoleCustomer,
	})
	assert.Error(t, err)
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	repo := setupUserTest(t)

	_, err := repo.FindByEmail("nobody@example.com")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestUserRepository_Update(t *testing.T) {
	repo := setupUserTest(t)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Before",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, repo.Create(user))

	user.Name = "After"
	require.NoError(t, repo.Update(user))

	fetched, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", fetched.Name)
}
