package repository_test

import (
	"context"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkopaniuk/city-news/internal/models"
	"github.com/mkopaniuk/city-news/internal/repository"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	db := newTestDb(t)
	repo := repository.NewUserRepository(db, log.Default())

	user := models.User{
		FirstName:    "Тарас",
		LastName:     "Шевченко",
		Email:        "taras@example.com",
		PasswordHash: "$2a$10$fakehash",
	}
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.FindByEmail(ctx, "taras@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Тарас", found.FirstName)
	assert.Equal(t, "Шевченко", found.LastName)
	assert.Equal(t, "$2a$10$fakehash", found.PasswordHash)
	assert.NotZero(t, found.ID)

	byID, err := repo.FindByID(ctx, found.ID)
	require.NoError(t, err)
	assert.Equal(t, found, byID)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	db := newTestDb(t)
	repo := repository.NewUserRepository(db, log.Default())

	user := models.User{
		FirstName:    "Леся",
		LastName:     "Українка",
		Email:        "lesya@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, repo.Create(ctx, user))

	err := repo.Create(ctx, user)
	assert.ErrorIs(t, err, repository.ErrUserExists)

	// No second row was inserted.
	var cnt int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM users WHERE email = ?`, "lesya@example.com").Scan(&cnt))
	assert.Equal(t, 1, cnt)
}

func TestUserRepository_NotFound(t *testing.T) {
	db := newTestDb(t)
	repo := repository.NewUserRepository(db, log.Default())

	_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = repo.FindByID(context.Background(), 12345)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
