package repository_test

import (
	"context"
	"database/sql"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mkopaniuk/city-news/internal/repository"
)

func newTestDb(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	_, err = db.Exec(`
		CREATE TABLE preferences (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL UNIQUE,
			city TEXT NOT NULL
		);
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		);
	`)
	require.NoError(t, err)
	return db
}

func countPreferences(t *testing.T, db *sql.DB, userID int64) int {
	t.Helper()

	var cnt int
	err := db.QueryRow(`SELECT COUNT(*) FROM preferences WHERE user_id = ?`, userID).Scan(&cnt)
	require.NoError(t, err)
	return cnt
}

func TestPreferenceRepository_UpsertInsertsThenReplaces(t *testing.T) {
	ctx := context.Background()
	db := newTestDb(t)
	repo := repository.NewPreferenceRepository(db, log.Default())

	require.NoError(t, repo.Upsert(ctx, 100, "Київ"))

	city, err := repo.GetCity(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Київ", city)
	assert.Equal(t, 1, countPreferences(t, db, 100))

	// New city for the same user replaces, never duplicates.
	require.NoError(t, repo.Upsert(ctx, 100, "Львів"))

	city, err = repo.GetCity(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Львів", city)
	assert.Equal(t, 1, countPreferences(t, db, 100))
}

func TestPreferenceRepository_UpsertIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDb(t)
	repo := repository.NewPreferenceRepository(db, log.Default())

	require.NoError(t, repo.Upsert(ctx, 7, "Одеса"))
	require.NoError(t, repo.Upsert(ctx, 7, "Одеса"))

	city, err := repo.GetCity(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Одеса", city)
	assert.Equal(t, 1, countPreferences(t, db, 7))
}

func TestPreferenceRepository_UsersAreIndependent(t *testing.T) {
	ctx := context.Background()
	db := newTestDb(t)
	repo := repository.NewPreferenceRepository(db, log.Default())

	require.NoError(t, repo.Upsert(ctx, 1, "Київ"))
	require.NoError(t, repo.Upsert(ctx, 2, "Харків"))

	city, err := repo.GetCity(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Київ", city)

	city, err = repo.GetCity(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Харків", city)
}

func TestPreferenceRepository_GetCityNoPreference(t *testing.T) {
	db := newTestDb(t)
	repo := repository.NewPreferenceRepository(db, log.Default())

	_, err := repo.GetCity(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrNoPreference)
}
