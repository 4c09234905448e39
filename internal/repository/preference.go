package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

var ErrNoPreference = errors.New("no preference stored")

// PreferenceRepository stores the single chosen city per bot user.
type PreferenceRepository struct {
	DB     *sql.DB
	logger *log.Logger
}

func NewPreferenceRepository(db *sql.DB, logger *log.Logger) *PreferenceRepository {
	return &PreferenceRepository{DB: db, logger: logger}
}

// Upsert inserts or overwrites the city for a user inside a transaction.
// At most one row per user_id exists at any time.
func (r *PreferenceRepository) Upsert(ctx context.Context, userID int64, city string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}

	var id int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM preferences WHERE user_id = ? LIMIT 1`, userID,
	).Scan(&id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			`INSERT INTO preferences (user_id, city) VALUES (?, ?)`, userID, city)
	case err == nil:
		_, err = tx.ExecContext(ctx,
			`UPDATE preferences SET city = ? WHERE id = ?`, city, id)
	}

	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Printf("failed to rollback preference upsert: %v", rbErr)
		}
		return fmt.Errorf("upsert preference for user %d: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit preference upsert: %w", err)
	}
	return nil
}

// GetCity returns the stored city for a user, or ErrNoPreference.
func (r *PreferenceRepository) GetCity(ctx context.Context, userID int64) (string, error) {
	var city string
	err := r.DB.QueryRowContext(ctx,
		`SELECT city FROM preferences WHERE user_id = ? LIMIT 1`, userID,
	).Scan(&city)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoPreference
	}
	if err != nil {
		return "", err
	}
	return city, nil
}
