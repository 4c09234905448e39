package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/mkopaniuk/city-news/internal/models"
)

var (
	ErrUserExists   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository stores web accounts. Accounts are created once and
// never updated or deleted by the application.
type UserRepository struct {
	DB     *sql.DB
	logger *log.Logger
}

func NewUserRepository(db *sql.DB, logger *log.Logger) *UserRepository {
	return &UserRepository{DB: db, logger: logger}
}

// Create inserts a new account, returns ErrUserExists on a duplicate email.
func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	var cnt int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, user.Email,
	).Scan(&cnt)
	if err != nil {
		return err
	}
	if cnt > 0 {
		return ErrUserExists
	}

	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO users (first_name, last_name, email, password_hash)
		 VALUES (?, ?, ?, ?)`,
		user.FirstName, user.LastName, user.Email, user.PasswordHash,
	)
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email, password_hash
		 FROM users WHERE email = ? LIMIT 1`, email,
	).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email, password_hash
		 FROM users WHERE id = ? LIMIT 1`, id,
	).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}
