package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkopaniuk/city-news/internal/models"
	"github.com/mkopaniuk/city-news/internal/repository"
)

var (
	ErrMissingFields = errors.New("all fields are required")
	ErrEmailTaken    = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong
	// password, so a login attempt cannot probe for accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type userRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
}

type Service struct {
	repo   userRepository
	logger *log.Logger
}

func NewService(repo userRepository, logger *log.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Register(ctx context.Context, data models.RegisterData) error {
	if strings.TrimSpace(data.FirstName) == "" ||
		strings.TrimSpace(data.LastName) == "" ||
		strings.TrimSpace(data.Email) == "" ||
		data.Password == "" {
		return ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = s.repo.Create(ctx, models.User{
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Email:        data.Email,
		PasswordHash: string(hash),
	})
	if errors.Is(err, repository.ErrUserExists) {
		return ErrEmailTaken
	}
	return err
}

func (s *Service) Login(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Printf("failed to look up user by email: %v", err)
		}
		return models.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) Profile(ctx context.Context, id int64) (models.User, error) {
	return s.repo.FindByID(ctx, id)
}
