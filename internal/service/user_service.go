package service

import (
	"context"
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput carries the fields for account creation.
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserService implements account business logic.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	fields := make(map[string]string)
	if err := validation.ValidateUsername(input.Username); err != nil {
		fields["username"] = err.Error()
	}
	if err := validation.ValidateEmail(input.Email); err != nil {
		fields["email"] = err.Error()
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		fields["password"] = err.Error()
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	if existing, err := s.users.GetByUsername(ctx, input.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewFieldValidationError(map[string]string{"username": "A user with that username already exists."})
	}
	if existing, err := s.users.GetByEmail(ctx, input.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewFieldValidationError(map[string]string{"email": "A user with that email already exists."})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  input.Username,
		Email:     input.Email,
		Password:  string(hashed),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		IsAuthor:  true,
		IsReader:  true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("User", id)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials. The same error is returned for an
// unknown username and a wrong password so callers cannot probe accounts.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("No active account found with the given credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("No active account found with the given credentials")
	}
	return user, nil
}
