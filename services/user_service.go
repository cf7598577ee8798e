package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"orbit.events/configs/configslog"
	"orbit.events/models"
	"orbit.events/repositories"

	"github.com/go-playground/validator"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserServiceError is the typed error family for user operations.
type UserServiceError string

func (e UserServiceError) Error() string { return string(e) }

const (
	ErrUserNotFound       UserServiceError = "user not found"
	ErrEmailTaken         UserServiceError = "email is already in use"
	ErrInvalidCredentials UserServiceError = "invalid email or password"
	ErrUserInvalidInput   UserServiceError = "invalid signup data"
	ErrPasswordHashing    UserServiceError = "password could not be hashed"
)

var validate = validator.New()

// RegisterInput is the full signup submission, validated as one record.
type RegisterInput struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8,max=64"`
}

// IUserService covers signup, login and profile reads.
type IUserService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetProfile(ctx context.Context, userID uint) (*models.User, error)
}

// UserService implements IUserService.
type UserService struct {
	repo repositories.IUserRepository
}

// NewUserService builds the service on the shared connection.
func NewUserService() IUserService {
	return &UserService{repo: repositories.NewUserRepository()}
}

// NewUserServiceWithDB builds the service on an explicit connection.
func NewUserServiceWithDB(db *gorm.DB) IUserService {
	return &UserService{repo: repositories.NewUserRepositoryWithDB(db)}
}

// Register validates the submission, rejects duplicate emails
// case-insensitively and stores the credential hashed.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validate.Struct(&input); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUserInvalidInput, registerValidationMessage(err))
	}

	// Friendly pre-check; the unique index remains the authority under
	// concurrent signups.
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Register: bcrypt failed", zap.Error(err))
		return nil, ErrPasswordHashing
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the credential. Lookup and comparison failures both
// collapse into ErrInvalidCredentials so the response leaks nothing.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetProfile loads a user with owned events and RSVPs (derived views).
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.FindByIDWithRelations(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func registerValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid input"
	}
	fe := verrs[0]
	switch fe.Field() {
	case "FirstName":
		return "first name is required"
	case "LastName":
		return "last name is required"
	case "Email":
		return "a valid email is required"
	case "Password":
		return "password must be between 8 and 64 characters long"
	}
	return "invalid input"
}

var _ IUserService = (*UserService)(nil)
