package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jrdcruz/pageant-system/models"
	"github.com/jrdcruz/pageant-system/repositories"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type UserService interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error)
	UpdateUser(ctx context.Context, input UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, id int) error
}

type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateUserInput struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type userService struct {
	userRepo repositories.UserRepository
	// Accounts must belong to this email domain.
	allowedEmailDomain string
}

func NewUserService(userRepo repositories.UserRepository, allowedEmailDomain string) UserService {
	return &userService{
		userRepo:           userRepo,
		allowedEmailDomain: strings.ToLower(allowedEmailDomain),
	}
}

func (s *userService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *userService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" || input.Password == "" || input.Role == "" {
		return nil, ErrMissingFields
	}

	role, err := parseUserRole(input.Role)
	if err != nil {
		return nil, err
	}
	if err := s.validateEmailDomain(email); err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, input UpdateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if input.ID == 0 || username == "" || email == "" || input.Role == "" {
		return nil, ErrMissingFields
	}

	role, err := parseUserRole(input.Role)
	if err != nil {
		return nil, err
	}
	if err := s.validateEmailDomain(email); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", input.ID, err)
	}

	user.Username = username
	user.Email = email
	user.Role = role

	// An empty password keeps the existing hash.
	if input.Password != "" {
		if len(input.Password) < minPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash password: %w", hashErr)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repositories.ErrUserEmailConflict):
			return nil, ErrUserEmailConflict
		default:
			return nil, fmt.Errorf("failed to update user %d: %w", input.ID, err)
		}
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int) error {
	err := s.userRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}

func (s *userService) validateEmailDomain(email string) error {
	at := strings.LastIndex(email, "@")
	if at < 1 || email[at+1:] != s.allowedEmailDomain {
		return ErrEmailDomainNotAllowed
	}
	return nil
}

func parseUserRole(raw string) (models.UserRole, error) {
	role := models.UserRole(strings.TrimSpace(raw))
	switch role {
	case models.RoleAdmin, models.RoleJudge:
		return role, nil
	default:
		return "", ErrInvalidRole
	}
}
