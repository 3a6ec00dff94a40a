package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/laptrinhjava/task-planner-api/internal/models"
	"github.com/laptrinhjava/task-planner-api/internal/repository"
	"github.com/laptrinhjava/task-planner-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrEmailClaimMissing = errors.New("email claim missing from identity provider")
	ErrUserNotFound      = errors.New("user not found")
)

// AuthService resolves identity-provider claims to persisted users.
type AuthService struct {
	userRepo    repository.UserRepository
	defaultRole string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, defaultRole string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		defaultRole: defaultRole,
	}
}

// ProvisionInput holds the identity claims confirmed by the provider.
type ProvisionInput struct {
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}

// ProvisionUser upserts a user keyed by email: a new email creates a row
// with a derived unique username, an existing one gets its name and
// avatar refreshed. Called on every successful login.
func (s *AuthService) ProvisionUser(input ProvisionInput) (*models.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrEmailClaimMissing
	}

	user, err := s.userRepo.FindByEmail(email)
	if err == nil {
		user.Name = input.Name
		user.AvatarURL = input.AvatarURL
		if err := s.userRepo.Update(user); err != nil {
			return nil, fmt.Errorf("failed to refresh user: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	base := utils.UsernameFromEmail(email)
	if base == "" {
		base = input.Subject
	}

	username, err := s.ensureUniqueUsername(base)
	if err != nil {
		return nil, err
	}

	user = &models.User{
		Username:  username,
		Name:      input.Name,
		Email:     email,
		AvatarURL: input.AvatarURL,
		Role:      s.defaultRole,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ensureUniqueUsername disambiguates a base username by suffixing an
// integer on collision.
func (s *AuthService) ensureUniqueUsername(base string) (string, error) {
	username := base
	for count := 1; ; count++ {
		_, err := s.userRepo.FindByUsername(username)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return username, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		username = base + strconv.Itoa(count)
	}
}
