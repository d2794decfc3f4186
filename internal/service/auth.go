package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "eventify/internal/errors"
	"eventify/internal/logger"
	"eventify/internal/middleware"
	"eventify/internal/models"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userStore   UserStore
	jwtSecret   string
	vendorIndex VendorIndex
}

func NewAuthService(userStore UserStore, jwtSecret string, vendorIndex VendorIndex) *AuthService {
	return &AuthService{
		userStore:   userStore,
		jwtSecret:   jwtSecret,
		vendorIndex: vendorIndex,
	}
}

var validRoles = map[string]bool{
	models.RoleAdmin:     true,
	models.RoleOrganizer: true,
	models.RoleVendor:    true,
	models.RoleUser:      true,
}

func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !validRoles[role] {
		return nil, apperrors.Validation("invalid role %q", role)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Validation("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if req.City != "" {
		user.City = &req.City
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}
	if req.Category != "" {
		user.Category = &req.Category
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if user.Role == models.RoleVendor {
		s.indexVendor(ctx, user)
	}

	return user, nil
}

// indexVendor publishes a fresh vendor account into the directory index.
// Failures are logged; signup never depends on the index.
func (s *AuthService) indexVendor(ctx context.Context, user *models.User) {
	if s.vendorIndex == nil {
		return
	}

	view := &models.VendorView{ID: user.ID, Name: user.Name, Email: user.Email}
	if user.City != nil {
		view.City = *user.City
	}
	if user.Phone != nil {
		view.Phone = *user.Phone
	}
	if user.Category != nil {
		view.Category = *user.Category
	}
	if user.ProfileImage != nil {
		view.ProfileImage = *user.ProfileImage
	}

	if err := s.vendorIndex.IndexVendor(ctx, view); err != nil {
		logger.WithContext(ctx).Warn("Failed to index new vendor",
			"error", err,
			"vendor_id", user.ID)
	}
}

func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	token, err := middleware.GenerateToken(user.ID, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.LoginResponse{Token: token, User: user}, nil
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user %d not found", id)
	}
	return user, nil
}
