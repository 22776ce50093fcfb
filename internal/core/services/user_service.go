package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"loandesk/internal/adapters/persistence/models"
	"loandesk/internal/adapters/persistence/repositories"
	"loandesk/internal/config"
	"loandesk/internal/core/domain"
	"loandesk/internal/pkg/jwt"
	"loandesk/internal/pkg/password"
	"loandesk/internal/pkg/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxImageSize is the profile image upload limit (2 MiB).
const MaxImageSize = 2 * 1024 * 1024

// UserService handles registration, authentication and account management.
type UserService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	images           *storage.ImageStore
	cfg              *config.Config
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	images *storage.ImageStore,
	cfg *config.Config,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		images:           images,
		cfg:              cfg,
	}
}

// RegisterInput represents a signup request
type RegisterInput struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    string  `json:"phone"`
	Income   float64 `json:"income"`
	Role     string  `json:"role"`
}

// LoginInput represents a login request
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordInput represents a password change request
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthResponse represents an authentication result
type AuthResponse struct {
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
	User         *models.UserResponse `json:"user"`
}

// Register creates a new user account and issues a token pair.
func (s *UserService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, domain.NewInternal(err)
	}
	if exists {
		return nil, domain.NewValidation("Email already in use")
	}

	role := models.RoleCustomer
	if input.Role != "" {
		role = strings.ToUpper(input.Role)
		if !models.ValidRole(role) {
			return nil, domain.NewValidation(fmt.Sprintf("Invalid role: %s", input.Role))
		}
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Phone:    input.Phone,
		Income:   input.Income,
		Role:     role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, domain.NewInternal(err)
	}

	log.Printf("User registered: %s", user.Email)
	return s.issueTokens(ctx, user)
}

// Login authenticates a user. Unknown email and wrong password yield the
// same message so the response is no oracle for email existence.
func (s *UserService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewAuthentication("Invalid email or password")
		}
		return nil, domain.NewInternal(err)
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.NewAuthentication("Invalid email or password")
	}

	log.Printf("User logged in: %s", user.Email)
	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token and issues a new token pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.NewAuthentication("Refresh token expired")
		}
		return nil, domain.NewAuthentication("Invalid refresh token")
	}

	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewAuthentication("Invalid refresh token")
		}
		return nil, domain.NewInternal(err)
	}
	if stored.IsRevoked() {
		return nil, domain.NewAuthentication("Invalid refresh token")
	}
	if stored.IsExpired() {
		return nil, domain.NewAuthentication("Refresh token expired")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.NewAuthentication("Invalid refresh token")
	}

	// Rotation: the presented token is single-use.
	if err := s.refreshTokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, domain.NewInternal(err)
	}

	log.Printf("Token refreshed for user: %s", user.Email)
	return s.issueTokens(ctx, user)
}

// Logout revokes a refresh token if one is presented. Access tokens are
// stateless and expire on their own.
func (s *UserService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken)); err != nil {
		log.Printf("⚠️ Failed to revoke refresh token: %v", err)
	}
}

// GetProfile returns the active (non-deleted) user for the identity.
func (s *UserService) GetProfile(ctx context.Context, email string) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByEmailNotDeleted(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("User", email)
		}
		return nil, domain.NewInternal(err)
	}
	return user.ToResponse(), nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *UserService) ChangePassword(ctx context.Context, email string, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByEmailNotDeleted(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewNotFound("User", email)
		}
		return domain.NewInternal(err)
	}

	if !password.Verify(input.CurrentPassword, user.Password) {
		return domain.NewValidation("Current password is incorrect")
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return domain.NewInternal(err)
	}

	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return domain.NewInternal(err)
	}

	log.Printf("Password changed for user: %s", email)
	return nil
}

// UpdateProfileImage stores a new profile image and removes the previous
// one. File cleanup is best-effort and stays outside the store transaction.
func (s *UserService) UpdateProfileImage(ctx context.Context, email string, data []byte, contentType, filename string) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("User", email)
		}
		return nil, domain.NewInternal(err)
	}

	if len(data) == 0 {
		return nil, domain.NewValidation("No file uploaded")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, domain.NewValidation("Only image files are allowed")
	}
	if len(data) > MaxImageSize {
		return nil, domain.NewValidation("File size exceeds 2MB limit")
	}

	path, err := s.images.Save(data, filepath.Ext(filename))
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	oldImage := user.Image
	user.Image = path
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.images.Remove(path)
		return nil, domain.NewInternal(err)
	}

	s.images.Remove(oldImage)

	log.Printf("Profile image updated for user: %s", email)
	return user.ToResponse(), nil
}

// DeleteAccount soft-deletes the user and best-effort removes the stored
// image. Loans owned by the user are kept.
func (s *UserService) DeleteAccount(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmailNotDeleted(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewNotFound("User", email)
		}
		return domain.NewInternal(err)
	}

	s.images.Remove(user.Image)

	now := time.Now()
	user.Deleted = true
	user.DeletedAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return domain.NewInternal(err)
	}

	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
		log.Printf("⚠️ Failed to revoke refresh tokens for %s: %v", email, err)
	}

	log.Printf("User account soft deleted: %s", email)
	return nil
}

// ResolveByUsername loads credentials for the authentication boundary.
func (s *UserService) ResolveByUsername(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewAuthentication("User not found with email: " + email)
		}
		return nil, domain.NewInternal(err)
	}
	return user, nil
}

// issueTokens generates an access/refresh pair and persists the refresh
// token hash for rotation.
func (s *UserService) issueTokens(ctx context.Context, user *models.User) (*AuthResponse, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		uuid.New().String(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	token := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	if err := s.refreshTokenRepo.Create(ctx, token); err != nil {
		return nil, domain.NewInternal(err)
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToResponse(),
	}, nil
}
