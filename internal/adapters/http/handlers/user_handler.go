package handlers

import (
	"io"
	"strings"

	"loandesk/internal/core/domain"
	"loandesk/internal/core/services"
	"loandesk/internal/pkg/response"
	"loandesk/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles registration, authentication and profile endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// SignupRequest represents registration request body
type SignupRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    string  `json:"phone"`
	Income   float64 `json:"income"`
	Role     string  `json:"role"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries the refresh token on refresh and logout
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest represents password change request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Signup handles user registration
// @Summary Register new user
// @Description Register a new user account and return auth tokens
// @Tags Users
// @Accept json
// @Produce json
// @Param body body SignupRequest true "Registration data"
// @Success 201 {object} services.AuthResponse
// @Failure 422 {object} response.ErrorBody
// @Router /users/signup [post]
func (h *UserHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "INVALID_JSON", "Request body is not valid JSON")
	}

	if errs := validation.Registration(req.Name, req.Email, req.Password, req.Phone); !errs.OK() {
		return domain.NewValidationFields("Validation failed", errs)
	}

	result, err := h.userService.Register(c.Context(), &services.RegisterInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Phone:    strings.TrimSpace(req.Phone),
		Income:   req.Income,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return response.Created(c, result)
}

// Login handles user authentication
// @Summary Login
// @Description Authenticate with email and password, returns tokens
// @Tags Users
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} services.AuthResponse
// @Failure 401 {object} response.ErrorBody
// @Router /users/login [post]
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "INVALID_JSON", "Request body is not valid JSON")
	}

	if errs := validation.Login(req.Email, req.Password); !errs.OK() {
		return domain.NewValidationFields("Validation failed", errs)
	}

	result, err := h.userService.Login(c.Context(), &services.LoginInput{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return response.OK(c, result)
}

// Refresh rotates the refresh token and issues a new token pair
// @Summary Refresh tokens
// @Description Exchange a valid refresh token for a new token pair
// @Tags Users
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} services.AuthResponse
// @Failure 401 {object} response.ErrorBody
// @Router /users/refresh [post]
func (h *UserHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "INVALID_JSON", "Request body is not valid JSON")
	}
	if req.RefreshToken == "" {
		return domain.NewValidation("Refresh token is required")
	}

	result, err := h.userService.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return response.OK(c, result)
}

// Logout revokes the presented refresh token
// @Summary Logout
// @Description Revoke the refresh token, ending the session
// @Tags Users
// @Accept json
// @Produce json
// @Param body body RefreshRequest false "Refresh token"
// @Success 204
// @Router /users/logout [post]
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	var req RefreshRequest
	// Body is optional on logout; ignore parse failures.
	_ = c.BodyParser(&req)

	h.userService.Logout(c.Context(), req.RefreshToken)

	return response.NoContent(c)
}

// GetProfile returns the authenticated user's profile
// @Summary Get profile
// @Description Returns the profile of the authenticated user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} response.ErrorBody
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)

	profile, err := h.userService.GetProfile(c.Context(), email)
	if err != nil {
		return err
	}

	return response.OK(c, profile)
}

// ChangePassword updates the authenticated user's password
// @Summary Change password
// @Description Change the authenticated user's password
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} map[string]string
// @Failure 422 {object} response.ErrorBody
// @Router /users/password [patch]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "INVALID_JSON", "Request body is not valid JSON")
	}

	if errs := validation.ChangePassword(req.CurrentPassword, req.NewPassword); !errs.OK() {
		return domain.NewValidationFields("Validation failed", errs)
	}

	email, _ := c.Locals("email").(string)
	if err := h.userService.ChangePassword(c.Context(), email, &services.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		return err
	}

	return response.OK(c, fiber.Map{"message": "Password changed successfully"})
}

// UpdateImage replaces the authenticated user's profile image
// @Summary Upload profile image
// @Description Upload a new profile image (multipart form field "image", max 2MB)
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 200 {object} models.UserResponse
// @Failure 422 {object} response.ErrorBody
// @Router /users/image [patch]
func (h *UserHandler) UpdateImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return domain.NewValidation("No file uploaded")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.NewValidation("No file uploaded")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.NewInternal(err)
	}

	email, _ := c.Locals("email").(string)
	profile, err := h.userService.UpdateProfileImage(c.Context(), email, data,
		fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		return err
	}

	return response.OK(c, profile)
}

// DeleteAccount soft deletes the authenticated user's account
// @Summary Delete account
// @Description Soft delete the authenticated user's account
// @Tags Users
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /users/profile [delete]
func (h *UserHandler) DeleteAccount(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)

	if err := h.userService.DeleteAccount(c.Context(), email); err != nil {
		return err
	}

	return response.NoContent(c)
}
