package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"loandesk/internal/adapters/http/middleware"
	"loandesk/internal/adapters/persistence/models"
	"loandesk/internal/config"
	"loandesk/internal/pkg/jwt"
	"loandesk/internal/pkg/password"
	"loandesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	cfg := &config.Config{
		AppMode:   "dev",
		UploadDir: t.TempDir(),
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})
	Setup(app, db, cfg)

	return app, db, cfg
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	hashed, err := password.Hash("secret-pass-123")
	require.NoError(t, err)
	user := &models.User{
		Name:     "Test " + role,
		Email:    email,
		Password: hashed,
		Phone:    "0812345678",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func tokenFor(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(user.ID, user.Email, user.Role, cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

func errorBody(t *testing.T, raw []byte) *response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(raw, &body))
	return &body
}

func TestSignupAndLogin(t *testing.T) {
	app, _, _ := setupApp(t)

	resp, raw := doJSON(t, app, "POST", "/api/v1/users/signup", "", fiber.Map{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret-pass-123",
		"phone":    "0812345678",
		"income":   42000,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))

	var auth struct {
		AccessToken  string               `json:"accessToken"`
		RefreshToken string               `json:"refreshToken"`
		User         *models.UserResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal(raw, &auth))
	assert.NotEmpty(t, auth.AccessToken)
	assert.Equal(t, "CUSTOMER", auth.User.Role)

	// Duplicate email.
	resp, raw = doJSON(t, app, "POST", "/api/v1/users/signup", "", fiber.Map{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret-pass-123",
		"phone":    "0812345678",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	body := errorBody(t, raw)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "Email already in use", body.Message)

	// Wrong password.
	resp, raw = doJSON(t, app, "POST", "/api/v1/users/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body = errorBody(t, raw)
	assert.Equal(t, "AUTHENTICATION_ERROR", body.Code)
	assert.Equal(t, "Invalid email or password", body.Message)
	assert.Equal(t, fiber.StatusUnauthorized, body.Status)
	assert.False(t, body.Timestamp.IsZero())

	resp, _ = doJSON(t, app, "POST", "/api/v1/users/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "secret-pass-123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	app, _, _ := setupApp(t)

	resp, raw := doJSON(t, app, "POST", "/api/v1/users/signup", "", fiber.Map{
		"email": "not-an-email",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	body := errorBody(t, raw)
	assert.Equal(t, "Name is required", body.Errors["name"])
	assert.Equal(t, "Email must be a valid email address", body.Errors["email"])
	assert.Equal(t, "Password is required", body.Errors["password"])
}

func TestAuthRequired(t *testing.T) {
	app, _, _ := setupApp(t)

	resp, raw := doJSON(t, app, "GET", "/api/v1/loans/my", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "AUTHENTICATION_ERROR", errorBody(t, raw).Code)

	resp, _ = doJSON(t, app, "GET", "/api/v1/loans/my", "garbage-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRoleGating(t *testing.T) {
	app, db, cfg := setupApp(t)

	customer := seedUser(t, db, "alice@example.com", models.RoleCustomer)
	manager := seedUser(t, db, "boss@example.com", models.RoleManager)
	auditor := seedUser(t, db, "audit@example.com", models.RoleAuditor)

	customerToken := tokenFor(t, cfg, customer)
	managerToken := tokenFor(t, cfg, manager)
	auditorToken := tokenFor(t, cfg, auditor)

	resp, _ := doJSON(t, app, "POST", "/api/v1/loans/apply", customerToken, fiber.Map{
		"amount": 500, "term": 12, "purpose": "Car repair",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Listing all loans is for managers and auditors.
	resp, raw := doJSON(t, app, "GET", "/api/v1/loans", customerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "ACCESS_DENIED", errorBody(t, raw).Code)

	resp, _ = doJSON(t, app, "GET", "/api/v1/loans", auditorToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/v1/loans", managerToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Reviewing is for managers only.
	review := fiber.Map{"status": "ACCEPTED", "reviewComment": "ok"}
	resp, _ = doJSON(t, app, "POST", "/api/v1/loans/1/approve", auditorToken, review)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, raw = doJSON(t, app, "POST", "/api/v1/loans/1/approve", managerToken, review)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	// A second review conflicts.
	resp, raw = doJSON(t, app, "POST", "/api/v1/loans/1/reject", managerToken,
		fiber.Map{"status": "REJECTED", "reviewComment": "no"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "LOAN_ALREADY_REVIEWED", errorBody(t, raw).Code)
}

func TestLoanEndpoints(t *testing.T) {
	app, db, cfg := setupApp(t)

	customer := seedUser(t, db, "alice@example.com", models.RoleCustomer)
	token := tokenFor(t, cfg, customer)

	resp, raw := doJSON(t, app, "POST", "/api/v1/loans/apply", token, fiber.Map{
		"amount": 50, "term": 12, "purpose": "Car repair",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Minimum loan amount is 100.00", errorBody(t, raw).Errors["amount"])

	resp, raw = doJSON(t, app, "POST", "/api/v1/loans/apply", token, fiber.Map{
		"amount": 500, "term": 12, "purpose": "Car repair",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created models.LoanResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "PENDING", created.Status)

	// "my" must not be parsed as a loan id.
	resp, raw = doJSON(t, app, "GET", "/api/v1/loans/my", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var mine []models.LoanResponse
	require.NoError(t, json.Unmarshal(raw, &mine))
	assert.Len(t, mine, 1)

	resp, raw = doJSON(t, app, "GET", "/api/v1/loans/abc", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "TYPE_MISMATCH", errorBody(t, raw).Code)

	resp, raw = doJSON(t, app, "GET", "/api/v1/loans/9999", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "RESOURCE_NOT_FOUND", errorBody(t, raw).Code)

	path := fmt.Sprintf("/api/v1/loans/%d", created.ID)
	resp, raw = doJSON(t, app, "PATCH", path, token, fiber.Map{"amount": 900})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var updated models.LoanResponse
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, 900.0, updated.Amount)
	assert.Equal(t, 12, updated.Term)

	resp, _ = doJSON(t, app, "DELETE", path, token, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	app, _, _ := setupApp(t)

	resp, raw := doJSON(t, app, "GET", "/api/v1/nope", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ENDPOINT_NOT_FOUND", errorBody(t, raw).Code)
}
