package handlers

import (
	"context"
	"strconv"

	"loandesk/internal/adapters/persistence/models"
	"loandesk/internal/core/domain"
	"loandesk/internal/core/services"
	"loandesk/internal/pkg/pagination"
	"loandesk/internal/pkg/response"
	"loandesk/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan application endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// ApplyRequest represents a loan application request body
type ApplyRequest struct {
	Amount  *float64 `json:"amount"`
	Term    *int     `json:"term"`
	Purpose *string  `json:"purpose"`
}

// ReviewRequest represents an approve/reject request body
type ReviewRequest struct {
	Status        string `json:"status"`
	ReviewComment string `json:"reviewComment"`
}

// UpdateRequest represents a loan update request body; absent fields
// keep their current values.
type UpdateRequest struct {
	Amount  *float64 `json:"amount"`
	Term    *int     `json:"term"`
	Purpose *string  `json:"purpose"`
}

func parseLoanID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// Apply submits a new loan application
// @Summary Apply for a loan
// @Description Submit a new loan application for the authenticated user
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ApplyRequest true "Loan application"
// @Success 201 {object} models.LoanResponse
// @Failure 422 {object} response.ErrorBody
// @Router /loans/apply [post]
func (h *LoanHandler) Apply(c *fiber.Ctx) error {
	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "INVALID_JSON", "Request body is not valid JSON")
	}

	if errs := validation.LoanApplication(req.Amount, req.Term, req.Purpose); !errs.OK() {
		return domain.NewValidationFields("Validation failed", errs)
	}

	email, _ := c.Locals("email").(string)
	result, err := h.loanService.Apply(c.Context(), email, &services.ApplyInput{
		Amount:  *req.Amount,
		Term:    *req.Term,
		Purpose: *req.Purpose,
	})
	if err != nil {
		return err
	}

	return response.Created(c, result)
}

// List returns a page of all loans
// @Summary List loans
// @Description List all loan applications with pagination, optionally filtered by status
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (zero based)"
// @Param size query int false "Page size"
// @Param sort query string false "Sort field"
// @Param direction query string false "Sort direction (asc or desc)"
// @Param status query string false "Filter by status (PENDING, ACCEPTED, REJECTED)"
// @Success 200 {object} pagination.Page
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.loanService.List(c.Context(), params, c.Query("status"))
	if err != nil {
		return err
	}

	return response.OK(c, result)
}

// ListMine returns the authenticated user's loans
// @Summary List my loans
// @Description List the authenticated user's own loan applications
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.LoanResponse
// @Router /loans/my [get]
func (h *LoanHandler) ListMine(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)

	result, err := h.loanService.ListMine(c.Context(), email)
	if err != nil {
		return err
	}

	return response.OK(c, result)
}

// Get returns a single loan by id
// @Summary Get loan
// @Description Get a loan application by id
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} models.LoanResponse
// @Failure 404 {object} response.ErrorBody
// @Router /loans/{id} [get]
func (h *LoanHandler) Get(c *fiber.Ctx) error {
	id, ok := parseLoanID(c)
	if !ok {
		return response.BadRequest(c, "TYPE_MISMATCH", "Loan id must be a number")
	}

	result, err := h.loanService.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return response.OK(c, result)
}

// Approve marks a pending loan as accepted
// @Summary Approve loan
// @Description Approve a pending loan application (managers only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body ReviewRequest true "Review decision"
// @Success 200 {object} models.LoanResponse
// @Failure 409 {object} response.ErrorBody
// @Router /loans/{id}/approve [post]
func (h *LoanHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, h.loanService.Approve)
}

// Reject marks a pending loan as rejected
// @Summary Reject loan
// @Description Reject a pending loan application (managers only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body ReviewRequest true "Review decision"
// @Success 200 {object} models.LoanResponse
// @Failure 409 {object} response.ErrorBody
// @Router /loans/{id}/reject [post]
func (h *LoanHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, h.loanService.Reject)
}

func (h *LoanHandler) review(
	c *fiber.Ctx,
	fn func(ctx context.Context, id uint, reviewerEmail string, input *services.ReviewInput) (*models.LoanResponse, error),
) error {
	id, ok := parseLoanID(c)
	if !ok {
		return response.BadRequest(c, "TYPE_MISMATCH", "Loan id must be a number")
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "INVALID_JSON", "Request body is not valid JSON")
	}

	if errs := validation.LoanReview(req.Status, req.ReviewComment); !errs.OK() {
		return domain.NewValidationFields("Validation failed", errs)
	}

	email, _ := c.Locals("email").(string)
	result, err := fn(c.Context(), id, email, &services.ReviewInput{
		Status:        req.Status,
		ReviewComment: req.ReviewComment,
	})
	if err != nil {
		return err
	}

	return response.OK(c, result)
}

// Update modifies a pending loan owned by the caller
// @Summary Update loan
// @Description Update a pending loan application owned by the caller
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body UpdateRequest true "Fields to update"
// @Success 200 {object} models.LoanResponse
// @Failure 422 {object} response.ErrorBody
// @Router /loans/{id} [patch]
func (h *LoanHandler) Update(c *fiber.Ctx) error {
	id, ok := parseLoanID(c)
	if !ok {
		return response.BadRequest(c, "TYPE_MISMATCH", "Loan id must be a number")
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "INVALID_JSON", "Request body is not valid JSON")
	}

	if errs := validation.LoanUpdate(req.Amount, req.Term, req.Purpose); !errs.OK() {
		return domain.NewValidationFields("Validation failed", errs)
	}

	email, _ := c.Locals("email").(string)
	result, err := h.loanService.Update(c.Context(), id, email, &services.UpdateInput{
		Amount:  req.Amount,
		Term:    req.Term,
		Purpose: req.Purpose,
	})
	if err != nil {
		return err
	}

	return response.OK(c, result)
}

// Delete removes a pending loan owned by the caller
// @Summary Delete loan
// @Description Delete a pending loan application owned by the caller
// @Tags Loans
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /loans/{id} [delete]
func (h *LoanHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseLoanID(c)
	if !ok {
		return response.BadRequest(c, "TYPE_MISMATCH", "Loan id must be a number")
	}

	email, _ := c.Locals("email").(string)
	if err := h.loanService.Delete(c.Context(), id, email); err != nil {
		return err
	}

	return response.NoContent(c)
}
