package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"loandesk/internal/adapters/persistence/models"
	"loandesk/internal/adapters/persistence/repositories"
	"loandesk/internal/core/domain"
	"loandesk/internal/pkg/pagination"
	"loandesk/internal/pkg/validation"

	"gorm.io/gorm"
)

// LoanService owns the loan state machine: apply, review, update, delete,
// list. Identity is the caller email resolved from the bearer token.
type LoanService struct {
	loanRepo repositories.LoanRepository
	userRepo repositories.UserRepository
}

// NewLoanService creates a new loan service
func NewLoanService(loanRepo repositories.LoanRepository, userRepo repositories.UserRepository) *LoanService {
	return &LoanService{
		loanRepo: loanRepo,
		userRepo: userRepo,
	}
}

// ApplyInput represents a loan application
type ApplyInput struct {
	Amount  float64 `json:"amount"`
	Term    int     `json:"term"`
	Purpose string  `json:"purpose"`
}

// ReviewInput represents a manager review decision
type ReviewInput struct {
	Status        string `json:"status"`
	ReviewComment string `json:"reviewComment"`
}

// UpdateInput represents a partial loan update. Nil fields are untouched.
type UpdateInput struct {
	Amount  *float64 `json:"amount"`
	Term    *int     `json:"term"`
	Purpose *string  `json:"purpose"`
}

// Apply creates a new PENDING loan for the owner identity.
func (s *LoanService) Apply(ctx context.Context, ownerEmail string, input *ApplyInput) (*models.LoanResponse, error) {
	owner, err := s.userRepo.GetByEmail(ctx, ownerEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("User", ownerEmail)
		}
		return nil, domain.NewInternal(err)
	}

	// Boundary validation is re-checked here so the invariant holds for
	// every caller of the service, not just the HTTP layer.
	if errs := validation.LoanApplication(&input.Amount, &input.Term, &input.Purpose); !errs.OK() {
		return nil, domain.NewValidationFields("Validation failed", errs)
	}

	loan := &models.Loan{
		Amount:  input.Amount,
		Term:    input.Term,
		Purpose: input.Purpose,
		Status:  models.LoanStatusPending,
		UserID:  owner.ID,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, domain.NewInternal(err)
	}

	log.Printf("Loan application submitted by %s: loanId=%d", ownerEmail, loan.ID)

	loan.User = owner
	return loan.ToResponse(), nil
}

// List returns a page of loans ordered by the whitelisted sort column.
//
// When statusFilter is set it is applied over the already-fetched page and
// the reported total is the filtered count. A filtered page can therefore
// hold fewer than size items; clients depend on this paging contract.
func (s *LoanService) List(ctx context.Context, params *pagination.Params, statusFilter string) (*pagination.Page, error) {
	loans, total, err := s.loanRepo.List(ctx, params.Offset(), params.Size, params.OrderBy())
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	if statusFilter != "" {
		filtered := loans[:0]
		for _, loan := range loans {
			if strings.EqualFold(loan.Status, statusFilter) {
				filtered = append(filtered, loan)
			}
		}
		loans = filtered
		total = int64(len(filtered))
	}

	responses := make([]*models.LoanResponse, len(loans))
	for i, loan := range loans {
		responses[i] = loan.ToResponse()
	}

	return pagination.NewPage(responses, params, total), nil
}

// GetByID returns a single loan.
func (s *LoanService) GetByID(ctx context.Context, id uint) (*models.LoanResponse, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("Loan", itoa(id))
		}
		return nil, domain.NewInternal(err)
	}
	return loan.ToResponse(), nil
}

// Approve transitions a PENDING loan to ACCEPTED.
func (s *LoanService) Approve(ctx context.Context, id uint, reviewerEmail string, input *ReviewInput) (*models.LoanResponse, error) {
	return s.review(ctx, id, reviewerEmail, input, models.LoanStatusAccepted)
}

// Reject transitions a PENDING loan to REJECTED.
func (s *LoanService) Reject(ctx context.Context, id uint, reviewerEmail string, input *ReviewInput) (*models.LoanResponse, error) {
	return s.review(ctx, id, reviewerEmail, input, models.LoanStatusRejected)
}

// review applies a terminal transition. The caller-supplied decision string
// must match the operation, and reviewer plus comment are set exactly once.
func (s *LoanService) review(ctx context.Context, id uint, reviewerEmail string, input *ReviewInput, target string) (*models.LoanResponse, error) {
	reviewer, err := s.userRepo.GetByEmail(ctx, reviewerEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("User", reviewerEmail)
		}
		return nil, domain.NewInternal(err)
	}

	if !strings.EqualFold(input.Status, target) {
		if target == models.LoanStatusAccepted {
			return nil, domain.NewValidation("Status must be ACCEPTED for approval")
		}
		return nil, domain.NewValidation("Status must be REJECTED for rejection")
	}

	var loan *models.Loan
	err = s.loanRepo.WithTransaction(ctx, func(repo repositories.LoanRepository) error {
		loan, err = repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFound("Loan", itoa(id))
			}
			return domain.NewInternal(err)
		}

		if !loan.IsPending() {
			return domain.NewConflict("LOAN_ALREADY_REVIEWED", "Loan has already been reviewed")
		}

		loan.Status = target
		loan.ReviewedByID = &reviewer.ID
		loan.ReviewComment = &input.ReviewComment

		if err := repo.Update(ctx, loan); err != nil {
			return domain.NewInternal(err)
		}
		return nil
	})
	if err != nil {
		return nil, asDomain(err)
	}

	log.Printf("Loan %d %s by manager %s", id, strings.ToLower(target), reviewerEmail)

	loan.ReviewedBy = reviewer
	return loan.ToResponse(), nil
}

// Update applies a partial update to a PENDING loan owned by the caller.
func (s *LoanService) Update(ctx context.Context, id uint, callerEmail string, input *UpdateInput) (*models.LoanResponse, error) {
	if errs := validation.LoanUpdate(input.Amount, input.Term, input.Purpose); !errs.OK() {
		return nil, domain.NewValidationFields("Validation failed", errs)
	}

	var loan *models.Loan
	err := s.loanRepo.WithTransaction(ctx, func(repo repositories.LoanRepository) error {
		var err error
		loan, err = repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFound("Loan", itoa(id))
			}
			return domain.NewInternal(err)
		}

		if loan.User == nil || loan.User.Email != callerEmail {
			return domain.NewValidation("You can only update your own loans")
		}
		if !loan.IsPending() {
			return domain.NewValidation("Only pending loans can be updated")
		}

		if input.Amount != nil {
			loan.Amount = *input.Amount
		}
		if input.Term != nil {
			loan.Term = *input.Term
		}
		if input.Purpose != nil {
			loan.Purpose = *input.Purpose
		}

		if err := repo.Update(ctx, loan); err != nil {
			return domain.NewInternal(err)
		}
		return nil
	})
	if err != nil {
		return nil, asDomain(err)
	}

	log.Printf("Loan %d updated by %s", id, callerEmail)
	return loan.ToResponse(), nil
}

// Delete removes a PENDING loan owned by the caller.
func (s *LoanService) Delete(ctx context.Context, id uint, callerEmail string) error {
	err := s.loanRepo.WithTransaction(ctx, func(repo repositories.LoanRepository) error {
		loan, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFound("Loan", itoa(id))
			}
			return domain.NewInternal(err)
		}

		if loan.User == nil || loan.User.Email != callerEmail {
			return domain.NewValidation("You can only delete your own loans")
		}
		if !loan.IsPending() {
			return domain.NewValidation("Only pending loans can be deleted")
		}

		if err := repo.Delete(ctx, loan.ID); err != nil {
			return domain.NewInternal(err)
		}
		return nil
	})
	if err != nil {
		return asDomain(err)
	}

	log.Printf("Loan %d deleted by %s", id, callerEmail)
	return nil
}

// ListMine returns all loans owned by the identity, newest first, unpaged.
func (s *LoanService) ListMine(ctx context.Context, ownerEmail string) ([]*models.LoanResponse, error) {
	owner, err := s.userRepo.GetByEmail(ctx, ownerEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("User", ownerEmail)
		}
		return nil, domain.NewInternal(err)
	}

	loans, err := s.loanRepo.GetByUserID(ctx, owner.ID)
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	responses := make([]*models.LoanResponse, len(loans))
	for i, loan := range loans {
		responses[i] = loan.ToResponse()
	}
	return responses, nil
}
