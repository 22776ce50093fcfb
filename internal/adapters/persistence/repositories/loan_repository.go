package repositories

import (
	"context"

	"loandesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loanRepository implements LoanRepository
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID with owner and reviewer
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ReviewedBy").
		First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// GetByUserID gets all loans owned by a user, newest first
func (r *loanRepository) GetByUserID(ctx context.Context, userID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ReviewedBy").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

// List lists loans with pagination. orderBy must be a whitelisted column
// expression (see pagination.OrderBy).
func (r *loanRepository) List(ctx context.Context, offset, limit int, orderBy string) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Loan{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ReviewedBy").
		Order(orderBy).
		Offset(offset).
		Limit(limit).
		Find(&loans).Error

	return loans, total, err
}

// Update updates a loan. Associations are never written back so a
// preloaded owner cannot be modified through a loan save.
func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(loan).Error
}

// Delete hard-deletes a loan
func (r *loanRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Loan{}, id).Error
}

// WithTransaction executes fn within a single store transaction so a
// concurrent reader never observes a half-applied mutation.
func (r *loanRepository) WithTransaction(ctx context.Context, fn func(repo LoanRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&loanRepository{db: tx})
	})
}
