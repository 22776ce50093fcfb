package repositories

import (
	"context"

	"loandesk/internal/adapters/persistence/models"
)

// UserRepository defines user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailNotDeleted(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// LoanRepository defines loan data access. WithTransaction runs fn against
// a repository bound to a single store transaction; every read-modify-write
// on a loan goes through it.
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	GetByUserID(ctx context.Context, userID uint) ([]*models.Loan, error)
	List(ctx context.Context, offset, limit int, orderBy string) ([]*models.Loan, int64, error)
	Update(ctx context.Context, loan *models.Loan) error
	Delete(ctx context.Context, id uint) error
	WithTransaction(ctx context.Context, fn func(repo LoanRepository) error) error
}

// RefreshTokenRepository defines refresh token data access.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
}
