package models

import (
	"time"
)

const timeFormat = "2006-01-02 15:04:05"

// Roles
const (
	RoleCustomer = "CUSTOMER"
	RoleManager  = "MANAGER"
	RoleAuditor  = "AUDITOR"
)

// Loan statuses
const (
	LoanStatusPending  = "PENDING"
	LoanStatusAccepted = "ACCEPTED"
	LoanStatusRejected = "REJECTED"
)

// User represents the users table.
//
// Soft deletion is an explicit flag + timestamp rather than gorm.DeletedAt:
// loans keep a weak reference to their owner, and reads of a loan whose
// owner was deleted must still resolve the owner row.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Email     string     `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	Phone     string     `gorm:"size:20" json:"phone"`
	Income    float64    `gorm:"type:decimal(15,2)" json:"income"`
	Role      string     `gorm:"size:20;default:'CUSTOMER'" json:"role"`
	Image     string     `gorm:"size:255" json:"image,omitempty"`
	Deleted   bool       `gorm:"default:false;index" json:"-"`
	DeletedAt *time.Time `json:"-"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Image     string `json:"image,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Image:     u.Image,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(timeFormat),
		UpdatedAt: u.UpdatedAt.Format(timeFormat),
	}
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleManager, RoleAuditor:
		return true
	}
	return false
}

// Loan represents the loans table.
type Loan struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Amount        float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Term          int       `gorm:"not null" json:"term"`
	Purpose       string    `gorm:"type:text;not null" json:"purpose"`
	Status        string    `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	ReviewedByID  *uint     `json:"reviewed_by_id"`
	ReviewComment *string   `gorm:"type:text" json:"review_comment"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User       *User `gorm:"foreignKey:UserID" json:"-"`
	ReviewedBy *User `gorm:"foreignKey:ReviewedByID" json:"-"`
}

func (Loan) TableName() string {
	return "loans"
}

// IsPending reports whether the loan is still open for mutation.
func (l *Loan) IsPending() bool {
	return l.Status == LoanStatusPending
}

// LoanResponse DTO
type LoanResponse struct {
	ID             uint    `json:"id"`
	Amount         float64 `json:"amount"`
	Term           int     `json:"term"`
	Purpose        string  `json:"purpose"`
	Status         string  `json:"status"`
	UserID         uint    `json:"userId"`
	UserName       string  `json:"userName,omitempty"`
	ReviewedByID   *uint   `json:"reviewedById,omitempty"`
	ReviewedByName string  `json:"reviewedByName,omitempty"`
	ReviewComment  *string `json:"reviewComment,omitempty"`
	CreatedAt      string  `json:"createdAt,omitempty"`
	UpdatedAt      string  `json:"updatedAt,omitempty"`
	UserDeleted    bool    `json:"userDeleted"`
}

// ToResponse maps a loan to its DTO. A soft-deleted owner still resolves
// and only raises the UserDeleted flag.
func (l *Loan) ToResponse() *LoanResponse {
	resp := &LoanResponse{
		ID:            l.ID,
		Amount:        l.Amount,
		Term:          l.Term,
		Purpose:       l.Purpose,
		Status:        l.Status,
		UserID:        l.UserID,
		ReviewedByID:  l.ReviewedByID,
		ReviewComment: l.ReviewComment,
		CreatedAt:     l.CreatedAt.Format(timeFormat),
		UpdatedAt:     l.UpdatedAt.Format(timeFormat),
	}

	if l.User != nil {
		resp.UserName = l.User.Name
		resp.UserDeleted = l.User.Deleted
	}
	if l.ReviewedBy != nil {
		resp.ReviewedByName = l.ReviewedBy.Name
	}

	return resp
}

// RefreshToken represents the refresh_tokens table.
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}
