package validation

import (
	"regexp"
	"strings"

	"loandesk/internal/pkg/password"
)

// Loan policy bounds
const (
	MinLoanAmount = 100.00
	MinLoanTerm   = 1
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Errors maps a field name to its validation message. An empty map means the
// input passed.
type Errors map[string]string

func (e Errors) add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

// OK reports whether validation passed
func (e Errors) OK() bool {
	return len(e) == 0
}

// Registration validates a signup request. role may be empty (defaults to
// CUSTOMER downstream); unknown roles are rejected by the service, which
// knows the role set.
func Registration(name, email, pass, phone string) Errors {
	errs := Errors{}
	if strings.TrimSpace(name) == "" {
		errs.add("name", "Name is required")
	}
	if strings.TrimSpace(email) == "" {
		errs.add("email", "Email is required")
	} else if !emailPattern.MatchString(email) {
		errs.add("email", "Email must be a valid email address")
	}
	if pass == "" {
		errs.add("password", "Password is required")
	} else if !password.ValidatePassword(pass) {
		errs.add("password", "Password must be at least 8 characters")
	}
	if strings.TrimSpace(phone) == "" {
		errs.add("phone", "Phone is required")
	}
	return errs
}

// Login validates a login request
func Login(email, pass string) Errors {
	errs := Errors{}
	if strings.TrimSpace(email) == "" {
		errs.add("email", "Email is required")
	}
	if pass == "" {
		errs.add("password", "Password is required")
	}
	return errs
}

// ChangePassword validates a password change request
func ChangePassword(current, next string) Errors {
	errs := Errors{}
	if current == "" {
		errs.add("currentPassword", "Current password is required")
	}
	if next == "" {
		errs.add("newPassword", "New password is required")
	} else if !password.ValidatePassword(next) {
		errs.add("newPassword", "Password must be at least 8 characters")
	}
	return errs
}

// LoanApplication validates a loan application; all fields are required.
func LoanApplication(amount *float64, term *int, purpose *string) Errors {
	errs := Errors{}
	if amount == nil {
		errs.add("amount", "Amount is required")
	} else if *amount < MinLoanAmount {
		errs.add("amount", "Minimum loan amount is 100.00")
	}
	if term == nil {
		errs.add("term", "Term is required")
	} else if *term < MinLoanTerm {
		errs.add("term", "Minimum term is 1 month")
	}
	if purpose == nil || strings.TrimSpace(*purpose) == "" {
		errs.add("purpose", "Purpose is required")
	}
	return errs
}

// LoanUpdate validates a partial loan update; nil fields are left untouched
// by the service and are not validated.
func LoanUpdate(amount *float64, term *int, purpose *string) Errors {
	errs := Errors{}
	if amount != nil && *amount < MinLoanAmount {
		errs.add("amount", "Minimum loan amount is 100.00")
	}
	if term != nil && *term < MinLoanTerm {
		errs.add("term", "Minimum term is 1 month")
	}
	if purpose != nil && strings.TrimSpace(*purpose) == "" {
		errs.add("purpose", "Purpose must not be blank")
	}
	return errs
}

// LoanReview validates a review request. The decision string itself is
// checked by the service against the operation being performed.
func LoanReview(status, comment string) Errors {
	errs := Errors{}
	if strings.TrimSpace(status) == "" {
		errs.add("status", "Status is required")
	}
	if strings.TrimSpace(comment) == "" {
		errs.add("reviewComment", "Review comment is required")
	}
	return errs
}
