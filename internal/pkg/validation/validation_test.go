package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistration(t *testing.T) {
	errs := Registration("Alice", "alice@example.com", "secret-pass-123", "0812345678")
	assert.True(t, errs.OK())

	errs = Registration("", "", "", "")
	assert.Equal(t, "Name is required", errs["name"])
	assert.Equal(t, "Email is required", errs["email"])
	assert.Equal(t, "Password is required", errs["password"])
	assert.Equal(t, "Phone is required", errs["phone"])

	errs = Registration("Alice", "not-an-email", "short", "0812345678")
	assert.Equal(t, "Email must be a valid email address", errs["email"])
	assert.Equal(t, "Password must be at least 8 characters", errs["password"])
}

func TestLoanApplication(t *testing.T) {
	amount := 500.0
	term := 12
	purpose := "Car repair"
	assert.True(t, LoanApplication(&amount, &term, &purpose).OK())

	errs := LoanApplication(nil, nil, nil)
	assert.Equal(t, "Amount is required", errs["amount"])
	assert.Equal(t, "Term is required", errs["term"])
	assert.Equal(t, "Purpose is required", errs["purpose"])

	lowAmount := 99.99
	zeroTerm := 0
	blank := "   "
	errs = LoanApplication(&lowAmount, &zeroTerm, &blank)
	assert.Equal(t, "Minimum loan amount is 100.00", errs["amount"])
	assert.Equal(t, "Minimum term is 1 month", errs["term"])
	assert.Equal(t, "Purpose is required", errs["purpose"])

	boundary := 100.0
	oneMonth := 1
	errs = LoanApplication(&boundary, &oneMonth, &purpose)
	assert.True(t, errs.OK())
}

func TestLoanUpdateSkipsNilFields(t *testing.T) {
	assert.True(t, LoanUpdate(nil, nil, nil).OK())

	lowAmount := 10.0
	errs := LoanUpdate(&lowAmount, nil, nil)
	assert.Equal(t, "Minimum loan amount is 100.00", errs["amount"])
	assert.NotContains(t, errs, "term")
	assert.NotContains(t, errs, "purpose")

	blank := ""
	errs = LoanUpdate(nil, nil, &blank)
	assert.Equal(t, "Purpose must not be blank", errs["purpose"])
}

func TestLoanReview(t *testing.T) {
	assert.True(t, LoanReview("ACCEPTED", "Income verified").OK())

	errs := LoanReview("", " ")
	assert.Equal(t, "Status is required", errs["status"])
	assert.Equal(t, "Review comment is required", errs["reviewComment"])
}

func TestChangePassword(t *testing.T) {
	assert.True(t, ChangePassword("old-pass-123", "new-pass-456").OK())

	errs := ChangePassword("", "short")
	assert.Equal(t, "Current password is required", errs["currentPassword"])
	assert.Equal(t, "Password must be at least 8 characters", errs["newPassword"])
}
