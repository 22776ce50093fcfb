package services

import (
	"errors"
	"strconv"

	"loandesk/internal/core/domain"
)

// asDomain passes domain errors through and wraps anything else as internal.
func asDomain(err error) error {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return derr
	}
	return domain.NewInternal(err)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
