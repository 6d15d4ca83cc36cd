package common

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"accounthub/internal/domain"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks the address shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return domain.NewValidationError("email", "invalid email address")
	}
	return nil
}

// ValidatePassword enforces the minimum length policy.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return domain.NewValidationError("password", "password must be at least 6 characters")
	}
	return nil
}

// ValidateUUID parses a path or header identifier.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, domain.NewValidationError(fieldName, "is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(fieldName, "must be a valid UUID")
	}
	return id, nil
}

// ValidateRequiredString rejects empty or whitespace-only values.
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError(fieldName, "is required")
	}
	return nil
}
