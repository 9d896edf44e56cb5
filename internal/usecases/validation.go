package usecases

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"activation-service.backend/internal/domain/entities"
	domainerrors "activation-service.backend/internal/domain/errors"
)

// forbiddenPattern matches SQL and script keywords as whole words
var forbiddenPattern = regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|EXEC|UNION|SCRIPT)\b`)

// InputLimits bounds verification input lengths, counted in characters
type InputLimits struct {
	MaxCodeLength     int
	MaxDeviceIDLength int
}

// DefaultInputLimits returns the stock bounds
func DefaultInputLimits() InputLimits {
	return InputLimits{
		MaxCodeLength:     DefaultMaxCodeLength,
		MaxDeviceIDLength: DefaultMaxDeviceIDLength,
	}
}

func (l InputLimits) withDefaults() InputLimits {
	if l.MaxCodeLength <= 0 {
		l.MaxCodeLength = DefaultMaxCodeLength
	}
	if l.MaxDeviceIDLength <= 0 {
		l.MaxDeviceIDLength = DefaultMaxDeviceIDLength
	}
	return l
}

// ValidateVerifyInput checks a verification request before any storage access.
// It returns a validation AppError describing the first violation.
func ValidateVerifyInput(input *entities.VerifyInput, limits InputLimits) error {
	limits = limits.withDefaults()

	if input == nil || input.Code == "" || input.ProductKey == "" {
		return domainerrors.Validation("code and product_key are required")
	}
	if utf8.RuneCountInString(input.Code) > limits.MaxCodeLength ||
		utf8.RuneCountInString(input.ProductKey) > limits.MaxCodeLength {
		return domainerrors.Validation(fmt.Sprintf("code and product_key must not exceed %d characters", limits.MaxCodeLength))
	}
	if forbiddenPattern.MatchString(input.Code) || forbiddenPattern.MatchString(input.ProductKey) {
		return domainerrors.Validation("input contains forbidden content")
	}
	if utf8.RuneCountInString(input.DeviceID) > limits.MaxDeviceIDLength {
		return domainerrors.Validation(fmt.Sprintf("device_id must not exceed %d characters", limits.MaxDeviceIDLength))
	}
	return nil
}
