package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// CodeStatus represents whether an activation code may pass verification
type CodeStatus string

const (
	CodeStatusActive   CodeStatus = "active"
	CodeStatusInactive CodeStatus = "inactive"
)

// Valid reports whether the status is one of the known values
func (s CodeStatus) Valid() bool {
	return s == CodeStatusActive || s == CodeStatusInactive
}

// DefaultVerifyIntervalHours is used when an administrator omits the interval
const DefaultVerifyIntervalHours = 24

// ActivationCode is a credential bound to one product. The (Code, ProductKey)
// pair is unique and VerifyIntervalHours is always positive.
type ActivationCode struct {
	ID                  int64       `json:"id"`
	Code                string      `json:"code"`
	ProductKey          string      `json:"product_key"`
	VerifyIntervalHours int         `json:"verify_interval_hours"`
	Status              CodeStatus  `json:"status"`
	Notes               null.String `json:"notes"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// IsActive reports whether the code currently passes verification
func (c *ActivationCode) IsActive() bool {
	return c.Status == CodeStatusActive
}

// VerifyInterval returns the advisory re-verification interval
func (c *ActivationCode) VerifyInterval() time.Duration {
	return time.Duration(c.VerifyIntervalHours) * time.Hour
}

// NextVerifyAt is the time the client is asked to verify again
func (c *ActivationCode) NextVerifyAt(activatedAt time.Time) time.Time {
	return activatedAt.Add(c.VerifyInterval())
}

// ActivationCodeUpdate carries the administrator-editable fields. Nil fields
// are left untouched.
type ActivationCodeUpdate struct {
	VerifyIntervalHours *int
	Notes               *string
	Status              *CodeStatus
}

// IsEmpty reports whether the update changes nothing
func (u ActivationCodeUpdate) IsEmpty() bool {
	return u.VerifyIntervalHours == nil && u.Notes == nil && u.Status == nil
}

// Apply copies the set fields onto code
func (u ActivationCodeUpdate) Apply(code *ActivationCode) {
	if u.VerifyIntervalHours != nil {
		code.VerifyIntervalHours = *u.VerifyIntervalHours
	}
	if u.Notes != nil {
		code.Notes = null.StringFrom(*u.Notes)
	}
	if u.Status != nil {
		code.Status = *u.Status
	}
}

// CodeSearchCriteria filters activation codes. Code and ProductKey match as
// substrings, Status matches exactly. Empty fields are ignored.
type CodeSearchCriteria struct {
	Code       string
	ProductKey string
	Status     CodeStatus
}

// CodeStatistics summarises the code table for administrators
type CodeStatistics struct {
	TotalCodes    int64 `json:"total_codes"`
	ActiveCodes   int64 `json:"active_codes"`
	InactiveCodes int64 `json:"inactive_codes"`
	HourlyCodes   int64 `json:"hourly_codes"`
	DailyCodes    int64 `json:"daily_codes"`
	ExtendedCodes int64 `json:"extended_codes"`
}

// Interval buckets reported by CodeStatistics
const (
	HourlyIntervalHours   = 1
	DailyIntervalHours    = 24
	ExtendedIntervalHours = 72
)

// Tally adds one code to the statistics
func (s *CodeStatistics) Tally(code *ActivationCode) {
	s.TotalCodes++
	switch code.Status {
	case CodeStatusActive:
		s.ActiveCodes++
	case CodeStatusInactive:
		s.InactiveCodes++
	}
	switch code.VerifyIntervalHours {
	case HourlyIntervalHours:
		s.HourlyCodes++
	case DailyIntervalHours:
		s.DailyCodes++
	case ExtendedIntervalHours:
		s.ExtendedCodes++
	}
}
