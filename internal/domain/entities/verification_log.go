package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// VerificationResult is the outcome recorded for one verification attempt
type VerificationResult string

const (
	VerificationResultSuccess VerificationResult = "success"
	VerificationResultFailed  VerificationResult = "failed"
)

// Valid reports whether the result is one of the known values
func (r VerificationResult) Valid() bool {
	return r == VerificationResultSuccess || r == VerificationResultFailed
}

// VerificationLog is an append-only audit row. Code is a logical reference
// only; the row outlives the activation code it names.
type VerificationLog struct {
	ID        int64              `json:"id"`
	Code      string             `json:"code"`
	DeviceID  null.String        `json:"device_id"`
	Result    VerificationResult `json:"result"`
	Timestamp time.Time          `json:"timestamp"`
	IPAddress null.String        `json:"ip_address"`
}

// DefaultLogQueryLimit applies when a LogFilter has no positive limit
const DefaultLogQueryLimit = 50

// LogFilter narrows a verification log query. Code matches as a substring.
type LogFilter struct {
	Code      string
	Result    VerificationResult
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
}

// EffectiveLimit returns the row cap to apply
func (f LogFilter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return DefaultLogQueryLimit
	}
	return f.Limit
}

// LogCounts splits a number of log rows by result
type LogCounts struct {
	Total   int64
	Success int64
	Failed  int64
}
