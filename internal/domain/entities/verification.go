package entities

import "time"

// VerifyInput is one verification request. DeviceID and IPAddress are
// optional and only recorded in the verification log.
type VerifyInput struct {
	Code       string `json:"code"`
	ProductKey string `json:"product_key"`
	DeviceID   string `json:"device_id,omitempty"`
	IPAddress  string `json:"-"`
}

// VerificationData is returned for an active code.
//
// NextVerifyAt is advisory: the server never refuses a verification because
// the client came back early or late.
type VerificationData struct {
	Status              CodeStatus `json:"status"`
	NextVerifyAt        time.Time  `json:"next_verify_at"`
	VerifyIntervalHours int        `json:"verify_interval_hours"`
	ActivatedAt         time.Time  `json:"activated_at"`
}

// VerifyOutcome is the business result of a verification. A failed outcome
// is a normal answer, not an error.
type VerifyOutcome struct {
	Success bool
	Data    *VerificationData
	Message string
}

// StatsSnapshot is the public service statistics payload
type StatsSnapshot struct {
	ActiveCodes        int64 `json:"active_codes"`
	TodayVerifications int64 `json:"today_verifications"`
	TodaySuccess       int64 `json:"today_success"`
	TodayFailed        int64 `json:"today_failed"`
	TotalLogs          int64 `json:"total_logs"`
}
