package usecases

import (
	"github.com/volatiletech/null/v8"

	"activation-service.backend/internal/domain/entities"
)

// Messages returned in verification outcomes
const (
	MsgVerified       = "verification succeeded"
	MsgCodeNotMatched = "code not found or product mismatch"
)

// Input bounds applied to verification requests
const (
	DefaultMaxCodeLength     = 50
	DefaultMaxDeviceIDLength = 200
)

// DefaultLogRetentionDays is how long verification logs are kept by CleanOldLogs
const DefaultLogRetentionDays = 30

// DemoCodes are the codes installed on a fresh store when seeding is enabled
var DemoCodes = []entities.ActivationCode{
	{Code: "DEMO_001", ProductKey: "doubao_plugin", VerifyIntervalHours: 24},
	{Code: "DEMO_002", ProductKey: "doubao_plugin", VerifyIntervalHours: 24},
	{Code: "PREMIUM_001", ProductKey: "doubao_plugin", VerifyIntervalHours: 72},
	{Code: "TEST_001", ProductKey: "test_product", VerifyIntervalHours: 1},
	{Code: "BATCH_001", ProductKey: "doubao_plugin", VerifyIntervalHours: 168, Notes: null.StringFrom("weekly premium")},
}
