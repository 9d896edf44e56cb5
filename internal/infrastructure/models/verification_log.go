package models

import (
	"database/sql"
	"time"
)

type VerificationLog struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	Code      string         `gorm:"type:varchar(50);not null;index"`
	DeviceID  sql.NullString `gorm:"type:varchar(200)"`
	Result    string         `gorm:"type:varchar(10);not null"`
	Timestamp time.Time      `gorm:"not null;index"`
	IPAddress sql.NullString `gorm:"type:varchar(64)"`
}

func (VerificationLog) TableName() string {
	return "verification_logs"
}
