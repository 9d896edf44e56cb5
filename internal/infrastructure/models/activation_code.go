package models

import (
	"database/sql"
	"time"
)

type ActivationCode struct {
	ID                  int64          `gorm:"primaryKey;autoIncrement"`
	Code                string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_activation_code_product"`
	ProductKey          string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_activation_code_product"`
	VerifyIntervalHours int            `gorm:"not null;default:24"`
	Status              string         `gorm:"type:varchar(20);not null;default:'active';index"`
	Notes               sql.NullString `gorm:"type:text"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (ActivationCode) TableName() string {
	return "activation_codes"
}
