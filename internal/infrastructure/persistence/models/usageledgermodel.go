package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/ngoinfo/grantpilot/internal/shared/constants"
)

// UsageLedgerModel is append-only. The composite unique index makes
// duplicate charges for the same idempotency key impossible at the
// storage layer, whatever races above it.
type UsageLedgerModel struct {
	ID             string    `gorm:"primarykey;size:36"`
	UserID         string    `gorm:"not null;size:36;uniqueIndex:uq_usage_idempotency,priority:1;index:idx_usage_user_action,priority:1"`
	ActionType     string    `gorm:"not null;size:30;uniqueIndex:uq_usage_idempotency,priority:2;index:idx_usage_user_action,priority:2"`
	IdempotencyKey string    `gorm:"not null;size:64;uniqueIndex:uq_usage_idempotency,priority:3"`
	OccurredAt     time.Time `gorm:"not null;index:idx_usage_user_action,priority:3"`
	PeriodStart    *time.Time
	PeriodEnd      *time.Time
	Metadata       datatypes.JSON
	CreatedAt      time.Time
}

func (UsageLedgerModel) TableName() string {
	return constants.TableUsageLedger
}
