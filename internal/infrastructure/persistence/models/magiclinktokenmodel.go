package models

import (
	"time"

	"github.com/ngoinfo/grantpilot/internal/shared/constants"
)

type MagicLinkTokenModel struct {
	ID          string `gorm:"primarykey;size:36"`
	Email       string `gorm:"not null;size:320;index"`
	TokenHash   string `gorm:"uniqueIndex;not null;size:64"`
	RequestedIP string `gorm:"size:45"`
	UserAgent   string `gorm:"size:500"`
	ExpiresAt   time.Time
	ConsumedAt  *time.Time
	CreatedAt   time.Time
}

func (MagicLinkTokenModel) TableName() string {
	return constants.TableMagicLinkTokens
}
