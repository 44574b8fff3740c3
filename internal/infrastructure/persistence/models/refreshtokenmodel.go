package models

import (
	"time"

	"github.com/ngoinfo/grantpilot/internal/shared/constants"
)

type RefreshTokenModel struct {
	ID                string `gorm:"primarykey;size:36"`
	UserID            string `gorm:"not null;size:36;index"`
	TokenHash         string `gorm:"uniqueIndex;not null;size:64"`
	ExpiresAt         time.Time
	RevokedAt         *time.Time
	ReplacedByTokenID string `gorm:"size:36"`
	CreatedAt         time.Time
}

func (RefreshTokenModel) TableName() string {
	return constants.TableRefreshTokens
}
