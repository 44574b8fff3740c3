package models

import (
	"time"

	"github.com/ngoinfo/grantpilot/internal/shared/constants"
)

type UserPlanModel struct {
	ID                 string    `gorm:"primarykey;size:36"`
	UserID             string    `gorm:"uniqueIndex;not null;size:36"`
	Tier               string    `gorm:"not null;size:20;default:FREE"`
	ActivatedAt        time.Time `gorm:"not null"`
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (UserPlanModel) TableName() string {
	return constants.TableUserPlans
}
