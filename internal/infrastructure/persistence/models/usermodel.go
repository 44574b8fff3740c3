// Package models holds the database persistence models. They are the
// anti-corruption layer between the domain entities and the schema.
package models

import (
	"time"

	"github.com/ngoinfo/grantpilot/internal/shared/constants"
)

type UserModel struct {
	ID           string `gorm:"primarykey;size:36"`
	Email        string `gorm:"uniqueIndex;not null;size:320"`
	FullName     string `gorm:"size:255"`
	AvatarURL    string `gorm:"size:2048"`
	GoogleSub    string `gorm:"index;size:255"`
	AuthProvider string `gorm:"not null;size:20;default:email"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
