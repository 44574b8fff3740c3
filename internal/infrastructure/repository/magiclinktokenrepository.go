package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ngoinfo/grantpilot/internal/domain/auth"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/persistence/models"
	"github.com/ngoinfo/grantpilot/internal/shared/db"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
)

type MagicLinkTokenRepository struct {
	db *gorm.DB
}

func NewMagicLinkTokenRepository(gdb *gorm.DB) auth.MagicLinkTokenRepository {
	return &MagicLinkTokenRepository{db: gdb}
}

func (r *MagicLinkTokenRepository) conn(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db)
}

func (r *MagicLinkTokenRepository) Create(ctx context.Context, token *auth.MagicLinkToken) error {
	if err := r.conn(ctx).Create(magicLinkTokenToModel(token)).Error; err != nil {
		return fmt.Errorf("failed to create magic link token: %w", err)
	}
	return nil
}

func (r *MagicLinkTokenRepository) Update(ctx context.Context, token *auth.MagicLinkToken) error {
	result := r.conn(ctx).Save(magicLinkTokenToModel(token))
	if result.Error != nil {
		return fmt.Errorf("failed to update magic link token: %w", result.Error)
	}
	return nil
}

func (r *MagicLinkTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*auth.MagicLinkToken, error) {
	var model models.MagicLinkTokenModel
	if err := r.conn(ctx).Where("token_hash = ?", tokenHash).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("magic link token not found")
		}
		return nil, fmt.Errorf("failed to get magic link token: %w", err)
	}
	return magicLinkTokenToEntity(&model), nil
}

func magicLinkTokenToModel(token *auth.MagicLinkToken) *models.MagicLinkTokenModel {
	return &models.MagicLinkTokenModel{
		ID:          token.ID(),
		Email:       token.Email(),
		TokenHash:   token.TokenHash(),
		RequestedIP: token.RequestedIP(),
		UserAgent:   token.UserAgent(),
		ExpiresAt:   token.ExpiresAt(),
		ConsumedAt:  token.ConsumedAt(),
		CreatedAt:   token.CreatedAt(),
	}
}

func magicLinkTokenToEntity(m *models.MagicLinkTokenModel) *auth.MagicLinkToken {
	return auth.ReconstructMagicLinkToken(
		m.ID,
		m.Email,
		m.TokenHash,
		m.RequestedIP,
		m.UserAgent,
		m.ExpiresAt,
		m.ConsumedAt,
		m.CreatedAt,
	)
}
