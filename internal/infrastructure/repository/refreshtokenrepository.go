package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ngoinfo/grantpilot/internal/domain/auth"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/persistence/models"
	"github.com/ngoinfo/grantpilot/internal/shared/biztime"
	"github.com/ngoinfo/grantpilot/internal/shared/db"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
)

type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(gdb *gorm.DB) auth.RefreshTokenRepository {
	return &RefreshTokenRepository{db: gdb}
}

func (r *RefreshTokenRepository) conn(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db)
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *auth.RefreshToken) error {
	if err := r.conn(ctx).Create(refreshTokenToModel(token)).Error; err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) Update(ctx context.Context, token *auth.RefreshToken) error {
	result := r.conn(ctx).Save(refreshTokenToModel(token))
	if result.Error != nil {
		return fmt.Errorf("failed to update refresh token: %w", result.Error)
	}
	return nil
}

func (r *RefreshTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	var model models.RefreshTokenModel
	if err := r.conn(ctx).Where("token_hash = ?", tokenHash).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("refresh token not found")
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return refreshTokenToEntity(&model), nil
}

func (r *RefreshTokenRepository) RevokeAllActiveByUserID(ctx context.Context, userID string) error {
	err := r.conn(ctx).Model(&models.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", biztime.NowUTC()).Error
	if err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}

func refreshTokenToModel(token *auth.RefreshToken) *models.RefreshTokenModel {
	return &models.RefreshTokenModel{
		ID:                token.ID(),
		UserID:            token.UserID(),
		TokenHash:         token.TokenHash(),
		ExpiresAt:         token.ExpiresAt(),
		RevokedAt:         token.RevokedAt(),
		ReplacedByTokenID: token.ReplacedByTokenID(),
		CreatedAt:         token.CreatedAt(),
	}
}

func refreshTokenToEntity(m *models.RefreshTokenModel) *auth.RefreshToken {
	return auth.ReconstructRefreshToken(
		m.ID,
		m.UserID,
		m.TokenHash,
		m.ExpiresAt,
		m.RevokedAt,
		m.ReplacedByTokenID,
		m.CreatedAt,
	)
}
