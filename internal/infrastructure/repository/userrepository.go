package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ngoinfo/grantpilot/internal/domain/user"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/persistence/models"
	"github.com/ngoinfo/grantpilot/internal/shared/db"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(gdb *gorm.DB) user.Repository {
	return &UserRepository{db: gdb}
}

func (r *UserRepository) conn(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db)
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if err := r.conn(ctx).Create(userToModel(u)).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	result := r.conn(ctx).Save(userToModel(u))
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var model models.UserModel
	if err := r.conn(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return userToEntity(&model)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel
	if err := r.conn(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return userToEntity(&model)
}

func (r *UserRepository) GetByGoogleSub(ctx context.Context, sub string) (*user.User, error) {
	var model models.UserModel
	if err := r.conn(ctx).Where("google_sub = ?", sub).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to get user by google sub: %w", err)
	}
	return userToEntity(&model)
}

func userToModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:           u.ID(),
		Email:        u.Email(),
		FullName:     u.FullName(),
		AvatarURL:    u.AvatarURL(),
		GoogleSub:    u.GoogleSub(),
		AuthProvider: string(u.AuthProvider()),
		LastLoginAt:  u.LastLoginAt(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}

func userToEntity(m *models.UserModel) (*user.User, error) {
	return user.ReconstructUser(
		m.ID,
		m.Email,
		m.FullName,
		m.AvatarURL,
		m.GoogleSub,
		m.AuthProvider,
		m.CreatedAt,
		m.UpdatedAt,
		m.LastLoginAt,
	)
}
