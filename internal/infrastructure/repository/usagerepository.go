package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ngoinfo/grantpilot/internal/domain/billing"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/persistence/models"
	"github.com/ngoinfo/grantpilot/internal/shared/db"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
)

type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(gdb *gorm.DB) billing.UsageRepository {
	return &UsageRepository{db: gdb}
}

func (r *UsageRepository) conn(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db)
}

func (r *UsageRepository) Create(ctx context.Context, entry *billing.UsageEntry) error {
	model, err := usageToModel(entry)
	if err != nil {
		return err
	}
	if err := r.conn(ctx).Create(model).Error; err != nil {
		// Surfaced as-is so callers can detect the idempotency key
		// collision and re-read the existing row.
		return fmt.Errorf("failed to create usage entry: %w", err)
	}
	return nil
}

func (r *UsageRepository) FindByIdempotencyKey(ctx context.Context, userID string, action billing.ActionType, key string) (*billing.UsageEntry, error) {
	var model models.UsageLedgerModel
	err := r.conn(ctx).
		Where("user_id = ? AND action_type = ? AND idempotency_key = ?", userID, string(action), key).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("usage entry not found")
		}
		return nil, fmt.Errorf("failed to find usage entry: %w", err)
	}
	return usageToEntity(&model)
}

func (r *UsageRepository) CountInPeriod(ctx context.Context, userID string, action billing.ActionType, start, end *time.Time) (int, error) {
	query := r.conn(ctx).Model(&models.UsageLedgerModel{}).
		Where("user_id = ? AND action_type = ?", userID, string(action))

	if start != nil {
		query = query.Where("occurred_at >= ?", *start)
	}
	if end != nil {
		query = query.Where("occurred_at < ?", *end)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count usage entries: %w", err)
	}
	return int(count), nil
}

func usageToModel(entry *billing.UsageEntry) (*models.UsageLedgerModel, error) {
	metadata, err := toJSON(entry.Metadata())
	if err != nil {
		return nil, err
	}

	return &models.UsageLedgerModel{
		ID:             entry.ID(),
		UserID:         entry.UserID(),
		ActionType:     string(entry.Action()),
		IdempotencyKey: entry.IdempotencyKey(),
		OccurredAt:     entry.OccurredAt(),
		PeriodStart:    entry.PeriodStart(),
		PeriodEnd:      entry.PeriodEnd(),
		Metadata:       metadata,
	}, nil
}

func usageToEntity(m *models.UsageLedgerModel) (*billing.UsageEntry, error) {
	metadata, err := fromJSON[map[string]any](m.Metadata)
	if err != nil {
		return nil, err
	}

	return billing.ReconstructUsageEntry(
		m.ID,
		m.UserID,
		m.ActionType,
		m.OccurredAt,
		m.PeriodStart,
		m.PeriodEnd,
		m.IdempotencyKey,
		metadata,
	)
}
