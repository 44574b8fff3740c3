package billing

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ActionType identifies a metered action in the usage ledger.
type ActionType string

const (
	ActionFitScan        ActionType = "FIT_SCAN"
	ActionProposal       ActionType = "PROPOSAL"
	ActionProposalCreate ActionType = "PROPOSAL_CREATE"
	ActionProposalRegen  ActionType = "PROPOSAL_REGEN"
	ActionDocxExport     ActionType = "DOCX_EXPORT"
)

var (
	ErrInvalidAction         = errors.New("action type cannot be empty")
	ErrInvalidIdempotencyKey = errors.New("idempotency key cannot be empty")
)

// UsageEntry is one append-only ledger row. The (user, action, key)
// triple is unique so a retried request can never double-charge.
type UsageEntry struct {
	id             string
	userID         string
	action         ActionType
	occurredAt     time.Time
	periodStart    *time.Time
	periodEnd      *time.Time
	idempotencyKey string
	metadata       map[string]any
}

func NewUsageEntry(
	userID string,
	action ActionType,
	idempotencyKey string,
	periodStart *time.Time,
	periodEnd *time.Time,
) (*UsageEntry, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if action == "" {
		return nil, ErrInvalidAction
	}
	if idempotencyKey == "" {
		return nil, ErrInvalidIdempotencyKey
	}

	return &UsageEntry{
		id:             uuid.NewString(),
		userID:         userID,
		action:         action,
		occurredAt:     time.Now().UTC(),
		periodStart:    periodStart,
		periodEnd:      periodEnd,
		idempotencyKey: idempotencyKey,
		metadata:       map[string]any{},
	}, nil
}

func ReconstructUsageEntry(
	id string,
	userID string,
	action string,
	occurredAt time.Time,
	periodStart *time.Time,
	periodEnd *time.Time,
	idempotencyKey string,
	metadata map[string]any,
) (*UsageEntry, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	return &UsageEntry{
		id:             id,
		userID:         userID,
		action:         ActionType(action),
		occurredAt:     occurredAt,
		periodStart:    periodStart,
		periodEnd:      periodEnd,
		idempotencyKey: idempotencyKey,
		metadata:       metadata,
	}, nil
}

func (e *UsageEntry) ID() string              { return e.id }
func (e *UsageEntry) UserID() string          { return e.userID }
func (e *UsageEntry) Action() ActionType      { return e.action }
func (e *UsageEntry) OccurredAt() time.Time   { return e.occurredAt }
func (e *UsageEntry) PeriodStart() *time.Time { return e.periodStart }
func (e *UsageEntry) PeriodEnd() *time.Time   { return e.periodEnd }
func (e *UsageEntry) IdempotencyKey() string  { return e.idempotencyKey }
func (e *UsageEntry) Metadata() map[string]any {
	return e.metadata
}
