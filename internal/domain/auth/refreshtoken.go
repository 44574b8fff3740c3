package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ngoinfo/grantpilot/internal/shared/biztime"
)

var (
	ErrTokenRevoked = fmt.Errorf("refresh token revoked")
	ErrTokenExpired = fmt.Errorf("refresh token expired")
)

// RefreshToken is the server-side record of an opaque refresh token.
// Only the HMAC hash of the token is stored; the raw value exists
// solely in the response that issued it.
type RefreshToken struct {
	id                string
	userID            string
	tokenHash         string
	expiresAt         time.Time
	revokedAt         *time.Time
	replacedByTokenID string
	createdAt         time.Time
}

func NewRefreshToken(userID, tokenHash string, expiresAt time.Time) (*RefreshToken, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if tokenHash == "" {
		return nil, fmt.Errorf("token hash is required")
	}
	return &RefreshToken{
		id:        uuid.NewString(),
		userID:    userID,
		tokenHash: tokenHash,
		expiresAt: expiresAt,
		createdAt: biztime.NowUTC(),
	}, nil
}

func ReconstructRefreshToken(
	id string,
	userID string,
	tokenHash string,
	expiresAt time.Time,
	revokedAt *time.Time,
	replacedByTokenID string,
	createdAt time.Time,
) *RefreshToken {
	return &RefreshToken{
		id:                id,
		userID:            userID,
		tokenHash:         tokenHash,
		expiresAt:         expiresAt,
		revokedAt:         revokedAt,
		replacedByTokenID: replacedByTokenID,
		createdAt:         createdAt,
	}
}

// Validate checks the token is still usable at the given instant.
// Revocation is reported before expiry so a rotated token is never
// mistaken for a merely stale one.
func (t *RefreshToken) Validate(now time.Time) error {
	if t.revokedAt != nil {
		return ErrTokenRevoked
	}
	if !t.expiresAt.After(now) {
		return ErrTokenExpired
	}
	return nil
}

func (t *RefreshToken) Revoke(now time.Time) {
	if t.revokedAt == nil {
		revokedAt := now
		t.revokedAt = &revokedAt
	}
}

// MarkReplaced records the successor token issued during rotation.
func (t *RefreshToken) MarkReplaced(successorID string, now time.Time) {
	t.Revoke(now)
	t.replacedByTokenID = successorID
}

func (t *RefreshToken) ID() string                { return t.id }
func (t *RefreshToken) UserID() string            { return t.userID }
func (t *RefreshToken) TokenHash() string         { return t.tokenHash }
func (t *RefreshToken) ExpiresAt() time.Time      { return t.expiresAt }
func (t *RefreshToken) RevokedAt() *time.Time     { return t.revokedAt }
func (t *RefreshToken) ReplacedByTokenID() string { return t.replacedByTokenID }
func (t *RefreshToken) CreatedAt() time.Time      { return t.createdAt }
