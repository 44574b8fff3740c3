package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ngoinfo/grantpilot/internal/shared/biztime"
)

var (
	ErrMagicLinkUsed    = fmt.Errorf("magic link already used")
	ErrMagicLinkExpired = fmt.Errorf("magic link token expired")
)

// MagicLinkToken is a single-use login token emailed to the user.
// The record stores only the HMAC hash of the token.
type MagicLinkToken struct {
	id          string
	email       string
	tokenHash   string
	requestedIP string
	userAgent   string
	expiresAt   time.Time
	consumedAt  *time.Time
	createdAt   time.Time
}

func NewMagicLinkToken(email, tokenHash, requestedIP, userAgent string, expiresAt time.Time) (*MagicLinkToken, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if tokenHash == "" {
		return nil, fmt.Errorf("token hash is required")
	}
	return &MagicLinkToken{
		id:          uuid.NewString(),
		email:       email,
		tokenHash:   tokenHash,
		requestedIP: requestedIP,
		userAgent:   userAgent,
		expiresAt:   expiresAt,
		createdAt:   biztime.NowUTC(),
	}, nil
}

func ReconstructMagicLinkToken(
	id string,
	email string,
	tokenHash string,
	requestedIP string,
	userAgent string,
	expiresAt time.Time,
	consumedAt *time.Time,
	createdAt time.Time,
) *MagicLinkToken {
	return &MagicLinkToken{
		id:          id,
		email:       email,
		tokenHash:   tokenHash,
		requestedIP: requestedIP,
		userAgent:   userAgent,
		expiresAt:   expiresAt,
		consumedAt:  consumedAt,
		createdAt:   createdAt,
	}
}

// Consume marks the token used. A consumed token fails before an
// expired one so replays of a used link report the right condition.
func (t *MagicLinkToken) Consume(now time.Time) error {
	if t.consumedAt != nil {
		return ErrMagicLinkUsed
	}
	if !t.expiresAt.After(now) {
		return ErrMagicLinkExpired
	}
	consumedAt := now
	t.consumedAt = &consumedAt
	return nil
}

func (t *MagicLinkToken) ID() string             { return t.id }
func (t *MagicLinkToken) Email() string          { return t.email }
func (t *MagicLinkToken) TokenHash() string      { return t.tokenHash }
func (t *MagicLinkToken) RequestedIP() string    { return t.requestedIP }
func (t *MagicLinkToken) UserAgent() string      { return t.userAgent }
func (t *MagicLinkToken) ExpiresAt() time.Time   { return t.expiresAt }
func (t *MagicLinkToken) ConsumedAt() *time.Time { return t.consumedAt }
func (t *MagicLinkToken) CreatedAt() time.Time   { return t.createdAt }
