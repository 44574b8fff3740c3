package auth

import "context"

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *RefreshToken) error
	Update(ctx context.Context, token *RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	// RevokeAllActiveByUserID revokes every non-revoked token of the
	// user in one statement. Used on login and rotation.
	RevokeAllActiveByUserID(ctx context.Context, userID string) error
}

type MagicLinkTokenRepository interface {
	Create(ctx context.Context, token *MagicLinkToken) error
	Update(ctx context.Context, token *MagicLinkToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*MagicLinkToken, error)
}
