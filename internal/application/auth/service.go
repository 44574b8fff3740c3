// Package auth implements passwordless sign-in: emailed magic links,
// Google OAuth with PKCE, and opaque refresh token rotation.
package auth

import (
	"context"
	"fmt"
	"time"

	appbilling "github.com/ngoinfo/grantpilot/internal/application/billing"
	domainauth "github.com/ngoinfo/grantpilot/internal/domain/auth"
	"github.com/ngoinfo/grantpilot/internal/domain/user"
	infraauth "github.com/ngoinfo/grantpilot/internal/infrastructure/auth"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/cache"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/email"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/ratelimit"
	"github.com/ngoinfo/grantpilot/internal/shared/authorization"
	"github.com/ngoinfo/grantpilot/internal/shared/biztime"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
)

// Per-key sliding window limits on the auth endpoints.
const (
	magicRequestEmailLimit = 5
	magicRequestIPLimit    = 20
	magicConsumeIPLimit    = 30
	googleStartIPLimit     = 60
	refreshLimit           = 120
	authRateWindow         = time.Hour
)

type googleOAuthClient interface {
	GetAuthURL(state string) (authURL string, codeVerifier string, err error)
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (string, error)
	GetUserInfo(ctx context.Context, accessToken string) (*infraauth.OAuthUserInfo, error)
}

type oauthStateStore interface {
	Set(ctx context.Context, state string, codeVerifier string) error
	VerifyAndGet(ctx context.Context, state string) (*cache.StateInfo, error)
}

type Config struct {
	MagicLinkTTLMinutes int
	RefreshTokenTTLDays int
	// AdminEmails get the admin role claim on login.
	AdminEmails []string
}

type Service struct {
	users         user.Repository
	refreshTokens domainauth.RefreshTokenRepository
	magicTokens   domainauth.MagicLinkTokenRepository
	quota         *appbilling.QuotaService
	jwt           *infraauth.JWTService
	hasher        *infraauth.TokenHasher
	mailer        email.MagicLinkSender
	limiter       ratelimit.RateLimiter
	oauth         googleOAuthClient
	states        oauthStateStore
	logger        logger.Interface

	magicLinkTTL time.Duration
	refreshTTL   time.Duration
	adminEmails  map[string]struct{}
}

func NewService(
	users user.Repository,
	refreshTokens domainauth.RefreshTokenRepository,
	magicTokens domainauth.MagicLinkTokenRepository,
	quota *appbilling.QuotaService,
	jwtService *infraauth.JWTService,
	hasher *infraauth.TokenHasher,
	mailer email.MagicLinkSender,
	limiter ratelimit.RateLimiter,
	oauth googleOAuthClient,
	states oauthStateStore,
	cfg Config,
	log logger.Interface,
) *Service {
	adminEmails := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		adminEmails[user.NormalizeEmail(e)] = struct{}{}
	}

	return &Service{
		users:         users,
		refreshTokens: refreshTokens,
		magicTokens:   magicTokens,
		quota:         quota,
		jwt:           jwtService,
		hasher:        hasher,
		mailer:        mailer,
		limiter:       limiter,
		oauth:         oauth,
		states:        states,
		logger:        log,
		magicLinkTTL:  time.Duration(cfg.MagicLinkTTLMinutes) * time.Minute,
		refreshTTL:    time.Duration(cfg.RefreshTokenTTLDays) * 24 * time.Hour,
		adminEmails:   adminEmails,
	}
}

// RequestMagicLink emails a single-use login token. The response is
// the same whether or not the address belongs to an existing account.
func (s *Service) RequestMagicLink(ctx context.Context, req *MagicLinkRequest, clientIP, userAgent string) error {
	emailAddr := user.NormalizeEmail(req.Email)

	if err := s.enforceLimit(ctx, "magic_email:"+emailAddr, magicRequestEmailLimit); err != nil {
		return err
	}
	if err := s.enforceLimit(ctx, "magic_ip:"+clientIP, magicRequestIPLimit); err != nil {
		return err
	}

	rawToken, err := infraauth.GenerateOpaqueToken()
	if err != nil {
		return errors.NewInternalError("Failed to issue magic link").WithCause(err)
	}

	expiresAt := biztime.NowUTC().Add(s.magicLinkTTL)
	token, err := domainauth.NewMagicLinkToken(emailAddr, s.hasher.Hash(rawToken), clientIP, userAgent, expiresAt)
	if err != nil {
		return errors.NewInternalError("Failed to issue magic link").WithCause(err)
	}
	if err := s.magicTokens.Create(ctx, token); err != nil {
		return err
	}

	ttlMinutes := int(s.magicLinkTTL / time.Minute)
	if err := s.mailer.SendMagicLinkEmail(emailAddr, rawToken, ttlMinutes); err != nil {
		s.logger.Errorw("magic link email delivery failed", "error", err)
		return errors.NewInternalError("Email provider error").WithCause(err)
	}

	s.logger.Infow("magic link requested")
	return nil
}

// ConsumeMagicLink exchanges a valid token for a session, creating the
// account on first login.
func (s *Service) ConsumeMagicLink(ctx context.Context, req *MagicLinkConsumeRequest, clientIP string) (*SessionDTO, error) {
	if err := s.enforceLimit(ctx, "magic_consume_ip:"+clientIP, magicConsumeIPLimit); err != nil {
		return nil, err
	}

	token, err := s.magicTokens.GetByTokenHash(ctx, s.hasher.Hash(req.Token))
	if err != nil {
		if errors.IsNotFoundError(err) {
			s.logFailure("magic_link_token_invalid")
			return nil, errors.NewBadRequestError("Invalid magic link token")
		}
		return nil, err
	}

	if err := token.Consume(biztime.NowUTC()); err != nil {
		switch err {
		case domainauth.ErrMagicLinkUsed:
			s.logFailure("magic_link_token_used")
			return nil, errors.NewConflictError("Magic link already used")
		case domainauth.ErrMagicLinkExpired:
			s.logFailure("magic_link_token_expired")
			return nil, errors.NewBadRequestError("Magic link token expired")
		default:
			return nil, err
		}
	}
	if err := s.magicTokens.Update(ctx, token); err != nil {
		return nil, err
	}

	u, err := s.upsertUser(ctx, token.Email(), user.AuthProviderEmail, nil)
	if err != nil {
		return nil, err
	}

	session, err := s.issueSession(ctx, u, true)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("auth success", "provider", "magic_link", "user_id", u.ID())
	return session, nil
}

// GoogleStart returns the provider authorization URL for a fresh
// one-time state value.
func (s *Service) GoogleStart(ctx context.Context, clientIP string) (string, error) {
	if err := s.enforceLimit(ctx, "google_start_ip:"+clientIP, googleStartIPLimit); err != nil {
		return "", err
	}

	state, err := infraauth.GenerateOpaqueToken()
	if err != nil {
		return "", errors.NewInternalError("OAuth internal error").WithCause(err)
	}

	authURL, codeVerifier, err := s.oauth.GetAuthURL(state)
	if err != nil {
		return "", errors.NewInternalError("OAuth internal error").WithCause(err)
	}
	if err := s.states.Set(ctx, state, codeVerifier); err != nil {
		return "", errors.NewInternalError("OAuth internal error").WithCause(err)
	}

	return authURL, nil
}

// GoogleCallback finishes the code flow and signs the user in.
func (s *Service) GoogleCallback(ctx context.Context, state, code string) (*SessionDTO, error) {
	stateInfo, err := s.states.VerifyAndGet(ctx, state)
	if err != nil {
		s.logFailure("oauth_state_invalid")
		return nil, errors.NewUnauthorizedError("Invalid OAuth state").WithCause(err)
	}

	accessToken, err := s.oauth.ExchangeCode(ctx, code, stateInfo.CodeVerifier)
	if err != nil {
		s.logFailure("oauth_exchange_failed")
		return nil, errors.NewUnauthorizedError("OAuth exchange failed").WithCause(err)
	}

	info, err := s.oauth.GetUserInfo(ctx, accessToken)
	if err != nil {
		s.logFailure("oauth_exchange_failed")
		return nil, errors.NewUnauthorizedError("OAuth exchange failed").WithCause(err)
	}
	if user.NormalizeEmail(info.Email) == "" {
		s.logFailure("oauth_exchange_failed")
		return nil, errors.NewUnauthorizedError("OAuth exchange failed")
	}

	u, err := s.upsertUser(ctx, info.Email, user.AuthProviderGoogle, info)
	if err != nil {
		return nil, err
	}

	session, err := s.issueSession(ctx, u, true)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("auth success", "provider", "google", "user_id", u.ID())
	return session, nil
}

// Refresh rotates the refresh token: the presented token is revoked
// and linked to its successor, and a new access token is signed.
func (s *Service) Refresh(ctx context.Context, req *RefreshRequest, clientIP string) (*SessionDTO, error) {
	token, err := s.refreshTokens.GetByTokenHash(ctx, s.hasher.Hash(req.RefreshToken))
	if err != nil && !errors.IsNotFoundError(err) {
		return nil, err
	}

	// Rate limit per user when the token resolves, per IP otherwise,
	// so an attacker probing random tokens cannot starve a real user.
	limitKey := "refresh_ip:" + clientIP
	if token != nil {
		limitKey = "refresh_user:" + token.UserID()
	}
	if err := s.enforceLimit(ctx, limitKey, refreshLimit); err != nil {
		return nil, err
	}

	if token == nil {
		s.logFailure("refresh_token_invalid")
		return nil, errors.NewUnauthorizedError("Invalid refresh token")
	}

	now := biztime.NowUTC()
	if err := token.Validate(now); err != nil {
		switch err {
		case domainauth.ErrTokenRevoked:
			s.logFailure("refresh_token_revoked")
			return nil, errors.NewUnauthorizedError("Refresh token revoked")
		case domainauth.ErrTokenExpired:
			s.logFailure("refresh_token_expired")
			return nil, errors.NewUnauthorizedError("Refresh token expired")
		default:
			return nil, err
		}
	}

	u, err := s.users.GetByID(ctx, token.UserID())
	if err != nil {
		return nil, err
	}

	rawToken, successor, err := s.rotateRefreshToken(ctx, u.ID())
	if err != nil {
		return nil, err
	}

	token.MarkReplaced(successor.ID(), now)
	if err := s.refreshTokens.Update(ctx, token); err != nil {
		return nil, err
	}

	accessToken, expiresIn, err := s.signAccessToken(ctx, u)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("auth refreshed", "user_id", u.ID())
	return &SessionDTO{
		AccessToken:  accessToken,
		RefreshToken: rawToken,
		TokenType:    "Bearer",
		ExpiresIn:    expiresIn,
	}, nil
}

// Logout revokes the presented refresh token.
func (s *Service) Logout(ctx context.Context, req *LogoutRequest) error {
	token, err := s.refreshTokens.GetByTokenHash(ctx, s.hasher.Hash(req.RefreshToken))
	if err != nil {
		if errors.IsNotFoundError(err) {
			s.logFailure("logout_token_invalid")
			return errors.NewUnauthorizedError("Invalid refresh token")
		}
		return err
	}

	now := biztime.NowUTC()
	if token.Validate(now) != nil {
		s.logFailure("logout_token_invalid")
		return errors.NewUnauthorizedError("Invalid refresh token")
	}

	token.Revoke(now)
	if err := s.refreshTokens.Update(ctx, token); err != nil {
		return err
	}

	s.logger.Infow("auth logout", "user_id", token.UserID())
	return nil
}

func (s *Service) upsertUser(ctx context.Context, emailAddr string, provider user.AuthProvider, info *infraauth.OAuthUserInfo) (*user.User, error) {
	now := biztime.NowUTC()

	u, err := s.users.GetByEmail(ctx, user.NormalizeEmail(emailAddr))
	if err != nil {
		if !errors.IsNotFoundError(err) {
			return nil, err
		}
		u, err = user.NewUser(emailAddr, provider)
		if err != nil {
			return nil, errors.NewValidationError("Invalid email", err.Error())
		}
		if info != nil {
			u.LinkGoogle(info.ProviderID, info.Name, info.Picture)
		}
		u.RecordLogin(now)
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}
		return u, nil
	}

	u.SetAuthProvider(provider)
	if info != nil {
		u.LinkGoogle(info.ProviderID, info.Name, info.Picture)
	}
	u.RecordLogin(now)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// issueSession revokes the user's active refresh tokens and issues a
// fresh pair. Each user holds at most one live refresh token.
func (s *Service) issueSession(ctx context.Context, u *user.User, includeUser bool) (*SessionDTO, error) {
	rawToken, _, err := s.rotateRefreshToken(ctx, u.ID())
	if err != nil {
		return nil, err
	}

	accessToken, expiresIn, err := s.signAccessToken(ctx, u)
	if err != nil {
		return nil, err
	}

	session := &SessionDTO{
		AccessToken:  accessToken,
		RefreshToken: rawToken,
		TokenType:    "Bearer",
		ExpiresIn:    expiresIn,
	}
	if includeUser {
		plan, err := s.quota.GetOrCreatePlan(ctx, u.ID())
		if err != nil {
			return nil, err
		}
		session.User = &UserDTO{
			ID:        u.ID(),
			Email:     u.Email(),
			FullName:  u.FullName(),
			AvatarURL: u.AvatarURL(),
			Plan:      string(plan.Tier()),
		}
	}
	return session, nil
}

func (s *Service) rotateRefreshToken(ctx context.Context, userID string) (string, *domainauth.RefreshToken, error) {
	if err := s.refreshTokens.RevokeAllActiveByUserID(ctx, userID); err != nil {
		return "", nil, err
	}

	rawToken, err := infraauth.GenerateOpaqueToken()
	if err != nil {
		return "", nil, errors.NewInternalError("Failed to issue refresh token").WithCause(err)
	}

	token, err := domainauth.NewRefreshToken(userID, s.hasher.Hash(rawToken), biztime.NowUTC().Add(s.refreshTTL))
	if err != nil {
		return "", nil, errors.NewInternalError("Failed to issue refresh token").WithCause(err)
	}
	if err := s.refreshTokens.Create(ctx, token); err != nil {
		return "", nil, err
	}

	return rawToken, token, nil
}

func (s *Service) signAccessToken(ctx context.Context, u *user.User) (string, int64, error) {
	plan, err := s.quota.GetOrCreatePlan(ctx, u.ID())
	if err != nil {
		return "", 0, err
	}

	role := authorization.RoleUser
	if _, ok := s.adminEmails[u.Email()]; ok {
		role = authorization.RoleAdmin
	}

	accessToken, expiresIn, err := s.jwt.GenerateAccess(u.ID(), u.Email(), string(plan.Tier()), role)
	if err != nil {
		return "", 0, errors.NewInternalError("Failed to sign access token").WithCause(err)
	}
	return accessToken, expiresIn, nil
}

func (s *Service) enforceLimit(ctx context.Context, key string, limit int) error {
	allowed, err := s.limiter.Allow(ctx, key, limit, authRateWindow)
	if err != nil {
		// Redis trouble must not lock everyone out of sign-in.
		s.logger.Warnw("rate limiter unavailable", "key", key, "error", err)
		return nil
	}
	if !allowed {
		s.logFailure(fmt.Sprintf("rate_limited key=%s", key))
		return errors.NewRateLimitedError("Too many requests")
	}
	return nil
}

func (s *Service) logFailure(reason string) {
	s.logger.Warnw("auth failure", "reason", reason)
}
