package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/ngoinfo/grantpilot/internal/application/billing"
	domainauth "github.com/ngoinfo/grantpilot/internal/domain/auth"
	"github.com/ngoinfo/grantpilot/internal/domain/billing"
	"github.com/ngoinfo/grantpilot/internal/domain/user"
	infraauth "github.com/ngoinfo/grantpilot/internal/infrastructure/auth"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/cache"
	"github.com/ngoinfo/grantpilot/internal/shared/biztime"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
)

type fakeUserRepo struct {
	byEmail map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*user.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.byEmail[u.Email()] = u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	r.byEmail[u.Email()] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	for _, u := range r.byEmail {
		if u.ID() == id {
			return u, nil
		}
	}
	return nil, errors.NewNotFoundError("user not found")
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, errors.NewNotFoundError("user not found")
	}
	return u, nil
}

func (r *fakeUserRepo) GetByGoogleSub(_ context.Context, sub string) (*user.User, error) {
	for _, u := range r.byEmail {
		if u.GoogleSub() == sub {
			return u, nil
		}
	}
	return nil, errors.NewNotFoundError("user not found")
}

type fakeRefreshRepo struct {
	byHash map[string]*domainauth.RefreshToken
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{byHash: map[string]*domainauth.RefreshToken{}}
}

func (r *fakeRefreshRepo) Create(_ context.Context, t *domainauth.RefreshToken) error {
	r.byHash[t.TokenHash()] = t
	return nil
}

func (r *fakeRefreshRepo) Update(_ context.Context, t *domainauth.RefreshToken) error {
	r.byHash[t.TokenHash()] = t
	return nil
}

func (r *fakeRefreshRepo) GetByTokenHash(_ context.Context, hash string) (*domainauth.RefreshToken, error) {
	t, ok := r.byHash[hash]
	if !ok {
		return nil, errors.NewNotFoundError("refresh token not found")
	}
	return t, nil
}

func (r *fakeRefreshRepo) RevokeAllActiveByUserID(_ context.Context, userID string) error {
	now := biztime.NowUTC()
	for _, t := range r.byHash {
		if t.UserID() == userID && t.RevokedAt() == nil {
			t.Revoke(now)
		}
	}
	return nil
}

func (r *fakeRefreshRepo) activeCount(userID string) int {
	n := 0
	for _, t := range r.byHash {
		if t.UserID() == userID && t.RevokedAt() == nil {
			n++
		}
	}
	return n
}

type fakeMagicRepo struct {
	byHash map[string]*domainauth.MagicLinkToken
}

func newFakeMagicRepo() *fakeMagicRepo {
	return &fakeMagicRepo{byHash: map[string]*domainauth.MagicLinkToken{}}
}

func (r *fakeMagicRepo) Create(_ context.Context, t *domainauth.MagicLinkToken) error {
	r.byHash[t.TokenHash()] = t
	return nil
}

func (r *fakeMagicRepo) Update(_ context.Context, t *domainauth.MagicLinkToken) error {
	r.byHash[t.TokenHash()] = t
	return nil
}

func (r *fakeMagicRepo) GetByTokenHash(_ context.Context, hash string) (*domainauth.MagicLinkToken, error) {
	t, ok := r.byHash[hash]
	if !ok {
		return nil, errors.NewNotFoundError("magic link token not found")
	}
	return t, nil
}

type fakePlanRepo struct {
	byUserID map[string]*billing.UserPlan
}

func (r *fakePlanRepo) Create(_ context.Context, p *billing.UserPlan) error {
	r.byUserID[p.UserID()] = p
	return nil
}

func (r *fakePlanRepo) Update(_ context.Context, p *billing.UserPlan) error {
	r.byUserID[p.UserID()] = p
	return nil
}

func (r *fakePlanRepo) GetByUserID(_ context.Context, userID string) (*billing.UserPlan, error) {
	p, ok := r.byUserID[userID]
	if !ok {
		return nil, errors.NewNotFoundError("plan not found")
	}
	return p, nil
}

func (r *fakePlanRepo) GetByUserIDForUpdate(ctx context.Context, userID string) (*billing.UserPlan, error) {
	return r.GetByUserID(ctx, userID)
}

type fakeUsageRepo struct{}

func (r *fakeUsageRepo) Create(_ context.Context, _ *billing.UsageEntry) error { return nil }

func (r *fakeUsageRepo) FindByIdempotencyKey(_ context.Context, _ string, _ billing.ActionType, _ string) (*billing.UsageEntry, error) {
	return nil, errors.NewNotFoundError("usage entry not found")
}

func (r *fakeUsageRepo) CountInPeriod(_ context.Context, _ string, _ billing.ActionType, _, _ *time.Time) (int, error) {
	return 0, nil
}

type fakeMailer struct {
	sentTo    []string
	lastToken string
	err       error
}

func (m *fakeMailer) SendMagicLinkEmail(to, token string, _ int) error {
	if m.err != nil {
		return m.err
	}
	m.sentTo = append(m.sentTo, to)
	m.lastToken = token
	return nil
}

type fakeLimiter struct {
	denied map[string]bool
	seen   []string
}

func (l *fakeLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	l.seen = append(l.seen, key)
	return !l.denied[key], nil
}

type fakeOAuth struct {
	info        *infraauth.OAuthUserInfo
	exchangeErr error
}

func (o *fakeOAuth) GetAuthURL(state string) (string, string, error) {
	return "https://accounts.google.com/o/oauth2/v2/auth?state=" + state, "verifier-" + state, nil
}

func (o *fakeOAuth) ExchangeCode(_ context.Context, _ string, _ string) (string, error) {
	if o.exchangeErr != nil {
		return "", o.exchangeErr
	}
	return "provider-access-token", nil
}

func (o *fakeOAuth) GetUserInfo(_ context.Context, _ string) (*infraauth.OAuthUserInfo, error) {
	return o.info, nil
}

type memStateStore struct {
	byState map[string]string
}

func newMemStateStore() *memStateStore {
	return &memStateStore{byState: map[string]string{}}
}

func (s *memStateStore) Set(_ context.Context, state, codeVerifier string) error {
	s.byState[state] = codeVerifier
	return nil
}

func (s *memStateStore) VerifyAndGet(_ context.Context, state string) (*cache.StateInfo, error) {
	verifier, ok := s.byState[state]
	if !ok {
		return nil, errors.NewNotFoundError("state not found or expired")
	}
	delete(s.byState, state)
	return &cache.StateInfo{CodeVerifier: verifier, CreatedAt: biztime.NowUTC()}, nil
}

type authFixture struct {
	service *Service
	users   *fakeUserRepo
	refresh *fakeRefreshRepo
	magic   *fakeMagicRepo
	mailer  *fakeMailer
	limiter *fakeLimiter
	oauth   *fakeOAuth
	states  *memStateStore
	hasher  *infraauth.TokenHasher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	log := logger.NewLogger()
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	magic := newFakeMagicRepo()
	mailer := &fakeMailer{}
	limiter := &fakeLimiter{denied: map[string]bool{}}
	oauth := &fakeOAuth{info: &infraauth.OAuthUserInfo{
		Email:         "jordan@example.org",
		Name:          "Jordan Apondi",
		Picture:       "https://example.org/avatar.png",
		EmailVerified: true,
		ProviderID:    "google-sub-1",
	}}
	states := newMemStateStore()
	hasher := infraauth.NewTokenHasher("test-signing-key")
	quota := appbilling.NewQuotaService(&fakePlanRepo{byUserID: map[string]*billing.UserPlan{}}, &fakeUsageRepo{}, log)

	service := NewService(
		users,
		refresh,
		magic,
		quota,
		infraauth.NewJWTService("test-signing-key", 15),
		hasher,
		mailer,
		limiter,
		oauth,
		states,
		Config{
			MagicLinkTTLMinutes: 15,
			RefreshTokenTTLDays: 30,
			AdminEmails:         []string{"admin@grantpilot.org"},
		},
		log,
	)

	return &authFixture{
		service: service,
		users:   users,
		refresh: refresh,
		magic:   magic,
		mailer:  mailer,
		limiter: limiter,
		oauth:   oauth,
		states:  states,
		hasher:  hasher,
	}
}

func TestRequestMagicLink_SendsTokenAndStoresHash(t *testing.T) {
	f := newAuthFixture(t)

	err := f.service.RequestMagicLink(context.Background(), &MagicLinkRequest{Email: "  Jordan@Example.ORG "}, "10.0.0.1", "go-test")
	require.NoError(t, err)

	require.Equal(t, []string{"jordan@example.org"}, f.mailer.sentTo)
	require.NotEmpty(t, f.mailer.lastToken)

	stored, ok := f.magic.byHash[f.hasher.Hash(f.mailer.lastToken)]
	require.True(t, ok, "token must be stored under its hash")
	assert.Equal(t, "jordan@example.org", stored.Email())
	assert.NotContains(t, stored.TokenHash(), f.mailer.lastToken)
}

func TestRequestMagicLink_RateLimitedByEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.limiter.denied["magic_email:jordan@example.org"] = true

	err := f.service.RequestMagicLink(context.Background(), &MagicLinkRequest{Email: "jordan@example.org"}, "10.0.0.1", "go-test")
	require.Error(t, err)
	assert.True(t, errors.IsRateLimitedError(err))
	assert.Empty(t, f.mailer.sentTo)
}

func TestConsumeMagicLink_CreatesUserAndSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.RequestMagicLink(ctx, &MagicLinkRequest{Email: "jordan@example.org"}, "10.0.0.1", "go-test"))

	session, err := f.service.ConsumeMagicLink(ctx, &MagicLinkConsumeRequest{Token: f.mailer.lastToken}, "10.0.0.1")
	require.NoError(t, err)

	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.Equal(t, int64(15*60), session.ExpiresIn)
	require.NotNil(t, session.User)
	assert.Equal(t, "jordan@example.org", session.User.Email)
	assert.Equal(t, "FREE", session.User.Plan)

	u, err := f.users.GetByEmail(ctx, "jordan@example.org")
	require.NoError(t, err)
	assert.Equal(t, user.AuthProviderEmail, u.AuthProvider())
	assert.NotNil(t, u.LastLoginAt())
}

func TestConsumeMagicLink_SecondUseConflicts(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.RequestMagicLink(ctx, &MagicLinkRequest{Email: "jordan@example.org"}, "10.0.0.1", "go-test"))

	_, err := f.service.ConsumeMagicLink(ctx, &MagicLinkConsumeRequest{Token: f.mailer.lastToken}, "10.0.0.1")
	require.NoError(t, err)

	_, err = f.service.ConsumeMagicLink(ctx, &MagicLinkConsumeRequest{Token: f.mailer.lastToken}, "10.0.0.1")
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeConflict, appErr.Type)
}

func TestConsumeMagicLink_ExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	raw := "expired-token"
	token, err := domainauth.NewMagicLinkToken(
		"jordan@example.org",
		f.hasher.Hash(raw),
		"10.0.0.1",
		"go-test",
		biztime.NowUTC().Add(-time.Minute),
	)
	require.NoError(t, err)
	require.NoError(t, f.magic.Create(ctx, token))

	_, err = f.service.ConsumeMagicLink(ctx, &MagicLinkConsumeRequest{Token: raw}, "10.0.0.1")
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeBadRequest, appErr.Type)
	assert.Equal(t, "Magic link token expired", appErr.Message)
}

func TestConsumeMagicLink_UnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.ConsumeMagicLink(context.Background(), &MagicLinkConsumeRequest{Token: "nope"}, "10.0.0.1")
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "Invalid magic link token", appErr.Message)
}

func TestRefresh_RotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.RequestMagicLink(ctx, &MagicLinkRequest{Email: "jordan@example.org"}, "10.0.0.1", "go-test"))
	session, err := f.service.ConsumeMagicLink(ctx, &MagicLinkConsumeRequest{Token: f.mailer.lastToken}, "10.0.0.1")
	require.NoError(t, err)

	rotated, err := f.service.Refresh(ctx, &RefreshRequest{RefreshToken: session.RefreshToken}, "10.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)
	assert.Nil(t, rotated.User)

	// The old token is revoked and linked to its successor.
	old, err := f.refresh.GetByTokenHash(ctx, f.hasher.Hash(session.RefreshToken))
	require.NoError(t, err)
	assert.NotNil(t, old.RevokedAt())
	assert.NotEmpty(t, old.ReplacedByTokenID())

	// Only the rotated token is live.
	assert.Equal(t, 1, f.refresh.activeCount(old.UserID()))

	_, err = f.service.Refresh(ctx, &RefreshRequest{RefreshToken: session.RefreshToken}, "10.0.0.1")
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "Refresh token revoked", appErr.Message)
}

func TestRefresh_UnknownTokenLimitedByIP(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.Refresh(context.Background(), &RefreshRequest{RefreshToken: "bogus"}, "10.0.0.9")
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorizedError(err))
	assert.Contains(t, f.limiter.seen, "refresh_ip:10.0.0.9")
}

func TestLogout_RevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.RequestMagicLink(ctx, &MagicLinkRequest{Email: "jordan@example.org"}, "10.0.0.1", "go-test"))
	session, err := f.service.ConsumeMagicLink(ctx, &MagicLinkConsumeRequest{Token: f.mailer.lastToken}, "10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, &LogoutRequest{RefreshToken: session.RefreshToken}))

	// Logging out twice reports an invalid token.
	err = f.service.Logout(ctx, &LogoutRequest{RefreshToken: session.RefreshToken})
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorizedError(err))
}

func TestGoogleFlow_SignsInNewUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	authURL, err := f.service.GoogleStart(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Contains(t, authURL, "state=")

	require.Len(t, f.states.byState, 1)
	var state string
	for s := range f.states.byState {
		state = s
	}

	session, err := f.service.GoogleCallback(ctx, state, "auth-code")
	require.NoError(t, err)
	require.NotNil(t, session.User)
	assert.Equal(t, "jordan@example.org", session.User.Email)
	assert.Equal(t, "Jordan Apondi", session.User.FullName)

	u, err := f.users.GetByEmail(ctx, "jordan@example.org")
	require.NoError(t, err)
	assert.Equal(t, user.AuthProviderGoogle, u.AuthProvider())
	assert.Equal(t, "google-sub-1", u.GoogleSub())

	// State is single use.
	_, err = f.service.GoogleCallback(ctx, state, "auth-code")
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorizedError(err))
}

func TestGoogleCallback_LinksExistingEmailUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.RequestMagicLink(ctx, &MagicLinkRequest{Email: "jordan@example.org"}, "10.0.0.1", "go-test"))
	_, err := f.service.ConsumeMagicLink(ctx, &MagicLinkConsumeRequest{Token: f.mailer.lastToken}, "10.0.0.1")
	require.NoError(t, err)

	_, err = f.service.GoogleStart(ctx, "10.0.0.1")
	require.NoError(t, err)
	var state string
	for s := range f.states.byState {
		state = s
	}

	_, err = f.service.GoogleCallback(ctx, state, "auth-code")
	require.NoError(t, err)

	u, err := f.users.GetByEmail(ctx, "jordan@example.org")
	require.NoError(t, err)
	assert.Equal(t, user.AuthProviderGoogle, u.AuthProvider())
	assert.Equal(t, "google-sub-1", u.GoogleSub())
}

func TestAccessTokenClaims(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.RequestMagicLink(ctx, &MagicLinkRequest{Email: "admin@grantpilot.org"}, "10.0.0.1", "go-test"))
	session, err := f.service.ConsumeMagicLink(ctx, &MagicLinkConsumeRequest{Token: f.mailer.lastToken}, "10.0.0.1")
	require.NoError(t, err)

	claims, err := infraauth.NewJWTService("test-signing-key", 15).Verify(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@grantpilot.org", claims.Email)
	assert.Equal(t, "FREE", claims.Plan)
	assert.True(t, claims.Role.IsAdmin())
	assert.Equal(t, session.User.ID, claims.Subject)
}
