package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuthProvider identifies how the account was created.
type AuthProvider string

const (
	AuthProviderEmail  AuthProvider = "email"
	AuthProviderGoogle AuthProvider = "google"
)

var (
	ErrInvalidEmail = errors.New("email cannot be empty")
	ErrInvalidID    = errors.New("user ID cannot be empty")
)

// User is the account aggregate. Sign-in is passwordless, either by
// magic link or Google OAuth, so there is no credential state here.
type User struct {
	id           string
	email        string
	fullName     string
	avatarURL    string
	googleSub    string
	authProvider AuthProvider
	createdAt    time.Time
	updatedAt    time.Time
	lastLoginAt  *time.Time
}

func NewUser(email string, provider AuthProvider) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidEmail
	}
	if provider == "" {
		provider = AuthProviderEmail
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.NewString(),
		email:        email,
		authProvider: provider,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructUser(
	id string,
	email string,
	fullName string,
	avatarURL string,
	googleSub string,
	authProvider string,
	createdAt time.Time,
	updatedAt time.Time,
	lastLoginAt *time.Time,
) (*User, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if email == "" {
		return nil, ErrInvalidEmail
	}

	return &User{
		id:           id,
		email:        email,
		fullName:     fullName,
		avatarURL:    avatarURL,
		googleSub:    googleSub,
		authProvider: AuthProvider(authProvider),
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		lastLoginAt:  lastLoginAt,
	}, nil
}

// NormalizeEmail lowercases and trims an email address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LinkGoogle attaches a Google subject identifier after OAuth sign-in.
func (u *User) LinkGoogle(sub, fullName, avatarURL string) {
	u.googleSub = sub
	if fullName != "" {
		u.fullName = fullName
	}
	if avatarURL != "" {
		u.avatarURL = avatarURL
	}
	u.updatedAt = time.Now().UTC()
}

// SetAuthProvider records the provider used for the latest sign-in.
func (u *User) SetAuthProvider(p AuthProvider) {
	u.authProvider = p
	u.updatedAt = time.Now().UTC()
}

func (u *User) RecordLogin(at time.Time) {
	at = at.UTC()
	u.lastLoginAt = &at
	u.updatedAt = time.Now().UTC()
}

func (u *User) ID() string                 { return u.id }
func (u *User) Email() string              { return u.email }
func (u *User) FullName() string           { return u.fullName }
func (u *User) AvatarURL() string          { return u.avatarURL }
func (u *User) GoogleSub() string          { return u.googleSub }
func (u *User) AuthProvider() AuthProvider { return u.authProvider }
func (u *User) CreatedAt() time.Time       { return u.createdAt }
func (u *User) UpdatedAt() time.Time       { return u.updatedAt }
func (u *User) LastLoginAt() *time.Time    { return u.lastLoginAt }
