package auth

// MagicLinkRequest asks for a login link to be emailed.
type MagicLinkRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// MagicLinkConsumeRequest exchanges an emailed token for a session.
type MagicLinkConsumeRequest struct {
	Token string `json:"token" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UserDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Plan      string `json:"plan"`
}

// SessionDTO is the token bundle returned by every successful login,
// refresh included. User is omitted on refresh.
type SessionDTO struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	User         *UserDTO `json:"user,omitempty"`
}
