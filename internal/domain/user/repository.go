package user

import "context"

// Repository defines persistence operations for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByGoogleSub(ctx context.Context, sub string) (*User, error)
}
