package profile

import "context"

// Repository defines persistence operations for NGO profiles.
type Repository interface {
	Create(ctx context.Context, p *NGOProfile) error
	Update(ctx context.Context, p *NGOProfile) error
	GetByUserID(ctx context.Context, userID string) (*NGOProfile, error)
	ExistsByUserID(ctx context.Context, userID string) (bool, error)
}
