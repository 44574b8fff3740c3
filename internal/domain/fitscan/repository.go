package fitscan

import "context"

// Repository defines persistence operations for fit scans.
type Repository interface {
	Create(ctx context.Context, scan *FitScan) error
	GetByID(ctx context.Context, id string) (*FitScan, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*FitScan, error)
}
