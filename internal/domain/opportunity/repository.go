package opportunity

import "context"

// ListFilter narrows List results. A zero Status matches all statuses.
type ListFilter struct {
	Status     Status
	ActiveOnly bool
	Limit      int
	Offset     int
}

// Repository defines persistence operations for funding opportunities.
type Repository interface {
	Create(ctx context.Context, o *FundingOpportunity) error
	Update(ctx context.Context, o *FundingOpportunity) error
	GetByID(ctx context.Context, id string) (*FundingOpportunity, error)
	List(ctx context.Context, filter ListFilter) ([]*FundingOpportunity, error)
}
