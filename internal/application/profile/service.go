// Package profile implements the organization profile use cases: one
// profile per user, recomputed completeness on every write.
package profile

import (
	"context"

	"github.com/ngoinfo/grantpilot/internal/domain/profile"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
)

type Service struct {
	profiles profile.Repository
	logger   logger.Interface
}

func NewService(profiles profile.Repository, log logger.Interface) *Service {
	return &Service{profiles: profiles, logger: log}
}

// Create stores a new profile; each user may have exactly one.
func (s *Service) Create(ctx context.Context, userID string, req *UpsertProfileRequest) (*ProfileDTO, error) {
	exists, err := s.profiles.ExistsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.NewConflictError("Profile already exists")
	}

	p, err := profile.NewNGOProfile(userID, toAttributes(req))
	if err != nil {
		return nil, mapDomainError(err)
	}

	if err := s.profiles.Create(ctx, p); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("Profile already exists")
		}
		return nil, err
	}

	s.logger.Infow("profile created",
		"user_id", userID,
		"status", p.Status(),
		"completeness", p.CompletenessScore(),
	)
	return toDTO(p), nil
}

// Update replaces the profile's editable fields.
func (s *Service) Update(ctx context.Context, userID string, req *UpsertProfileRequest) (*ProfileDTO, error) {
	p, err := s.getOrNotFound(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := p.Update(toAttributes(req)); err != nil {
		return nil, mapDomainError(err)
	}
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return toDTO(p), nil
}

// Get returns the current user's profile.
func (s *Service) Get(ctx context.Context, userID string) (*ProfileDTO, error) {
	p, err := s.getOrNotFound(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toDTO(p), nil
}

// GetCompleteness returns the completeness snapshot only.
func (s *Service) GetCompleteness(ctx context.Context, userID string) (*CompletenessDTO, error) {
	p, err := s.getOrNotFound(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CompletenessDTO{
		ProfileStatus:     string(p.Status()),
		CompletenessScore: p.CompletenessScore(),
		MissingFields:     p.MissingFields(),
	}, nil
}

func (s *Service) getOrNotFound(ctx context.Context, userID string) (*profile.NGOProfile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("Profile not found")
		}
		return nil, err
	}
	return p, nil
}

func mapDomainError(err error) error {
	switch err {
	case profile.ErrInvalidYear:
		return errors.NewValidationError("Invalid year_of_establishment")
	case profile.ErrInvalidBudget:
		return errors.NewValidationError("Invalid annual_budget_amount")
	default:
		return errors.NewValidationError("Invalid profile payload", err.Error())
	}
}
