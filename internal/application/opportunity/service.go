// Package opportunity implements the admin-facing curation use cases
// for funding opportunities.
package opportunity

import (
	"context"
	"time"

	"github.com/ngoinfo/grantpilot/internal/domain/opportunity"
	"github.com/ngoinfo/grantpilot/internal/shared/biztime"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
	"github.com/ngoinfo/grantpilot/internal/shared/services/markdown"
)

type Service struct {
	opportunities opportunity.Repository
	markdown      markdown.MarkdownService
	logger        logger.Interface
}

func NewService(
	opportunities opportunity.Repository,
	md markdown.MarkdownService,
	log logger.Interface,
) *Service {
	return &Service{opportunities: opportunities, markdown: md, logger: log}
}

func (s *Service) Create(ctx context.Context, req *UpsertOpportunityRequest) (*OpportunityDTO, error) {
	attrs, err := s.toAttributes(req)
	if err != nil {
		return nil, err
	}

	o, err := opportunity.NewFundingOpportunity(attrs)
	if err != nil {
		return nil, errors.NewValidationError("Invalid opportunity payload", err.Error())
	}
	if err := s.opportunities.Create(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Infow("opportunity created", "opportunity_id", o.ID(), "title", o.Title())
	return s.render(o), nil
}

func (s *Service) Update(ctx context.Context, id string, req *UpsertOpportunityRequest) (*OpportunityDTO, error) {
	o, err := s.getOrNotFound(ctx, id)
	if err != nil {
		return nil, err
	}

	attrs, err := s.toAttributes(req)
	if err != nil {
		return nil, err
	}
	if err := o.Update(attrs); err != nil {
		return nil, errors.NewValidationError("Invalid opportunity payload", err.Error())
	}
	if err := s.opportunities.Update(ctx, o); err != nil {
		return nil, err
	}
	return s.render(o), nil
}

func (s *Service) Get(ctx context.Context, id string) (*OpportunityDTO, error) {
	o, err := s.getOrNotFound(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(o), nil
}

func (s *Service) List(ctx context.Context, filter opportunity.ListFilter) ([]*OpportunityDTO, error) {
	list, err := s.opportunities.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*OpportunityDTO, 0, len(list))
	for _, o := range list {
		out = append(out, s.render(o))
	}
	return out, nil
}

func (s *Service) Publish(ctx context.Context, id string) (*OpportunityDTO, error) {
	o, err := s.getOrNotFound(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.Publish(); err != nil {
		return nil, errors.NewConflictError("Cannot publish opportunity", err.Error())
	}
	if err := s.opportunities.Update(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Infow("opportunity published", "opportunity_id", o.ID())
	return s.render(o), nil
}

func (s *Service) Archive(ctx context.Context, id string) (*OpportunityDTO, error) {
	o, err := s.getOrNotFound(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Archive()
	if err := s.opportunities.Update(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Infow("opportunity archived", "opportunity_id", o.ID())
	return s.render(o), nil
}

func (s *Service) getOrNotFound(ctx context.Context, id string) (*opportunity.FundingOpportunity, error) {
	o, err := s.opportunities.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("Funding opportunity not found")
		}
		return nil, err
	}
	return o, nil
}

func (s *Service) render(o *opportunity.FundingOpportunity) *OpportunityDTO {
	overviewHTML := ""
	if text := o.OverviewText(); text != "" {
		rendered, err := s.markdown.ToHTMLSanitized(text)
		if err != nil {
			// A rendering failure degrades to plain text absence, it
			// never blocks the read.
			s.logger.Warnw("overview markdown rendering failed", "opportunity_id", o.ID(), "error", err)
		} else {
			overviewHTML = rendered
		}
	}
	return toDTO(o, overviewHTML)
}

func (s *Service) toAttributes(req *UpsertOpportunityRequest) (opportunity.Attributes, error) {
	var deadline *time.Time
	if req.ApplicationDeadline != "" {
		parsed, err := biztime.ParseDateUTC(req.ApplicationDeadline)
		if err != nil {
			return opportunity.Attributes{}, errors.NewValidationError("Invalid application_deadline", err.Error())
		}
		deadline = &parsed
	}

	return opportunity.Attributes{
		SourceURL:             req.SourceURL,
		ApplicationURL:        req.ApplicationURL,
		Title:                 req.Title,
		DonorOrganization:     req.DonorOrganization,
		FundingType:           req.FundingType,
		ApplicantType:         opportunity.ApplicantType(req.ApplicantType),
		LocationText:          req.LocationText,
		FocusAreas:            req.FocusAreas,
		DeadlineType:          opportunity.DeadlineType(req.DeadlineType),
		ApplicationDeadline:   deadline,
		Currency:              req.Currency,
		AmountMin:             req.AmountMin,
		AmountMax:             req.AmountMax,
		TotalFundingAvailable: req.TotalFundingAvailable,
		ShortSummary:          req.ShortSummary,
		OverviewText:          req.OverviewText,
		EligibilityCriteria:   req.EligibilityCriteria,
		ApplicationProcess:    req.ApplicationProcess,
		ContactInformation:    req.ContactInformation,
		OrganizationTypes:     req.OrganizationTypes,
		GeographicFocus:       req.GeographicFocus,
		InternalNotes:         req.InternalNotes,
		Requirements:          req.Requirements,
	}, nil
}
