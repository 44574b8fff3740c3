package opportunity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngoinfo/grantpilot/internal/domain/opportunity"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
	"github.com/ngoinfo/grantpilot/internal/shared/services/markdown"
)

type fakeOpportunityRepo struct {
	byID map[string]*opportunity.FundingOpportunity
}

func newFakeRepo() *fakeOpportunityRepo {
	return &fakeOpportunityRepo{byID: map[string]*opportunity.FundingOpportunity{}}
}

func (r *fakeOpportunityRepo) Create(_ context.Context, o *opportunity.FundingOpportunity) error {
	r.byID[o.ID()] = o
	return nil
}

func (r *fakeOpportunityRepo) Update(_ context.Context, o *opportunity.FundingOpportunity) error {
	r.byID[o.ID()] = o
	return nil
}

func (r *fakeOpportunityRepo) GetByID(_ context.Context, id string) (*opportunity.FundingOpportunity, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, errors.NewNotFoundError("opportunity not found")
	}
	return o, nil
}

func (r *fakeOpportunityRepo) List(_ context.Context, _ opportunity.ListFilter) ([]*opportunity.FundingOpportunity, error) {
	var out []*opportunity.FundingOpportunity
	for _, o := range r.byID {
		out = append(out, o)
	}
	return out, nil
}

func validRequest() *UpsertOpportunityRequest {
	return &UpsertOpportunityRequest{
		Title:               "Community Education Fund",
		DonorOrganization:   "Bright Trust",
		ApplicantType:       "NGO",
		DeadlineType:        "FIXED",
		ApplicationDeadline: "2026-10-01",
		ShortSummary:        "Grants for community education projects.",
		OverviewText:        "# Overview\n\nGrants for **community** projects.",
	}
}

func newTestService() (*Service, *fakeOpportunityRepo) {
	repo := newFakeRepo()
	return NewService(repo, markdown.NewMarkdownService(), logger.NewLogger()), repo
}

func TestCreate(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Create(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "DRAFT", created.Status)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.ApplicationDeadline)
	assert.Equal(t, "2026-10-01", *created.ApplicationDeadline)
	assert.Contains(t, created.OverviewHTML, "<strong>community</strong>")
}

func TestCreate_FixedDeadlineRequiresDate(t *testing.T) {
	service, _ := newTestService()
	req := validRequest()
	req.ApplicationDeadline = ""

	_, err := service.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestCreate_BadDeadlineFormat(t *testing.T) {
	service, _ := newTestService()
	req := validRequest()
	req.ApplicationDeadline = "01/10/2026"

	_, err := service.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestCreate_DuplicateVariantIDsRejected(t *testing.T) {
	service, _ := newTestService()
	req := validRequest()
	req.Requirements = &opportunity.Requirements{
		Variants: []opportunity.Variant{{VariantID: "v1"}, {VariantID: "v1"}},
	}

	_, err := service.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestPublishAndArchive(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, validRequest())
	require.NoError(t, err)

	published, err := service.Publish(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "PUBLISHED", published.Status)

	// Publishing an already published opportunity is a conflict.
	_, err = service.Publish(ctx, created.ID)
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeConflict, appErr.Type)

	archived, err := service.Archive(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ARCHIVED", archived.Status)
	assert.True(t, archived.IsArchived)
	assert.False(t, archived.IsActive)
}

func TestGet_NotFound(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestRender_SanitizesScript(t *testing.T) {
	service, _ := newTestService()
	req := validRequest()
	req.OverviewText = "Hello <script>alert(1)</script> world"

	created, err := service.Create(context.Background(), req)
	require.NoError(t, err)
	assert.NotContains(t, created.OverviewHTML, "<script>")
}
