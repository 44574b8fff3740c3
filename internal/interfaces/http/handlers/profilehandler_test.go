package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	profileApp "github.com/ngoinfo/grantpilot/internal/application/profile"
	"github.com/ngoinfo/grantpilot/internal/domain/profile"
	"github.com/ngoinfo/grantpilot/internal/shared/constants"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
)

type memProfileRepo struct {
	byUser map[string]*profile.NGOProfile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{byUser: make(map[string]*profile.NGOProfile)}
}

func (r *memProfileRepo) Create(_ context.Context, p *profile.NGOProfile) error {
	r.byUser[p.UserID()] = p
	return nil
}

func (r *memProfileRepo) Update(_ context.Context, p *profile.NGOProfile) error {
	r.byUser[p.UserID()] = p
	return nil
}

func (r *memProfileRepo) GetByUserID(_ context.Context, userID string) (*profile.NGOProfile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, errors.NewNotFoundError("profile not found")
	}
	return p, nil
}

func (r *memProfileRepo) ExistsByUserID(_ context.Context, userID string) (bool, error) {
	_, ok := r.byUser[userID]
	return ok, nil
}

func setUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

func newProfileTestEngine(userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	service := profileApp.NewService(newMemProfileRepo(), logger.NewLogger())
	handler := NewProfileHandler(service, logger.NewLogger())

	engine := gin.New()
	group := engine.Group("/api/profile", setUser(userID))
	group.POST("", handler.Create)
	group.PUT("", handler.Update)
	group.GET("", handler.Get)
	group.GET("/completeness", handler.GetCompleteness)
	return engine
}

const completeProfileBody = `{
	"organization_name": "Hope Foundation",
	"country_of_registration": "Kenya",
	"mission_statement": "Improve rural education",
	"focus_sectors": ["Education"],
	"geographic_areas_of_work": ["East Africa"],
	"target_groups": ["Children"],
	"past_projects": [{"title": "School rebuild", "year": 2022}]
}`

func TestProfileHandler_CreateAndGet(t *testing.T) {
	engine := newProfileTestEngine("user-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(completeProfileBody))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data profileApp.ProfileDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Hope Foundation", resp.Data.OrganizationName)
	assert.Equal(t, "COMPLETE", resp.Data.ProfileStatus)
	assert.Equal(t, 100, resp.Data.CompletenessScore)
}

func TestProfileHandler_CreateTwiceConflicts(t *testing.T) {
	engine := newProfileTestEngine("user-1")

	for _, want := range []int{http.StatusCreated, http.StatusConflict} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(completeProfileBody))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, w.Body.String())
	}
}

func TestProfileHandler_MissingRequiredFields(t *testing.T) {
	engine := newProfileTestEngine("user-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(`{"organization_name": "Hope"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileHandler_GetBeforeCreate(t *testing.T) {
	engine := newProfileTestEngine("user-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileHandler_Completeness(t *testing.T) {
	engine := newProfileTestEngine("user-1")

	// Partial profile: required JSON fields present, list fields empty.
	body := `{
		"organization_name": "Hope Foundation",
		"country_of_registration": "Kenya",
		"mission_statement": "Improve rural education"
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/profile/completeness", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data profileApp.CompletenessDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DRAFT", resp.Data.ProfileStatus)
	assert.Less(t, resp.Data.CompletenessScore, 100)
	assert.NotEmpty(t, resp.Data.MissingFields)
}
