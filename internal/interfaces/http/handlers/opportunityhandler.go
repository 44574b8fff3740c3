package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	opportunityApp "github.com/ngoinfo/grantpilot/internal/application/opportunity"
	"github.com/ngoinfo/grantpilot/internal/domain/opportunity"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
	"github.com/ngoinfo/grantpilot/internal/shared/utils"
)

const defaultListLimit = 50

// OpportunityHandler handles funding opportunity reads for users and
// full curation for admins.
type OpportunityHandler struct {
	service *opportunityApp.Service
	logger  logger.Interface
}

func NewOpportunityHandler(service *opportunityApp.Service, log logger.Interface) *OpportunityHandler {
	return &OpportunityHandler{service: service, logger: log}
}

// List handles GET /api/opportunities. Only published, active
// opportunities are visible to users.
func (h *OpportunityHandler) List(c *gin.Context) {
	filter := opportunity.ListFilter{
		Status:     opportunity.StatusPublished,
		ActiveOnly: true,
		Limit:      parseIntQuery(c, "limit", defaultListLimit),
		Offset:     parseIntQuery(c, "offset", 0),
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"opportunities": result})
}

// Get handles GET /api/opportunities/:id.
func (h *OpportunityHandler) Get(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// AdminList handles GET /api/admin/opportunities with an optional
// status filter.
func (h *OpportunityHandler) AdminList(c *gin.Context) {
	filter := opportunity.ListFilter{
		Status: opportunity.Status(c.Query("status")),
		Limit:  parseIntQuery(c, "limit", defaultListLimit),
		Offset: parseIntQuery(c, "offset", 0),
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"opportunities": result})
}

// Create handles POST /api/admin/opportunities.
func (h *OpportunityHandler) Create(c *gin.Context) {
	req, ok := bindOpportunityRequest(c)
	if !ok {
		return
	}

	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// Update handles PUT /api/admin/opportunities/:id.
func (h *OpportunityHandler) Update(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	req, ok := bindOpportunityRequest(c)
	if !ok {
		return
	}

	result, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Publish handles POST /api/admin/opportunities/:id/publish.
func (h *OpportunityHandler) Publish(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.Publish(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Archive handles POST /api/admin/opportunities/:id/archive.
func (h *OpportunityHandler) Archive(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.Archive(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func bindOpportunityRequest(c *gin.Context) (*opportunityApp.UpsertOpportunityRequest, bool) {
	var req opportunityApp.UpsertOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return nil, false
	}
	return &req, true
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
