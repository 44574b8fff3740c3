package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	profileApp "github.com/ngoinfo/grantpilot/internal/application/profile"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
	"github.com/ngoinfo/grantpilot/internal/shared/utils"
)

// ProfileHandler handles the current user's NGO profile endpoints.
type ProfileHandler struct {
	service *profileApp.Service
	logger  logger.Interface
}

func NewProfileHandler(service *profileApp.Service, log logger.Interface) *ProfileHandler {
	return &ProfileHandler{service: service, logger: log}
}

// Create handles POST /api/profile.
func (h *ProfileHandler) Create(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	req, ok := bindProfileRequest(c)
	if !ok {
		return
	}

	result, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// Update handles PUT /api/profile.
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	req, ok := bindProfileRequest(c)
	if !ok {
		return
	}

	result, err := h.service.Update(c.Request.Context(), userID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetCompleteness handles GET /api/profile/completeness.
func (h *ProfileHandler) GetCompleteness(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.GetCompleteness(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func bindProfileRequest(c *gin.Context) (*profileApp.UpsertProfileRequest, bool) {
	var req profileApp.UpsertProfileRequest
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
