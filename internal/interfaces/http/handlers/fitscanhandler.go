package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngoinfo/grantpilot/internal/application/fitscan/promptinputs"
	"github.com/ngoinfo/grantpilot/internal/application/fitscan/usecases"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
	"github.com/ngoinfo/grantpilot/internal/shared/utils"
)

// RunFitScanRequest is the body of POST /api/fit-scans.
type RunFitScanRequest struct {
	FundingOpportunityID string            `json:"funding_opportunity_id" validate:"required"`
	UserInputs           *FitScanUserInput `json:"user_inputs"`
}

// FitScanUserInput carries the optional per-scan steering inputs.
type FitScanUserInput struct {
	SelectedVariantID      string                      `json:"selected_variant_id"`
	UserGoal               string                      `json:"user_goal"`
	UserOverrides          *promptinputs.UserOverrides `json:"user_overrides"`
	UploadedDocumentsIndex []map[string]any            `json:"uploaded_documents_index"`
}

// FitScanHandler handles fit scan execution and retrieval.
type FitScanHandler struct {
	runUC  *usecases.RunFitScanUseCase
	getUC  *usecases.GetFitScanUseCase
	logger logger.Interface
}

func NewFitScanHandler(runUC *usecases.RunFitScanUseCase, getUC *usecases.GetFitScanUseCase, log logger.Interface) *FitScanHandler {
	return &FitScanHandler{runUC: runUC, getUC: getUC, logger: log}
}

// Run handles POST /api/fit-scans.
func (h *FitScanHandler) Run(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req RunFitScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var inputs *promptinputs.UserInputs
	if req.UserInputs != nil {
		inputs = &promptinputs.UserInputs{
			SelectedVariantID:      req.UserInputs.SelectedVariantID,
			UserGoal:               req.UserInputs.UserGoal,
			UserOverrides:          req.UserInputs.UserOverrides,
			UploadedDocumentsIndex: req.UserInputs.UploadedDocumentsIndex,
		}
	}

	result, err := h.runUC.Execute(c.Request.Context(), userID, req.FundingOpportunityID, inputs)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// Get handles GET /api/fit-scans/:id. Owners only.
func (h *FitScanHandler) Get(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	fitScanID, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), userID, fitScanID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
