package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	billingApp "github.com/ngoinfo/grantpilot/internal/application/billing"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
	"github.com/ngoinfo/grantpilot/internal/shared/utils"
)

// EntitlementHandler exposes the current user's plan and quota state.
type EntitlementHandler struct {
	quota  *billingApp.QuotaService
	logger logger.Interface
}

func NewEntitlementHandler(quota *billingApp.QuotaService, log logger.Interface) *EntitlementHandler {
	return &EntitlementHandler{quota: quota, logger: log}
}

// GetMyEntitlements handles GET /api/me/entitlements.
func (h *EntitlementHandler) GetMyEntitlements(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	entitlements, err := h.quota.GetEntitlements(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to get entitlements", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", entitlements)
}
