package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	authApp "github.com/ngoinfo/grantpilot/internal/application/auth"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
	"github.com/ngoinfo/grantpilot/internal/shared/utils"
)

// AuthHandler handles the passwordless sign-in endpoints.
type AuthHandler struct {
	service             *authApp.Service
	frontendCallbackURL string
	logger              logger.Interface
}

func NewAuthHandler(service *authApp.Service, frontendCallbackURL string, log logger.Interface) *AuthHandler {
	return &AuthHandler{
		service:             service,
		frontendCallbackURL: frontendCallbackURL,
		logger:              log,
	}
}

// RequestMagicLink handles POST /auth/magic-link/request.
// The response never reveals whether the address has an account.
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req authApp.MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.RequestMagicLink(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent()); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "If the address exists, a sign-in link has been sent", nil)
}

// ConsumeMagicLink handles POST /auth/magic-link/consume.
func (h *AuthHandler) ConsumeMagicLink(c *gin.Context) {
	var req authApp.MagicLinkConsumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	session, err := h.service.ConsumeMagicLink(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", session)
}

// GoogleStart handles GET /auth/google/start and redirects the
// browser to Google's consent screen.
func (h *AuthHandler) GoogleStart(c *gin.Context) {
	authURL, err := h.service.GoogleStart(c.Request.Context(), c.ClientIP())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback handles GET /auth/google/callback. When a frontend
// callback URL is configured the browser is redirected there with the
// tokens in the URL fragment, which keeps them out of server logs.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Missing state or code parameter")
		return
	}

	session, err := h.service.GoogleCallback(c.Request.Context(), state, code)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if h.frontendCallbackURL != "" {
		fragment := url.Values{}
		fragment.Set("access_token", session.AccessToken)
		fragment.Set("refresh_token", session.RefreshToken)
		c.Redirect(http.StatusTemporaryRedirect, h.frontendCallbackURL+"#"+fragment.Encode())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", session)
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req authApp.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	session, err := h.service.Refresh(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", session)
}

// Logout handles POST /auth/logout and revokes the presented refresh
// token.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req authApp.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.Logout(c.Request.Context(), &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Logged out", nil)
}
