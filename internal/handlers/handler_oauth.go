package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopmobile/storefront_bff/internal/adapters/shopify"
	"github.com/shopmobile/storefront_bff/internal/dto"
	"github.com/shopmobile/storefront_bff/internal/middleware"
)

// oauthHandler acknowledges the Shopify app-install callback. Token storage is
// manual for now: the exchanged token is logged for the operator to move into
// configuration.
type oauthHandler struct {
	oauthCfg *shopify.OAuthConfig
}

func newOAuthHandler(oauthCfg *shopify.OAuthConfig) *oauthHandler {
	return &oauthHandler{oauthCfg: oauthCfg}
}

// install godoc
// @Summary Begin the Shopify app-install handshake
// @Description Redirects the operator's browser to the store authorization page
// @Tags auth
// @Produce  json
// @Success 307 {string} string "Redirect to the store authorization URL"
// @Failure 503 {object} dto.ErrorResponse "OAuth is not configured"
// @Router /auth/install [get]
func (h *oauthHandler) install(c *gin.Context) {
	if h.oauthCfg == nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Success: false, Error: "OAuth is not configured"})
		return
	}

	url, state, err := h.oauthCfg.AuthorizeURL()
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to build authorize URL", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Success: false, Error: "An internal error occurred"})
		return
	}

	c.SetCookie("oauth_state", state, 600, "/", "", true, true)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// callback godoc
// @Summary OAuth install callback
// @Description Completes the Shopify app-install handshake and acknowledges it
// @Tags auth
// @Produce  json
// @Param   code query string false "Authorization code"
// @Param   shop query string false "Shop domain"
// @Success 200 {object} dto.MessageResponse
// @Router /auth/callback [get]
func (h *oauthHandler) callback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Query("code")
	shop := c.Query("shop")

	logger.Info("OAuth callback received", slog.String("shop", shop))

	if expected, err := c.Cookie("oauth_state"); err == nil && expected != c.Query("state") {
		logger.Warn("OAuth state mismatch, ignoring code", slog.String("shop", shop))
		c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "App installation acknowledged"})
		return
	}

	if h.oauthCfg != nil && code != "" {
		token, err := h.oauthCfg.Exchange(c.Request.Context(), code)
		if err != nil {
			logger.Warn("OAuth code exchange failed", slog.String("shop", shop), slog.String("error", err.Error()))
		} else {
			// Deliberately not persisted; see SHOPIFY_ADMIN_ACCESS_TOKEN.
			logger.Info("OAuth access token obtained, update SHOPIFY_ADMIN_ACCESS_TOKEN to use it", slog.Int("token_length", len(token)))
		}
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "App installation acknowledged"})
}
