package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopmobile/storefront_bff/internal/core/ports/gateways"
	"github.com/shopmobile/storefront_bff/internal/dto"
	"github.com/shopmobile/storefront_bff/internal/middleware"
)

// customerHandler proxies the authenticated user's Shopify customer data.
type customerHandler struct {
	gateway gateways.CustomerGateway
}

func newCustomerHandler(gateway gateways.CustomerGateway) *customerHandler {
	return &customerHandler{gateway: gateway}
}

// registerCustomerRoutes registers customer proxy routes on an authenticated group.
func registerCustomerRoutes(rg *gin.RouterGroup, gateway gateways.CustomerGateway) {
	h := newCustomerHandler(gateway)

	customer := rg.Group("/customer")
	{
		customer.GET("/profile", h.getProfile)
		customer.GET("/orders", h.getOrders)
	}
}

// getProfile godoc
// @Summary Get the Shopify customer profile
// @Tags customer
// @Produce  json
// @Success 200 {object} map[string]any
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "No upstream customer"
// @Failure 502 {object} dto.ErrorResponse "Upstream failure"
// @Security BearerAuth
// @Router /customer/profile [get]
func (h *customerHandler) getProfile(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Success: false, Error: "Unauthorized"})
		return
	}

	profile, err := h.gateway.GetProfile(c.Request.Context(), user.Email)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to fetch customer profile", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "customer": profile})
}

// getOrders godoc
// @Summary Get the Shopify order history
// @Tags customer
// @Produce  json
// @Success 200 {object} map[string]any
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "No upstream customer"
// @Failure 502 {object} dto.ErrorResponse "Upstream failure"
// @Security BearerAuth
// @Router /customer/orders [get]
func (h *customerHandler) getOrders(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Success: false, Error: "Unauthorized"})
		return
	}

	orders, err := h.gateway.GetOrders(c.Request.Context(), user.Email)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to fetch customer orders", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}
