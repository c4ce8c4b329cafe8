package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	portssvc "github.com/shopmobile/storefront_bff/internal/core/ports/services"
	"github.com/shopmobile/storefront_bff/internal/dto"
	"github.com/shopmobile/storefront_bff/internal/middleware"
)

// cartHandler handles the local cart shadow endpoints.
type cartHandler struct {
	cartService portssvc.CartSvcFacade
}

func newCartHandler(cs portssvc.CartSvcFacade) *cartHandler {
	return &cartHandler{cartService: cs}
}

// registerCartRoutes registers all cart routes on an authenticated group.
func registerCartRoutes(rg *gin.RouterGroup, cartService portssvc.CartSvcFacade) {
	h := newCartHandler(cartService)

	cart := rg.Group("/cart")
	{
		cart.GET("", h.getCart)
		cart.POST("/items", h.addItem)
		cart.PUT("/items/:id", h.updateItem)
		cart.DELETE("/items/:id", h.removeItem)
		cart.DELETE("", h.clearCart)
	}
}

// getCart godoc
// @Summary Get the active cart
// @Tags cart
// @Produce  json
// @Success 200 {object} map[string]any
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /cart [get]
func (h *cartHandler) getCart(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Success: false, Error: "Unauthorized"})
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to get cart", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": cart, "total": cart.Total()})
}

// addItem godoc
// @Summary Add an item to the cart
// @Tags cart
// @Accept  json
// @Produce  json
// @Param   request body dto.AddCartItemRequest true "Item"
// @Success 201 {object} map[string]any
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /cart/items [post]
func (h *cartHandler) addItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Success: false, Error: "Unauthorized"})
		return
	}

	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind add-item request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "productId, variantId, a positive quantity and price are required"})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "price must be a decimal string"})
		return
	}

	item, err := h.cartService.AddItem(c.Request.Context(), portssvc.AddCartItemInput{
		UserID:           userID,
		ShopifyProductID: req.ProductID,
		ShopifyVariantID: req.VariantID,
		Quantity:         req.Quantity,
		Price:            price,
		Currency:         req.Currency,
	})
	if err != nil {
		logger.Error("Failed to add cart item", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "item": item})
}

// updateItem godoc
// @Summary Update a cart line quantity
// @Description Quantity zero removes the line
// @Tags cart
// @Accept  json
// @Produce  json
// @Param   id path int true "Item ID"
// @Param   request body dto.UpdateCartItemRequest true "Quantity"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Item not found"
// @Security BearerAuth
// @Router /cart/items/{id} [put]
func (h *cartHandler) updateItem(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Success: false, Error: "Unauthorized"})
		return
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "Invalid item id"})
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "quantity is required"})
		return
	}

	if err := h.cartService.UpdateItemQuantity(c.Request.Context(), userID, itemID, *req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Cart item updated"})
}

// removeItem godoc
// @Summary Remove a cart line
// @Tags cart
// @Produce  json
// @Param   id path int true "Item ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid item id"
// @Security BearerAuth
// @Router /cart/items/{id} [delete]
func (h *cartHandler) removeItem(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Success: false, Error: "Unauthorized"})
		return
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "Invalid item id"})
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Cart item removed"})
}

// clearCart godoc
// @Summary Clear the active cart
// @Tags cart
// @Produce  json
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /cart [delete]
func (h *cartHandler) clearCart(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Success: false, Error: "Unauthorized"})
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.cartService.ClearCart(c.Request.Context(), cart.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Cart cleared"})
}
