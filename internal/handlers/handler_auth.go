package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopmobile/storefront_bff/internal/apperrors"
	"github.com/shopmobile/storefront_bff/internal/core/ports/gateways"
	portssvc "github.com/shopmobile/storefront_bff/internal/core/ports/services"
	"github.com/shopmobile/storefront_bff/internal/dto"
	"github.com/shopmobile/storefront_bff/internal/middleware"
)

// authHandler handles the OTP/session lifecycle plus the customer-facing
// address endpoint.
type authHandler struct {
	authService   portssvc.AuthSvcFacade
	gateway       gateways.CustomerGateway
	sessionExpiry time.Duration
}

func newAuthHandler(as portssvc.AuthSvcFacade, gateway gateways.CustomerGateway, sessionExpiry time.Duration) *authHandler {
	return &authHandler{
		authService:   as,
		gateway:       gateway,
		sessionExpiry: sessionExpiry,
	}
}

// sendOTP godoc
// @Summary Send a login OTP
// @Description Emails a 6-digit one-time code to an existing customer
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   request body dto.SendOTPRequest true "Email"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "No account for this email"
// @Failure 502 {object} dto.ErrorResponse "Upstream or mail failure"
// @Router /auth/send-otp [post]
func (h *authHandler) sendOTP(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind send-otp request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "A valid email is required"})
		return
	}

	if err := h.authService.SendLoginOTP(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Success: false, Error: "No account found for this email. Please register first."})
			return
		}
		logger.Error("Failed to send login otp", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "OTP sent successfully", Email: req.Email})
}

// sendRegisterOTP godoc
// @Summary Send a registration OTP
// @Description Emails a 6-digit one-time code without requiring an existing customer
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   request body dto.SendOTPRequest true "Email"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 502 {object} dto.ErrorResponse "Mail failure"
// @Router /auth/send-otp-register [post]
func (h *authHandler) sendRegisterOTP(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind send-otp-register request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "A valid email is required"})
		return
	}

	if err := h.authService.SendRegisterOTP(c.Request.Context(), req.Email); err != nil {
		logger.Error("Failed to send register otp", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "OTP sent successfully", Email: req.Email})
}

// verifyOTP godoc
// @Summary Verify an OTP and mint a session
// @Description Checks the latest code for the email, reconciles the user and returns a bearer token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   request body dto.VerifyOTPRequest true "Email and code"
// @Success 200 {object} dto.AuthSuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid, expired or missing OTP"
// @Failure 502 {object} dto.ErrorResponse "Upstream failure"
// @Router /auth/verify-otp [post]
func (h *authHandler) verifyOTP(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind verify-otp request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "Email and a 6-digit OTP are required"})
		return
	}

	grant, err := h.authService.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		logger.Warn("OTP verification failed", slog.String("email", req.Email), slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthSuccessResponse{
		Success:   true,
		Token:     grant.Token,
		User:      dto.ToUserResponse(grant.User),
		ExpiresIn: dto.HumanizeDuration(h.sessionExpiry),
	})
}

// register godoc
// @Summary Register a new user
// @Description Verifies the OTP, creates the upstream customer and local user, and mints a session
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.AuthSuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or OTP"
// @Failure 409 {object} dto.ErrorResponse "User already exists"
// @Failure 502 {object} dto.ErrorResponse "Upstream failure"
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind register request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "Email, first name and a 6-digit OTP are required"})
		return
	}

	grant, err := h.authService.Register(c.Request.Context(), req.Email, req.FirstName, req.LastName, req.Phone, req.OTP)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, dto.ErrorResponse{Success: false, Error: "An account already exists for this email. Please log in."})
			return
		}
		logger.Warn("Registration failed", slog.String("email", req.Email), slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthSuccessResponse{
		Success:   true,
		Token:     grant.Token,
		User:      dto.ToUserResponse(grant.User),
		ExpiresIn: dto.HumanizeDuration(h.sessionExpiry),
	})
}

// sessionToken pulls the token from the request body, falling back to the
// bearer header.
func sessionToken(c *gin.Context) string {
	var req dto.SessionTokenRequest
	_ = c.ShouldBindJSON(&req)
	if req.Token != "" {
		return req.Token
	}
	token, _ := bearerToken(c)
	return token
}

// validate godoc
// @Summary Validate a session token
// @Description Returns the session's user, refreshed best-effort from upstream. Takes the token in the body or as a bearer header.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   request body dto.SessionTokenRequest false "Session token"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Missing token"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired session"
// @Security BearerAuth
// @Router /auth/validate [post]
func (h *authHandler) validate(c *gin.Context) {
	token := sessionToken(c)
	if token == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "Session token is required"})
		return
	}

	user, err := h.authService.ValidateSession(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": dto.ToUserResponse(*user)})
}

// logout godoc
// @Summary Log out
// @Description Revokes the presented session token. Idempotent. Takes the token in the body or as a bearer header.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   request body dto.SessionTokenRequest false "Session token"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Missing token"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	token := sessionToken(c)
	if token == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "Session token is required"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		logger.Error("Failed to revoke session", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Logged out successfully"})
}

// addAddress godoc
// @Summary Add a customer address
// @Description Attaches a shipping address to the authenticated user's Shopify customer
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   request body dto.AddAddressRequest true "Address"
// @Success 201 {object} map[string]any
// @Failure 400 {object} dto.ErrorResponse "Invalid or rejected address"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 502 {object} dto.ErrorResponse "Upstream failure"
// @Security BearerAuth
// @Router /auth/add-address [post]
func (h *authHandler) addAddress(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Success: false, Error: "Unauthorized"})
		return
	}

	var req dto.AddAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind add-address request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "address1, city and country are required"})
		return
	}

	addr, err := h.gateway.CreateAddress(c.Request.Context(), user.Email, req.ToDomainAddress())
	if err != nil {
		logger.Error("Failed to create address upstream", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "address": addr})
}
