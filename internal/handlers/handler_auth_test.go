package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/shopmobile/storefront_bff/internal/apperrors"
	"github.com/shopmobile/storefront_bff/internal/core/domain"
	portssvc "github.com/shopmobile/storefront_bff/internal/core/ports/services"
	"github.com/shopmobile/storefront_bff/internal/dto"
	"github.com/shopmobile/storefront_bff/internal/handlers"
	"github.com/shopmobile/storefront_bff/internal/platform/config"
)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SendLoginOTP(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
func (m *MockAuthService) SendRegisterOTP(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
func (m *MockAuthService) VerifyOTP(ctx context.Context, email, code string) (*portssvc.AuthGrant, error) {
	args := m.Called(ctx, email, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.AuthGrant), args.Error(1)
}
func (m *MockAuthService) Register(ctx context.Context, email, firstName, lastName, phone, code string) (*portssvc.AuthGrant, error) {
	args := m.Called(ctx, email, firstName, lastName, phone, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.AuthGrant), args.Error(1)
}
func (m *MockAuthService) ValidateSession(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Mock IdentityService ---
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) GetOrCreateUser(ctx context.Context, email string, forceRefresh bool) (*domain.User, error) {
	args := m.Called(ctx, email, forceRefresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockIdentityService) RegisterUser(ctx context.Context, email, firstName, lastName, phone string) (*domain.User, error) {
	args := m.Called(ctx, email, firstName, lastName, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.IdentitySvcFacade = (*MockIdentityService)(nil)

// --- Mock CartService ---
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddItem(ctx context.Context, input portssvc.AddCartItemInput) (*domain.CartItem, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}
func (m *MockCartService) GetCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}
func (m *MockCartService) UpdateItemQuantity(ctx context.Context, userID, itemID int64, quantity int) error {
	args := m.Called(ctx, userID, itemID, quantity)
	return args.Error(0)
}
func (m *MockCartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}
func (m *MockCartService) ClearCart(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

var _ portssvc.CartSvcFacade = (*MockCartService)(nil)

// --- Mock OrderService ---
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, userID int64, shipping domain.Address, paymentMethod, notes string) (*domain.Order, *domain.ShopifyOrder, error) {
	args := m.Called(ctx, userID, shipping, paymentMethod, notes)
	var local *domain.Order
	var upstream *domain.ShopifyOrder
	if args.Get(0) != nil {
		local = args.Get(0).(*domain.Order)
	}
	if args.Get(1) != nil {
		upstream = args.Get(1).(*domain.ShopifyOrder)
	}
	return local, upstream, args.Error(2)
}
func (m *MockOrderService) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

var _ portssvc.OrderSvcFacade = (*MockOrderService)(nil)

// --- Mock CustomerGateway ---
type MockCustomerGateway struct {
	mock.Mock
}

func (m *MockCustomerGateway) FindCustomerByEmail(ctx context.Context, email string, api domain.CustomerAPI) (*domain.Customer, error) {
	args := m.Called(ctx, email, api)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerGateway) CustomerExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *MockCustomerGateway) CreateCustomer(ctx context.Context, email, firstName, lastName string) (*domain.Customer, error) {
	args := m.Called(ctx, email, firstName, lastName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerGateway) CreateAddress(ctx context.Context, email string, addr domain.Address) (*domain.Address, error) {
	args := m.Called(ctx, email, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}
func (m *MockCustomerGateway) GetProfile(ctx context.Context, email string) (*domain.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerGateway) GetOrders(ctx context.Context, email string) ([]domain.ShopifyOrder, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShopifyOrder), args.Error(1)
}
func (m *MockCustomerGateway) CreateOrder(ctx context.Context, email string, items []domain.CartItem, shipping domain.Address, notes string) (*domain.ShopifyOrder, error) {
	args := m.Called(ctx, email, items, shipping, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShopifyOrder), args.Error(1)
}

// --- Test Suite ---
type AuthHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockAuth    *MockAuthService
	mockCart    *MockCartService
	mockOrder   *MockOrderService
	mockGateway *MockCustomerGateway
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockAuth = new(MockAuthService)
	suite.mockCart = new(MockCartService)
	suite.mockOrder = new(MockOrderService)
	suite.mockGateway = new(MockCustomerGateway)

	cfg := &config.Config{
		IsProduction:          true, // skip swagger wiring in tests
		SessionExpiryDuration: 30 * 24 * time.Hour,
	}
	container := &portssvc.ServiceContainer{
		Auth:     suite.mockAuth,
		Identity: new(MockIdentityService),
		Cart:     suite.mockCart,
		Order:    suite.mockOrder,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, container, suite.mockGateway, nil)
}

func (suite *AuthHandlerTestSuite) performJSON(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthHandlerTestSuite) TestHealth() {
	w := suite.performJSON(http.MethodGet, "/health", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *AuthHandlerTestSuite) TestRootBanner() {
	w := suite.performJSON(http.MethodGet, "/", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "running")
}

func (suite *AuthHandlerTestSuite) TestInstall_NotConfigured() {
	w := suite.performJSON(http.MethodGet, "/auth/install", nil, nil)
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *AuthHandlerTestSuite) TestSendOTP_Success() {
	suite.mockAuth.On("SendLoginOTP", mock.Anything, "jane@example.com").Return(nil).Once()

	w := suite.performJSON(http.MethodPost, "/auth/send-otp", dto.SendOTPRequest{Email: "jane@example.com"}, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.MessageResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Success)
	suite.Equal("jane@example.com", resp.Email)
	suite.mockAuth.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestSendOTP_UnknownEmail() {
	suite.mockAuth.On("SendLoginOTP", mock.Anything, "nobody@example.com").Return(apperrors.ErrNotFound).Once()

	w := suite.performJSON(http.MethodPost, "/auth/send-otp", dto.SendOTPRequest{Email: "nobody@example.com"}, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AuthHandlerTestSuite) TestSendOTP_InvalidEmail() {
	w := suite.performJSON(http.MethodPost, "/auth/send-otp", gin.H{"email": "not-an-email"}, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAuth.AssertNotCalled(suite.T(), "SendLoginOTP", mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestVerifyOTP_Success() {
	grant := &portssvc.AuthGrant{
		Token:     "session-token",
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
		User:      domain.User{ID: 7, Email: "jane@example.com", Name: "Jane Doe", TotalSpent: decimal.Zero},
	}
	suite.mockAuth.On("VerifyOTP", mock.Anything, "jane@example.com", "123456").Return(grant, nil).Once()

	w := suite.performJSON(http.MethodPost, "/auth/verify-otp", dto.VerifyOTPRequest{Email: "jane@example.com", OTP: "123456"}, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AuthSuccessResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Success)
	suite.Equal("session-token", resp.Token)
	suite.Equal(int64(7), resp.User.ID)
	suite.Equal("30 days", resp.ExpiresIn)
}

func (suite *AuthHandlerTestSuite) TestVerifyOTP_WrongCode() {
	suite.mockAuth.On("VerifyOTP", mock.Anything, "jane@example.com", "654321").Return(nil, apperrors.ErrOTPInvalid).Once()

	w := suite.performJSON(http.MethodPost, "/auth/verify-otp", dto.VerifyOTPRequest{Email: "jane@example.com", OTP: "654321"}, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Success)
	suite.Equal("Invalid OTP", resp.Error)
}

func (suite *AuthHandlerTestSuite) TestVerifyOTP_MalformedCode() {
	w := suite.performJSON(http.MethodPost, "/auth/verify-otp", gin.H{"email": "jane@example.com", "otp": "12"}, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAuth.AssertNotCalled(suite.T(), "VerifyOTP", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestRegister_Duplicate() {
	suite.mockAuth.On("Register", mock.Anything, "jane@example.com", "Jane", "Doe", "", "123456").
		Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.performJSON(http.MethodPost, "/auth/register", dto.RegisterRequest{
		Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", OTP: "123456",
	}, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AuthHandlerTestSuite) TestRegister_Success() {
	grant := &portssvc.AuthGrant{
		Token: "session-token",
		User:  domain.User{ID: 12, Email: "jane@example.com", TotalSpent: decimal.Zero},
	}
	suite.mockAuth.On("Register", mock.Anything, "jane@example.com", "Jane", "Doe", "", "123456").
		Return(grant, nil).Once()

	w := suite.performJSON(http.MethodPost, "/auth/register", dto.RegisterRequest{
		Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", OTP: "123456",
	}, nil)

	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *AuthHandlerTestSuite) TestValidate_MissingToken() {
	w := suite.performJSON(http.MethodPost, "/auth/validate", nil, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAuth.AssertNotCalled(suite.T(), "ValidateSession", mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestValidate_BodyToken() {
	user := &domain.User{ID: 7, Email: "jane@example.com", Name: "Jane Doe", TotalSpent: decimal.Zero}
	suite.mockAuth.On("ValidateSession", mock.Anything, "tok").Return(user, nil).Once()

	w := suite.performJSON(http.MethodPost, "/auth/validate", dto.SessionTokenRequest{Token: "tok"}, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "jane@example.com")
}

func (suite *AuthHandlerTestSuite) TestValidate_Success() {
	user := &domain.User{ID: 7, Email: "jane@example.com", Name: "Jane Doe", TotalSpent: decimal.Zero}
	suite.mockAuth.On("ValidateSession", mock.Anything, "tok").Return(user, nil).Once()

	w := suite.performJSON(http.MethodGet, "/auth/validate", nil, map[string]string{"Authorization": "Bearer tok"})

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "jane@example.com")
}

func (suite *AuthHandlerTestSuite) TestValidate_ExpiredSession() {
	suite.mockAuth.On("ValidateSession", mock.Anything, "stale").Return(nil, apperrors.ErrSessionExpired).Once()

	w := suite.performJSON(http.MethodGet, "/auth/validate", nil, map[string]string{"Authorization": "Bearer stale"})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "expired")
}

func (suite *AuthHandlerTestSuite) TestLogout() {
	suite.mockAuth.On("Logout", mock.Anything, "tok").Return(nil).Once()

	w := suite.performJSON(http.MethodPost, "/auth/logout", nil, map[string]string{"Authorization": "Bearer tok"})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockAuth.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestLogout_BodyToken() {
	suite.mockAuth.On("Logout", mock.Anything, "tok").Return(nil).Once()

	w := suite.performJSON(http.MethodPost, "/auth/logout", dto.SessionTokenRequest{Token: "tok"}, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockAuth.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestLogout_MissingToken() {
	w := suite.performJSON(http.MethodPost, "/auth/logout", nil, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAuth.AssertNotCalled(suite.T(), "Logout", mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestAddAddress_Success() {
	user := &domain.User{ID: 7, Email: "jane@example.com"}
	addr := &domain.Address{ID: "gid://shopify/MailingAddress/7", Address1: "1 Main St", City: "Springfield", Country: "US"}

	suite.mockAuth.On("ValidateSession", mock.Anything, "tok").Return(user, nil).Once()
	suite.mockGateway.On("CreateAddress", mock.Anything, "jane@example.com", mock.AnythingOfType("domain.Address")).Return(addr, nil).Once()

	w := suite.performJSON(http.MethodPost, "/auth/add-address", dto.AddAddressRequest{
		Address1: "1 Main St", City: "Springfield", Country: "US",
	}, map[string]string{"Authorization": "Bearer tok"})

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockGateway.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestCart_RequiresSession() {
	w := suite.performJSON(http.MethodGet, "/cart", nil, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockCart.AssertNotCalled(suite.T(), "GetCart", mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestCart_GetWithSession() {
	user := &domain.User{ID: 7, Email: "jane@example.com"}
	cart := &domain.Cart{ID: 5, UserID: 7, Status: "active", Items: []domain.CartItem{}}

	suite.mockAuth.On("ValidateSession", mock.Anything, "tok").Return(user, nil).Once()
	suite.mockCart.On("GetCart", mock.Anything, int64(7)).Return(cart, nil).Once()

	w := suite.performJSON(http.MethodGet, "/cart", nil, map[string]string{"Authorization": "Bearer tok"})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockCart.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestCart_UpdateItemScopedToSessionUser() {
	user := &domain.User{ID: 7, Email: "jane@example.com"}
	quantity := 3

	suite.mockAuth.On("ValidateSession", mock.Anything, "tok").Return(user, nil).Once()
	suite.mockCart.On("UpdateItemQuantity", mock.Anything, int64(7), int64(9), 3).Return(nil).Once()

	w := suite.performJSON(http.MethodPut, "/cart/items/9", dto.UpdateCartItemRequest{Quantity: &quantity}, map[string]string{"Authorization": "Bearer tok"})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockCart.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestCart_UpdateForeignItemNotFound() {
	user := &domain.User{ID: 7, Email: "jane@example.com"}
	quantity := 3

	suite.mockAuth.On("ValidateSession", mock.Anything, "tok").Return(user, nil).Once()
	suite.mockCart.On("UpdateItemQuantity", mock.Anything, int64(7), int64(42), 3).Return(apperrors.ErrNotFound).Once()

	w := suite.performJSON(http.MethodPut, "/cart/items/42", dto.UpdateCartItemRequest{Quantity: &quantity}, map[string]string{"Authorization": "Bearer tok"})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AuthHandlerTestSuite) TestCart_RemoveItemScopedToSessionUser() {
	user := &domain.User{ID: 7, Email: "jane@example.com"}

	suite.mockAuth.On("ValidateSession", mock.Anything, "tok").Return(user, nil).Once()
	suite.mockCart.On("RemoveItem", mock.Anything, int64(7), int64(9)).Return(nil).Once()

	w := suite.performJSON(http.MethodDelete, "/cart/items/9", nil, map[string]string{"Authorization": "Bearer tok"})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockCart.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestOrders_CreateWithSession() {
	user := &domain.User{ID: 7, Email: "jane@example.com"}
	localOrder := &domain.Order{ID: 3, UserID: 7, ShopifyOrderID: "gid://shopify/Order/2002", TotalAmount: decimal.Zero}
	upstream := &domain.ShopifyOrder{ID: "gid://shopify/Order/2002", Name: "#2002", TotalPrice: decimal.Zero}

	suite.mockAuth.On("ValidateSession", mock.Anything, "tok").Return(user, nil).Once()
	suite.mockOrder.On("CreateOrder", mock.Anything, int64(7), mock.AnythingOfType("domain.Address"), "cod", "").
		Return(localOrder, upstream, nil).Once()

	w := suite.performJSON(http.MethodPost, "/orders", dto.CreateOrderRequest{
		ShippingAddress: dto.AddAddressRequest{Address1: "1 Main St", City: "Springfield", Country: "US"},
		PaymentMethod:   "cod",
	}, map[string]string{"Authorization": "Bearer tok"})

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockOrder.AssertExpectations(suite.T())
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
