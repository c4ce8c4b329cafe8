package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/shopmobile/storefront_bff/internal/apperrors"
	"github.com/shopmobile/storefront_bff/internal/core/domain"
	portssvc "github.com/shopmobile/storefront_bff/internal/core/ports/services"
	"github.com/shopmobile/storefront_bff/internal/core/services"
)

type IdentityServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	mockGateway  *MockCustomerGateway
	service      portssvc.IdentitySvcFacade
}

func (suite *IdentityServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockGateway = new(MockCustomerGateway)
	suite.service = services.NewIdentityService(suite.mockUserRepo, suite.mockGateway)
}

func (suite *IdentityServiceTestSuite) TestGetOrCreateUser_ExistingUser_AdminRefresh() {
	ctx := context.Background()
	email := "jane@example.com"
	localCreated := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	upstreamCreated := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	local := &domain.User{ID: 7, Email: email, Name: "Old Name", CreatedAt: localCreated, DataSource: domain.DataSourceLocal}
	upstream := &domain.Customer{
		ID:             "gid://shopify/Customer/42",
		Email:          email,
		FirstName:      "Jane",
		LastName:       "Doe",
		Phone:          "+15550001111",
		CreatedAt:      &upstreamCreated,
		NumberOfOrders: 3,
		TotalSpent:     decimal.RequireFromString("120.50"),
		DataSource:     domain.DataSourceAdmin,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(local, nil).Once()
	suite.mockGateway.On("FindCustomerByEmail", ctx, email, domain.AdminAPI).Return(upstream, nil).Once()
	suite.mockUserRepo.On("UpdateShopifyFields", ctx, email, mock.AnythingOfType("domain.ShopifyFields")).Return(nil).Once()

	user, err := suite.service.GetOrCreateUser(ctx, email, true)

	suite.Require().NoError(err)
	suite.Equal(int64(7), user.ID)
	suite.Equal(email, user.Email)
	suite.Equal("Jane Doe", user.Name)
	suite.Equal("+15550001111", user.Phone)
	suite.Equal("gid://shopify/Customer/42", user.ShopifyID)
	suite.Equal(localCreated, user.CreatedAt)
	suite.Require().NotNil(user.ShopifyCreatedAt)
	suite.Equal(upstreamCreated, *user.ShopifyCreatedAt)
	suite.Equal(int64(3), user.NumberOfOrders)
	suite.Equal(domain.DataSourceAdmin, user.DataSource)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockGateway.AssertExpectations(suite.T())
}

func (suite *IdentityServiceTestSuite) TestGetOrCreateUser_CreatesLocalUser() {
	ctx := context.Background()
	email := "new@example.com"
	created := &domain.User{ID: 11, Email: email, Name: "new"}
	placeholder := &domain.Customer{Email: email, DataSource: domain.DataSourceStorefrontFallback}

	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(nil, apperrors.ErrNotFound).Once()
	// A fresh row gets the email local part as its name.
	suite.mockUserRepo.On("CreateUser", ctx, email, "new").Return(created, nil).Once()
	suite.mockGateway.On("FindCustomerByEmail", ctx, email, domain.StorefrontAPI).Return(placeholder, nil).Once()
	suite.mockUserRepo.On("UpdateShopifyFields", ctx, email, mock.AnythingOfType("domain.ShopifyFields")).Return(nil).Once()

	user, err := suite.service.GetOrCreateUser(ctx, email, false)

	suite.Require().NoError(err)
	suite.Equal(int64(11), user.ID)
	suite.Equal("new", user.Name)
	suite.Equal(domain.DataSourceStorefrontFallback, user.DataSource)
	// The placeholder carries no upstream identity; nothing gets blanked.
	suite.Empty(user.ShopifyID)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockGateway.AssertExpectations(suite.T())
}

func (suite *IdentityServiceTestSuite) TestGetOrCreateUser_CreateRaceRefetches() {
	ctx := context.Background()
	email := "racy@example.com"
	winner := &domain.User{ID: 3, Email: email}

	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("CreateUser", ctx, email, "racy").Return(nil, apperrors.ErrDuplicate).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(winner, nil).Once()
	suite.mockGateway.On("FindCustomerByEmail", ctx, email, domain.StorefrontAPI).Return(nil, nil).Once()
	suite.mockGateway.On("CreateCustomer", ctx, email, "", "").Return(nil, apperrors.ErrUpstreamUnavailable).Once()
	suite.mockUserRepo.On("UpdateShopifyFields", ctx, email, mock.AnythingOfType("domain.ShopifyFields")).Return(nil).Once()

	user, err := suite.service.GetOrCreateUser(ctx, email, false)

	suite.Require().NoError(err)
	suite.Equal(int64(3), user.ID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *IdentityServiceTestSuite) TestGetOrCreateUser_UpstreamDownSoftFails() {
	ctx := context.Background()
	email := "jane@example.com"
	local := &domain.User{ID: 7, Email: email, Name: "Cached Name", ShopifyID: "gid://shopify/Customer/42", DataSource: domain.DataSourceAdmin}

	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(local, nil).Once()
	suite.mockGateway.On("FindCustomerByEmail", ctx, email, domain.AdminAPI).Return(nil, apperrors.ErrUpstreamUnavailable).Once()

	user, err := suite.service.GetOrCreateUser(ctx, email, true)

	suite.Require().NoError(err)
	suite.Equal("Cached Name", user.Name)
	suite.Equal("gid://shopify/Customer/42", user.ShopifyID)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateShopifyFields", mock.Anything, mock.Anything, mock.Anything)
	suite.mockGateway.AssertExpectations(suite.T())
}

func (suite *IdentityServiceTestSuite) TestGetOrCreateUser_NewUserProvisionsUpstream() {
	ctx := context.Background()
	email := "fresh@example.com"
	created := &domain.User{ID: 21, Email: email}
	provisioned := &domain.Customer{
		ID:            "gid://shopify/Customer/77",
		Email:         email,
		DataSource:    domain.DataSourceAdmin,
		IsNewCustomer: true,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("CreateUser", ctx, email, "fresh").Return(created, nil).Once()
	suite.mockGateway.On("FindCustomerByEmail", ctx, email, domain.AdminAPI).Return(nil, nil).Once()
	suite.mockGateway.On("CreateCustomer", ctx, email, "", "").Return(provisioned, nil).Once()
	suite.mockUserRepo.On("UpdateShopifyFields", ctx, email, mock.AnythingOfType("domain.ShopifyFields")).Return(nil).Once()

	user, err := suite.service.GetOrCreateUser(ctx, email, true)

	suite.Require().NoError(err)
	suite.Equal("gid://shopify/Customer/77", user.ShopifyID)
	suite.mockGateway.AssertExpectations(suite.T())
}

func (suite *IdentityServiceTestSuite) TestGetOrCreateUser_DefaultsNameToEmailLocalPart() {
	ctx := context.Background()
	email := "janedoe@example.com"
	created := &domain.User{ID: 31, Email: email, Name: "janedoe"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("CreateUser", ctx, email, "janedoe").Return(created, nil).Once()
	suite.mockGateway.On("FindCustomerByEmail", ctx, email, domain.AdminAPI).Return(nil, nil).Once()
	suite.mockGateway.On("CreateCustomer", ctx, email, "", "").Return(nil, apperrors.ErrUpstreamUnavailable).Once()
	suite.mockUserRepo.On("UpdateShopifyFields", ctx, email, mock.AnythingOfType("domain.ShopifyFields")).Return(nil).Once()

	user, err := suite.service.GetOrCreateUser(ctx, email, true)

	suite.Require().NoError(err)
	suite.Equal("janedoe", user.Name)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *IdentityServiceTestSuite) TestGetOrCreateUser_ProvisionsUpstreamOnStorefrontPath() {
	ctx := context.Background()
	email := "fresh@example.com"
	created := &domain.User{ID: 22, Email: email, Name: "fresh"}
	provisioned := &domain.Customer{ID: "gid://shopify/Customer/88", Email: email, DataSource: domain.DataSourceAdmin, IsNewCustomer: true}

	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("CreateUser", ctx, email, "fresh").Return(created, nil).Once()
	suite.mockGateway.On("FindCustomerByEmail", ctx, email, domain.StorefrontAPI).Return(nil, nil).Once()
	suite.mockGateway.On("CreateCustomer", ctx, email, "", "").Return(provisioned, nil).Once()
	suite.mockUserRepo.On("UpdateShopifyFields", ctx, email, mock.AnythingOfType("domain.ShopifyFields")).Return(nil).Once()

	user, err := suite.service.GetOrCreateUser(ctx, email, false)

	suite.Require().NoError(err)
	suite.Equal("gid://shopify/Customer/88", user.ShopifyID)
	suite.mockGateway.AssertExpectations(suite.T())
}

func (suite *IdentityServiceTestSuite) TestGetOrCreateUser_PersistFailureIsNotFatal() {
	ctx := context.Background()
	email := "jane@example.com"
	local := &domain.User{ID: 7, Email: email}
	upstream := &domain.Customer{ID: "gid://shopify/Customer/42", Email: email, DataSource: domain.DataSourceAdmin}

	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(local, nil).Once()
	suite.mockGateway.On("FindCustomerByEmail", ctx, email, domain.AdminAPI).Return(upstream, nil).Once()
	suite.mockUserRepo.On("UpdateShopifyFields", ctx, email, mock.AnythingOfType("domain.ShopifyFields")).Return(apperrors.ErrNotFound).Once()

	user, err := suite.service.GetOrCreateUser(ctx, email, true)

	suite.Require().NoError(err)
	suite.Equal("gid://shopify/Customer/42", user.ShopifyID)
}

func (suite *IdentityServiceTestSuite) TestRegisterUser_DuplicateLocalUser() {
	ctx := context.Background()
	email := "jane@example.com"

	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(&domain.User{ID: 7, Email: email}, nil).Once()

	user, err := suite.service.RegisterUser(ctx, email, "Jane", "Doe", "")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockGateway.AssertNotCalled(suite.T(), "CreateCustomer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *IdentityServiceTestSuite) TestRegisterUser_UpstreamFailureIsFatal() {
	ctx := context.Background()
	email := "jane@example.com"

	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockGateway.On("CreateCustomer", ctx, email, "Jane", "Doe").Return(nil, apperrors.ErrUpstreamUnavailable).Once()

	user, err := suite.service.RegisterUser(ctx, email, "Jane", "Doe", "")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUpstreamUnavailable)
	// No local row without an upstream customer behind it.
	suite.mockUserRepo.AssertNotCalled(suite.T(), "CreateUser", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *IdentityServiceTestSuite) TestRegisterUser_Success() {
	ctx := context.Background()
	email := "jane@example.com"
	upstream := &domain.Customer{
		ID:            "gid://shopify/Customer/99",
		Email:         email,
		FirstName:     "Jane",
		LastName:      "Doe",
		DataSource:    domain.DataSourceAdmin,
		IsNewCustomer: true,
	}
	created := &domain.User{ID: 12, Email: email, Name: "Jane Doe"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockGateway.On("CreateCustomer", ctx, email, "Jane", "Doe").Return(upstream, nil).Once()
	suite.mockUserRepo.On("CreateUser", ctx, email, "Jane Doe").Return(created, nil).Once()
	suite.mockUserRepo.On("UpdateShopifyFields", ctx, email, mock.AnythingOfType("domain.ShopifyFields")).Return(nil).Once()

	user, err := suite.service.RegisterUser(ctx, email, "Jane", "Doe", "+15550001111")

	suite.Require().NoError(err)
	suite.Equal(int64(12), user.ID)
	suite.Equal("gid://shopify/Customer/99", user.ShopifyID)
	// Upstream has no phone; the registration input fills the gap.
	suite.Equal("+15550001111", user.Phone)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockGateway.AssertExpectations(suite.T())
}

func TestIdentityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceTestSuite))
}
