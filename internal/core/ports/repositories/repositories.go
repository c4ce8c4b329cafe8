package repositories

// RepositoryProvider bundles all repository implementations for injection into
// the service container.
type RepositoryProvider struct {
	UserRepo    UserRepositoryFacade
	OTPRepo     OTPRepository
	SessionRepo SessionRepository
	CartRepo    CartRepository
	OrderRepo   OrderRepository
}
