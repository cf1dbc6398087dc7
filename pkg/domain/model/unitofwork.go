package model

import "context"

type RepositoryProvider interface {
	OrderRepository() OrderRepository
	TransactionRepository() TransactionRepository
	CustomerRepository() CustomerRepository
}

// UnitOfWork runs fn atomically: every write made through the provider is
// committed when fn returns nil and discarded otherwise.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(provider RepositoryProvider) error) error
}
