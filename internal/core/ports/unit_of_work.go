package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of a lifecycle command.
// Client code must explicitly manage the transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// ParcelRepository is bound to the transaction started by Begin, or to the
	// plain connection when no transaction is active.
	ParcelRepository() ParcelRepository

	// DeliveryRepository is bound the same way as ParcelRepository.
	DeliveryRepository() DeliveryRepository

	// UserRepository is bound the same way as ParcelRepository.
	UserRepository() UserRepository
}
