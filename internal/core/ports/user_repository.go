package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
)

// UserRepository reads the parties of the lifecycle. User management itself
// lives elsewhere; Add exists for seeding and tests.
type UserRepository interface {
	Add(ctx context.Context, u *user.User) error

	// Get returns errs.ErrObjectNotFound when no user has this id.
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)
}
