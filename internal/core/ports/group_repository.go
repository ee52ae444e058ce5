package ports

import (
	"context"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
)

// GroupRepository defines the persistence contract for order groups.
// Update is version-conditional like OrderRepository.Update.
type GroupRepository interface {
	// Add persists a new group aggregate to storage.
	Add(ctx context.Context, aggregate *order.Group) error

	// Update persists changes to an existing group aggregate.
	// A version mismatch surfaces as errs.ErrConflict.
	Update(ctx context.Context, aggregate *order.Group) error

	// Get retrieves a group aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Group, error)

	// Delete removes an emptied group from storage.
	Delete(ctx context.Context, id kernel.UUID) error
}
