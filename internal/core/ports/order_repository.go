package ports

import (
	"context"
	"time"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Update performs a conditional write keyed on the aggregate's version and
// returns errs.ErrConflict when another writer got there first. Every
// mutation path relies on this: of N concurrent accepts on one order
// exactly one update succeeds.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The write is conditional on the version the aggregate was loaded
	// with; a version mismatch surfaces as errs.ErrConflict.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetDueForSearch retrieves the unresolved orders the sweep must look
	// at: orders flagged for candidate recomputation plus orders whose
	// tier or restart deadline has passed as of now.
	GetDueForSearch(ctx context.Context, now time.Time) ([]*order.Order, error)

	// GetAwaitingRepeat retrieves orders whose next recurring occurrence
	// is due as of now.
	GetAwaitingRepeat(ctx context.Context, now time.Time) ([]*order.Order, error)

	// Delete removes a terminal order from storage.
	Delete(ctx context.Context, id kernel.UUID) error
}
