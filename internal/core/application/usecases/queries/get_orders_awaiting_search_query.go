package queries

import (
	"errors"
	"time"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
	"interpreting/internal/pkg/guard"
)

var ErrGetOrdersAwaitingSearchQueryIsNotConstructed = errors.New(
	"GetOrdersAwaitingSearchQuery must be created via NewGetOrdersAwaitingSearchQuery constructor",
)

// GetOrdersAwaitingSearchQuery retrieves all unresolved orders, for
// operator dashboards watching the search pipeline.
//
// Example:
//
//	query := NewGetOrdersAwaitingSearchQuery()
//	handler := NewGetOrdersAwaitingSearchQueryHandler(db)
//
//	waiting, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get unresolved orders: %w", err)
//	}
//	fmt.Printf("%d orders still searching\n", len(waiting))
type GetOrdersAwaitingSearchQuery struct {
	guard guard.ConstructorGuard
}

// NewGetOrdersAwaitingSearchQuery creates a query for unresolved orders.
// This is a parameterless query.
func NewGetOrdersAwaitingSearchQuery() GetOrdersAwaitingSearchQuery {
	return GetOrdersAwaitingSearchQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetOrdersAwaitingSearchQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersAwaitingSearchQueryIsNotConstructed)
}

// GetOrdersAwaitingSearchQueryResponse represents one unresolved order in
// the search pipeline.
type GetOrdersAwaitingSearchQueryResponse struct {
	ID            kernel.UUID
	PlatformID    string
	Status        order.Status
	EndSearchTime *time.Time
}
