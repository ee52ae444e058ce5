package queries

import (
	"errors"
	"time"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
	"interpreting/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves the read model of one order: its status,
// assignment, and search deadlines. Clients reconnecting to the push
// channel re-fetch this instead of trusting buffered events.
//
// Example:
//
//	query, _ := NewGetOrderQuery(orderID)
//	handler := NewGetOrderQueryHandler(db)
//
//	orderView, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // order resolved and removed
//	}
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order's read model.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	query := GetOrderQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setOrderID(orderID); err != nil {
		return GetOrderQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the queried order id.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetOrderQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// GetOrderQueryResponse represents one order's externally visible state.
type GetOrderQueryResponse struct {
	ID                    kernel.UUID
	PlatformID            string
	Status                order.Status
	AssignedInterpreterID *kernel.UUID
	EndSearchTime         *time.Time
	MatchedInterpreterIDs []kernel.UUID
}
