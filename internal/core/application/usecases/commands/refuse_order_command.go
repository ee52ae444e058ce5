package commands

import (
	"errors"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/pkg/guard"
)

var ErrRefuseOrderCommandIsNotConstructed = errors.New(
	"RefuseOrderCommand must be created via NewRefuseOrderCommand constructor",
)

// RefuseOrderCommand represents a client or operator cancelling an order.
type RefuseOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRefuseOrderCommand creates a command to cancel an order.
func NewRefuseOrderCommand(orderID kernel.UUID) (RefuseOrderCommand, error) {
	command := RefuseOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return RefuseOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RefuseOrderCommand) Validate() error {
	return c.guard.Validate(ErrRefuseOrderCommandIsNotConstructed)
}

// OrderID returns the order being cancelled.
func (c RefuseOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *RefuseOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
