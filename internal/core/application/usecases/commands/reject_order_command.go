package commands

import (
	"errors"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/pkg/guard"
)

var ErrRejectOrderCommandIsNotConstructed = errors.New(
	"RejectOrderCommand must be created via NewRejectOrderCommand constructor",
)

// RejectOrderCommand represents an invited interpreter declining an order.
type RejectOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	interpreterID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRejectOrderCommand creates a command for an interpreter to decline an
// order they were invited to.
func NewRejectOrderCommand(orderID, interpreterID kernel.UUID) (RejectOrderCommand, error) {
	command := RejectOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setInterpreterID(interpreterID),
	); err != nil {
		return RejectOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectOrderCommand) Validate() error {
	return c.guard.Validate(ErrRejectOrderCommandIsNotConstructed)
}

// OrderID returns the order being declined.
func (c RejectOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// InterpreterID returns the declining interpreter.
func (c RejectOrderCommand) InterpreterID() kernel.UUID {
	return c.interpreterID
}

func (c *RejectOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RejectOrderCommand) setInterpreterID(interpreterID kernel.UUID) error {
	if err := interpreterID.Validate(); err != nil {
		return err
	}

	c.interpreterID = interpreterID
	return nil
}
