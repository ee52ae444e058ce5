package commands

import (
	"errors"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/pkg/guard"
)

var ErrAcceptOrderCommandIsNotConstructed = errors.New(
	"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
)

// AcceptOrderCommand represents an interpreter accepting an invitation.
type AcceptOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	interpreterID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptOrderCommand creates a command for an interpreter to accept an
// order they were invited to.
func NewAcceptOrderCommand(orderID, interpreterID kernel.UUID) (AcceptOrderCommand, error) {
	command := AcceptOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setInterpreterID(interpreterID),
	); err != nil {
		return AcceptOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}

// OrderID returns the order being accepted.
func (c AcceptOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// InterpreterID returns the accepting interpreter.
func (c AcceptOrderCommand) InterpreterID() kernel.UUID {
	return c.interpreterID
}

func (c *AcceptOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AcceptOrderCommand) setInterpreterID(interpreterID kernel.UUID) error {
	if err := interpreterID.Validate(); err != nil {
		return err
	}

	c.interpreterID = interpreterID
	return nil
}
