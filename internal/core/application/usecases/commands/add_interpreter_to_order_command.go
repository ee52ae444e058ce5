package commands

import (
	"errors"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/pkg/guard"
)

var ErrAddInterpreterToOrderCommandIsNotConstructed = errors.New(
	"AddInterpreterToOrderCommand must be created via NewAddInterpreterToOrderCommand constructor",
)

// AddInterpreterToOrderCommand represents an operator force-adding a
// candidate to an order, bypassing tier rules.
type AddInterpreterToOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	interpreterID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAddInterpreterToOrderCommand creates an operator override command to
// invite a specific interpreter regardless of tier rules.
func NewAddInterpreterToOrderCommand(orderID, interpreterID kernel.UUID) (AddInterpreterToOrderCommand, error) {
	command := AddInterpreterToOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setInterpreterID(interpreterID),
	); err != nil {
		return AddInterpreterToOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AddInterpreterToOrderCommand) Validate() error {
	return c.guard.Validate(ErrAddInterpreterToOrderCommandIsNotConstructed)
}

// OrderID returns the order receiving the candidate.
func (c AddInterpreterToOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// InterpreterID returns the interpreter being force-invited.
func (c AddInterpreterToOrderCommand) InterpreterID() kernel.UUID {
	return c.interpreterID
}

func (c *AddInterpreterToOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AddInterpreterToOrderCommand) setInterpreterID(interpreterID kernel.UUID) error {
	if err := interpreterID.Validate(); err != nil {
		return err
	}

	c.interpreterID = interpreterID
	return nil
}
