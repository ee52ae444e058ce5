package commands

import (
	"errors"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/pkg/guard"
)

var ErrSendRepeatNotificationCommandIsNotConstructed = errors.New(
	"SendRepeatNotificationCommand must be created via NewSendRepeatNotificationCommand constructor",
)

// SendRepeatNotificationCommand re-pushes the invitation to every
// currently invited interpreter of an order, without changing state.
type SendRepeatNotificationCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewSendRepeatNotificationCommand creates a command to nudge the
// unresponsive candidates of an order.
func NewSendRepeatNotificationCommand(orderID kernel.UUID) (SendRepeatNotificationCommand, error) {
	command := SendRepeatNotificationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return SendRepeatNotificationCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c SendRepeatNotificationCommand) Validate() error {
	return c.guard.Validate(ErrSendRepeatNotificationCommandIsNotConstructed)
}

// OrderID returns the order whose candidates are nudged.
func (c SendRepeatNotificationCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *SendRepeatNotificationCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
