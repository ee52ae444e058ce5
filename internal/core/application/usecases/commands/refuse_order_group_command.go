package commands

import (
	"errors"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/pkg/guard"
)

var ErrRefuseOrderGroupCommandIsNotConstructed = errors.New(
	"RefuseOrderGroupCommand must be created via NewRefuseOrderGroupCommand constructor",
)

// RefuseOrderGroupCommand represents a client or operator cancelling a
// whole order group.
type RefuseOrderGroupCommand struct { //nolint:recvcheck //using for validation
	groupID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRefuseOrderGroupCommand creates a command to cancel a group and all
// its member orders.
func NewRefuseOrderGroupCommand(groupID kernel.UUID) (RefuseOrderGroupCommand, error) {
	command := RefuseOrderGroupCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setGroupID(groupID); err != nil {
		return RefuseOrderGroupCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RefuseOrderGroupCommand) Validate() error {
	return c.guard.Validate(ErrRefuseOrderGroupCommandIsNotConstructed)
}

// GroupID returns the group being cancelled.
func (c RefuseOrderGroupCommand) GroupID() kernel.UUID {
	return c.groupID
}

func (c *RefuseOrderGroupCommand) setGroupID(groupID kernel.UUID) error {
	if err := groupID.Validate(); err != nil {
		return err
	}

	c.groupID = groupID
	return nil
}
