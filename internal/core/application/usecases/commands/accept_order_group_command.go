package commands

import (
	"errors"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/pkg/guard"
)

var ErrAcceptOrderGroupCommandIsNotConstructed = errors.New(
	"AcceptOrderGroupCommand must be created via NewAcceptOrderGroupCommand constructor",
)

// AcceptOrderGroupCommand represents an interpreter accepting a whole
// order group, such as every leg of a multi-day booking.
type AcceptOrderGroupCommand struct { //nolint:recvcheck //using for validation
	groupID       kernel.UUID
	interpreterID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptOrderGroupCommand creates a command for an interpreter to
// accept all member orders of a group.
func NewAcceptOrderGroupCommand(groupID, interpreterID kernel.UUID) (AcceptOrderGroupCommand, error) {
	command := AcceptOrderGroupCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setGroupID(groupID),
		command.setInterpreterID(interpreterID),
	); err != nil {
		return AcceptOrderGroupCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptOrderGroupCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderGroupCommandIsNotConstructed)
}

// GroupID returns the group being accepted.
func (c AcceptOrderGroupCommand) GroupID() kernel.UUID {
	return c.groupID
}

// InterpreterID returns the accepting interpreter.
func (c AcceptOrderGroupCommand) InterpreterID() kernel.UUID {
	return c.interpreterID
}

func (c *AcceptOrderGroupCommand) setGroupID(groupID kernel.UUID) error {
	if err := groupID.Validate(); err != nil {
		return err
	}

	c.groupID = groupID
	return nil
}

func (c *AcceptOrderGroupCommand) setInterpreterID(interpreterID kernel.UUID) error {
	if err := interpreterID.Validate(); err != nil {
		return err
	}

	c.interpreterID = interpreterID
	return nil
}
