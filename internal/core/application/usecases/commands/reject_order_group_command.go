package commands

import (
	"errors"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/pkg/guard"
)

var ErrRejectOrderGroupCommandIsNotConstructed = errors.New(
	"RejectOrderGroupCommand must be created via NewRejectOrderGroupCommand constructor",
)

// RejectOrderGroupCommand represents an invited interpreter declining a
// whole order group.
type RejectOrderGroupCommand struct { //nolint:recvcheck //using for validation
	groupID       kernel.UUID
	interpreterID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRejectOrderGroupCommand creates a command for an interpreter to
// decline all member orders of a group.
func NewRejectOrderGroupCommand(groupID, interpreterID kernel.UUID) (RejectOrderGroupCommand, error) {
	command := RejectOrderGroupCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setGroupID(groupID),
		command.setInterpreterID(interpreterID),
	); err != nil {
		return RejectOrderGroupCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectOrderGroupCommand) Validate() error {
	return c.guard.Validate(ErrRejectOrderGroupCommandIsNotConstructed)
}

// GroupID returns the group being declined.
func (c RejectOrderGroupCommand) GroupID() kernel.UUID {
	return c.groupID
}

// InterpreterID returns the declining interpreter.
func (c RejectOrderGroupCommand) InterpreterID() kernel.UUID {
	return c.interpreterID
}

func (c *RejectOrderGroupCommand) setGroupID(groupID kernel.UUID) error {
	if err := groupID.Validate(); err != nil {
		return err
	}

	c.groupID = groupID
	return nil
}

func (c *RejectOrderGroupCommand) setInterpreterID(interpreterID kernel.UUID) error {
	if err := interpreterID.Validate(); err != nil {
		return err
	}

	c.interpreterID = interpreterID
	return nil
}
