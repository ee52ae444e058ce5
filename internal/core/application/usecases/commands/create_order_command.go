package commands

import (
	"errors"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
	"interpreting/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to open the search for one
// appointment leg. Carries the identifiers, the session details, and the
// optional recurring-booking schedule.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(orderID, appointmentID, details, nil, false)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
//	// Order is now seeded and the next sweep populates its candidates
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	appointmentID kernel.UUID
	details       order.Details
	repeat        *order.RepeatSchedule

	// sameInterpreter applies when the details link the order into a
	// group that does not exist yet.
	sameInterpreter bool

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to seed a new appointment order.
// The session details are validated by the aggregate factory in the
// handler; here only the identifiers are checked.
func NewCreateOrderCommand(
	orderID, appointmentID kernel.UUID,
	details order.Details,
	repeat *order.RepeatSchedule,
	sameInterpreter bool,
) (CreateOrderCommand, error) {
	command := CreateOrderCommand{
		details:         details,
		repeat:          repeat,
		sameInterpreter: sameInterpreter,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setAppointmentID(appointmentID),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// AppointmentID returns the appointment the order books an interpreter for.
func (c CreateOrderCommand) AppointmentID() kernel.UUID {
	return c.appointmentID
}

// Details returns the session details of the order.
func (c CreateOrderCommand) Details() order.Details {
	return c.details
}

// Repeat returns the recurring-booking schedule, or nil for one-offs.
func (c CreateOrderCommand) Repeat() *order.RepeatSchedule {
	return c.repeat
}

// SameInterpreter reports whether a newly created group must resolve all
// member orders to one interpreter.
func (c CreateOrderCommand) SameInterpreter() bool {
	return c.sameInterpreter
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setAppointmentID(appointmentID kernel.UUID) error {
	if err := appointmentID.Validate(); err != nil {
		return err
	}

	c.appointmentID = appointmentID
	return nil
}
