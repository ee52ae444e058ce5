package ports

import (
	"context"

	"interpreting/internal/core/domain/model/kernel"
)

// AppointmentService is the callback contract into the service owning
// appointments. The order engine calls it after its own transaction
// commits so appointment status follows the order's resolution.
type AppointmentService interface {
	// MarkAssigned records that the appointment got its interpreter.
	MarkAssigned(ctx context.Context, appointmentID, interpreterID kernel.UUID) error

	// MarkCancelled records that the appointment's order was refused.
	MarkCancelled(ctx context.Context, appointmentID kernel.UUID) error

	// ScheduleRepeat announces a cloned occurrence so the appointment
	// side can materialize the new booking leg.
	ScheduleRepeat(ctx context.Context, appointmentID, orderID kernel.UUID) error
}
