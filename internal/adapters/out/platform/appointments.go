package platform

import (
	"context"
	"net/http"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/ports"
	"interpreting/internal/pkg/errs"
)

// Appointments implements the appointment callback port with direct
// synchronous calls to the platform API. Production wiring puts
// QueuedAppointments in front of it so callbacks survive transient
// platform outages.
type Appointments struct {
	client *Client
}

var _ ports.AppointmentService = &Appointments{}

// NewAppointments creates an appointment adapter on top of the shared
// client.
func NewAppointments(client *Client) (*Appointments, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	return &Appointments{client: client}, nil
}

type assignmentRequest struct {
	InterpreterID string `json:"interpreterId"`
}

type repeatRequest struct {
	OrderID string `json:"orderId"`
}

// MarkAssigned records the interpreter assignment on the appointment.
func (a *Appointments) MarkAssigned(ctx context.Context, appointmentID, interpreterID kernel.UUID) error {
	path := "/internal/v1/appointments/" + appointmentID.String() + "/assignment"
	return a.client.doJSON(ctx, http.MethodPost, path, nil,
		assignmentRequest{InterpreterID: interpreterID.String()}, nil)
}

// MarkCancelled records that the appointment's order was refused.
func (a *Appointments) MarkCancelled(ctx context.Context, appointmentID kernel.UUID) error {
	path := "/internal/v1/appointments/" + appointmentID.String() + "/cancellation"
	return a.client.doJSON(ctx, http.MethodPost, path, nil, nil, nil)
}

// ScheduleRepeat announces a cloned occurrence for the appointment.
func (a *Appointments) ScheduleRepeat(ctx context.Context, appointmentID, orderID kernel.UUID) error {
	path := "/internal/v1/appointments/" + appointmentID.String() + "/repeats"
	return a.client.doJSON(ctx, http.MethodPost, path, nil,
		repeatRequest{OrderID: orderID.String()}, nil)
}
