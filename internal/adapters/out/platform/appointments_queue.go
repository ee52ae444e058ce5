package platform

import (
	"context"
	"fmt"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/ports"
	"interpreting/internal/pkg/errs"
	"interpreting/internal/queue"
)

const (
	// AppointmentLaneName is the queue lane carrying appointment
	// callbacks. It runs at concurrency one so callbacks for the same
	// appointment never interleave.
	AppointmentLaneName = "appointments"

	// AppointmentJobName discriminates appointment callback jobs.
	AppointmentJobName = "appointment-callback"
)

const (
	callbackAssigned        = "assigned"
	callbackCancelled       = "cancelled"
	callbackRepeatScheduled = "repeat-scheduled"
)

type callbackPayload struct {
	Kind          string `json:"kind"`
	AppointmentID string `json:"appointment_id"`
	InterpreterID string `json:"interpreter_id,omitempty"`
	OrderID       string `json:"order_id,omitempty"`
}

// QueuedAppointments fronts the synchronous appointment adapter with the
// durable queue: each callback becomes a job on the appointments lane
// and is retried there on failure, so a platform outage never blocks or
// fails the order transaction that triggered it.
type QueuedAppointments struct {
	manager *queue.Manager
}

var _ ports.AppointmentService = &QueuedAppointments{}

// NewQueuedAppointments creates the queue-backed appointment service.
// Register must be called on the same manager before it starts.
func NewQueuedAppointments(manager *queue.Manager) (*QueuedAppointments, error) {
	if manager == nil {
		return nil, errs.NewValueIsRequiredError("manager")
	}
	return &QueuedAppointments{manager: manager}, nil
}

// MarkAssigned enqueues the assignment callback.
func (q *QueuedAppointments) MarkAssigned(ctx context.Context, appointmentID, interpreterID kernel.UUID) error {
	return q.manager.Enqueue(ctx, AppointmentJobName, callbackPayload{
		Kind:          callbackAssigned,
		AppointmentID: appointmentID.String(),
		InterpreterID: interpreterID.String(),
	})
}

// MarkCancelled enqueues the cancellation callback.
func (q *QueuedAppointments) MarkCancelled(ctx context.Context, appointmentID kernel.UUID) error {
	return q.manager.Enqueue(ctx, AppointmentJobName, callbackPayload{
		Kind:          callbackCancelled,
		AppointmentID: appointmentID.String(),
	})
}

// ScheduleRepeat enqueues the repeat announcement.
func (q *QueuedAppointments) ScheduleRepeat(ctx context.Context, appointmentID, orderID kernel.UUID) error {
	return q.manager.Enqueue(ctx, AppointmentJobName, callbackPayload{
		Kind:          callbackRepeatScheduled,
		AppointmentID: appointmentID.String(),
		OrderID:       orderID.String(),
	})
}

// CallbackHandler executes queued appointment callbacks against the
// synchronous adapter. Returned errors feed the lane's retry policy.
type CallbackHandler struct {
	appointments ports.AppointmentService
}

// NewCallbackHandler creates the job handler delivering callbacks via
// the given service, normally the direct Appointments adapter.
func NewCallbackHandler(appointments ports.AppointmentService) (*CallbackHandler, error) {
	if appointments == nil {
		return nil, errs.NewValueIsRequiredError("appointments")
	}
	return &CallbackHandler{appointments: appointments}, nil
}

// Register binds the handler to the appointments lane.
func (h *CallbackHandler) Register(manager *queue.Manager) error {
	return queue.RegisterJSON(manager, AppointmentJobName, AppointmentLaneName, h.Handle)
}

// Handle delivers one callback.
func (h *CallbackHandler) Handle(ctx context.Context, payload callbackPayload) error {
	appointmentID, err := kernel.UUIDFromString(payload.AppointmentID)
	if err != nil {
		return fmt.Errorf("appointment callback payload: %w", err)
	}

	switch payload.Kind {
	case callbackAssigned:
		interpreterID, parseErr := kernel.UUIDFromString(payload.InterpreterID)
		if parseErr != nil {
			return fmt.Errorf("appointment callback payload: %w", parseErr)
		}
		return h.appointments.MarkAssigned(ctx, appointmentID, interpreterID)
	case callbackCancelled:
		return h.appointments.MarkCancelled(ctx, appointmentID)
	case callbackRepeatScheduled:
		orderID, parseErr := kernel.UUIDFromString(payload.OrderID)
		if parseErr != nil {
			return fmt.Errorf("appointment callback payload: %w", parseErr)
		}
		return h.appointments.ScheduleRepeat(ctx, appointmentID, orderID)
	default:
		return fmt.Errorf("unknown appointment callback kind %q", payload.Kind)
	}
}
