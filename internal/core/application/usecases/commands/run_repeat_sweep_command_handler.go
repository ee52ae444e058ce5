package commands

import (
	"context"
	"errors"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/ports"
	"interpreting/internal/pkg/errs"
)

// RunRepeatSweepCommandHandler clones the next occurrence of every
// recurring booking that is due: a fresh one-off order is seeded for a
// new appointment leg, the source schedule advances, and the appointment
// side is told to materialize the new leg.
//
// Like the search sweep, each source order gets its own transaction and a
// version conflict is treated as a lost race with another instance. The
// clone plus the schedule advance commit together, so a crash never
// produces a duplicated or skipped occurrence.
type RunRepeatSweepCommandHandler struct {
	uowFactory   OrderUoWFactory
	appointments ports.AppointmentService
}

// NewRunRepeatSweepCommandHandler creates a handler for the repeat sweep.
func NewRunRepeatSweepCommandHandler(
	uowFactory OrderUoWFactory,
	appointments ports.AppointmentService,
) RunRepeatSweepCommandHandler {
	return RunRepeatSweepCommandHandler{
		uowFactory:   uowFactory,
		appointments: appointments,
	}
}

// Handle runs one repeat sweep as of the command's time.
func (h RunRepeatSweepCommandHandler) Handle(ctx context.Context, cmd RunRepeatSweepCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	dueIDs, err := h.collectDue(ctx, cmd)
	if err != nil {
		return err
	}

	var sweepErrs []error
	for _, orderID := range dueIDs {
		if err := h.cloneOccurrence(ctx, cmd, orderID); err != nil {
			if errors.Is(err, errs.ErrConflict) {
				continue
			}
			sweepErrs = append(sweepErrs, err)
		}
	}
	return errors.Join(sweepErrs...)
}

func (h RunRepeatSweepCommandHandler) collectDue(ctx context.Context, cmd RunRepeatSweepCommand) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	dueOrders, err := uow.OrderRepository().GetAwaitingRepeat(ctx, cmd.Now())
	if err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(dueOrders))
	for _, dueOrder := range dueOrders {
		ids = append(ids, dueOrder.ID())
	}
	return ids, nil
}

func (h RunRepeatSweepCommandHandler) cloneOccurrence(ctx context.Context, cmd RunRepeatSweepCommand, orderID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	sourceOrder, err := ordersRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if !sourceOrder.RepeatDue(cmd.Now()) {
		return nil
	}

	appointmentID := kernel.NewUUID()
	clone, err := sourceOrder.NextOccurrence(kernel.NewUUID(), appointmentID)
	if err != nil {
		return err
	}

	if err = ordersRepo.Add(ctx, clone); err != nil {
		return err
	}
	if err = ordersRepo.Update(ctx, sourceOrder); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return h.appointments.ScheduleRepeat(ctx, appointmentID, clone.ID())
}
