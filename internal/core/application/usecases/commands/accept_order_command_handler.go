package commands

import (
	"context"
	"fmt"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/ports"
	"interpreting/internal/pkg/errs"
)

// AcceptOrderCommandHandler handles an interpreter accepting an order.
//
// This is the operation every concurrent accept races on. The aggregate
// checks candidacy and assignability; the repository's version-conditional
// update is the authoritative arbiter, so of N concurrent accepts exactly
// one commit succeeds and the rest surface errs.ErrConflict.
//
// Orders linked into a same-interpreter group carry an extra constraint:
// every member's eventual assignee must be identical. The handler loads
// the parent group inside the transaction, rejects the accept when a
// sibling is already assigned to someone else, and writes the group row
// so concurrent accepts on siblings serialize on the group version.
//
// After the commit the handler notifies the appointment side and sends a
// best-effort cancellation to the candidates who lost the race.
//
// Example:
//
//	handler := NewAcceptOrderCommandHandler(uowFactory, appointments, notifier)
//	cmd, _ := NewAcceptOrderCommand(orderID, interpreterID)
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConflict) {
//	    // someone else got the order first
//	}
type AcceptOrderCommandHandler struct {
	uowFactory   UoWFactory
	appointments ports.AppointmentService
	notifier     ports.Notifier
}

// NewAcceptOrderCommandHandler creates a handler for order acceptance.
func NewAcceptOrderCommandHandler(
	uowFactory UoWFactory,
	appointments ports.AppointmentService,
	notifier ports.Notifier,
) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory:   uowFactory,
		appointments: appointments,
		notifier:     notifier,
	}
}

// Handle processes the accept command.
// Loads the order, applies the assignment, and commits conditionally on
// the loaded version. A conflict means the caller lost the race and must
// re-read order state rather than resubmit blindly.
func (h AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	acceptedOrder, err := ordersRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	losers := withoutID(acceptedOrder.Candidates().Matched(), cmd.InterpreterID())

	if err = acceptedOrder.Assign(cmd.InterpreterID()); err != nil {
		return err
	}

	if groupID := acceptedOrder.Details().GroupID; groupID != nil {
		if err = h.guardGroupAssignee(ctx, uow, *groupID, cmd.OrderID(), cmd.InterpreterID()); err != nil {
			return err
		}
	}

	if err = ordersRepo.Update(ctx, acceptedOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if len(losers) > 0 {
		h.notifier.Dispatch(ctx, ports.Notification{
			Kind:       ports.NotificationCancellation,
			OrderID:    acceptedOrder.ID(),
			PlatformID: acceptedOrder.Details().PlatformID,
			Targets:    losers,
		})
	}

	return h.appointments.MarkAssigned(ctx, acceptedOrder.AppointmentID(), cmd.InterpreterID())
}

// guardGroupAssignee enforces the same-interpreter constraint of the
// order's parent group. When a sibling is already assigned to a different
// interpreter the accept is rejected as a conflict. The group row is
// re-written inside the transaction so two simultaneous accepts on
// siblings of the same group cannot both pass the check; the loser's
// commit fails on the group version.
func (h AcceptOrderCommandHandler) guardGroupAssignee(
	ctx context.Context,
	uow UoW,
	groupID, orderID, interpreterID kernel.UUID,
) error {
	group, err := uow.GroupRepository().Get(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.SameInterpreter() {
		return nil
	}

	ordersRepo := uow.OrderRepository()
	for _, memberID := range group.OrderIDs() {
		if memberID.IsEqual(orderID) {
			continue
		}
		sibling, err := ordersRepo.Get(ctx, memberID)
		if err != nil {
			return err
		}
		assignee := sibling.AssignedInterpreter()
		if assignee != nil && !assignee.IsEqual(interpreterID) {
			return errs.NewConflictErrorWithCause(
				"group", groupID.String(),
				fmt.Errorf("order %s is already assigned to a different interpreter", memberID),
			)
		}
	}

	return uow.GroupRepository().Update(ctx, group)
}

func withoutID(ids []kernel.UUID, exclude kernel.UUID) []kernel.UUID {
	result := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		if !id.IsEqual(exclude) {
			result = append(result, id)
		}
	}
	return result
}
