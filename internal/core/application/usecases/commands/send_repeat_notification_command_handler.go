package commands

import (
	"context"

	"interpreting/internal/core/ports"
)

// SendRepeatNotificationCommandHandler re-sends the invitation to the
// current candidates of an order. Order state is read but never changed;
// the nudge is pure notification fan-out.
type SendRepeatNotificationCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

// NewSendRepeatNotificationCommandHandler creates a handler for the nudge.
func NewSendRepeatNotificationCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
) SendRepeatNotificationCommandHandler {
	return SendRepeatNotificationCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle reads the order and dispatches a repeat-reminder to every
// invited interpreter. An order without live invitations is a no-op.
func (h SendRepeatNotificationCommandHandler) Handle(ctx context.Context, cmd SendRepeatNotificationCommand) error {
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

	nudgedOrder, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	targets := nudgedOrder.Candidates().Matched()
	if len(targets) == 0 {
		return nil
	}

	h.notifier.Dispatch(ctx, ports.Notification{
		Kind:       ports.NotificationRepeatReminder,
		OrderID:    nudgedOrder.ID(),
		PlatformID: nudgedOrder.Details().PlatformID,
		Targets:    targets,
	})
	return nil
}
