package commands

import (
	"context"
	"errors"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
	"interpreting/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for seeding a new
// appointment order. The order starts in Created status with search
// needed; the next scheduler sweep opens the first invitation tier.
//
// When the details link the order into a group, the handler adds it to
// the existing group or creates the group on first use.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires a UoWFactory for transactional persistence across order and group.
func NewCreateOrderCommandHandler(uowFactory UoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command.
// Creates the order aggregate, attaches the repeat schedule when present,
// and maintains group membership, all within one transaction.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	newOrder, err := order.NewOrder(cmd.OrderID(), cmd.AppointmentID(), cmd.Details())
	if err != nil {
		return err
	}
	if repeat := cmd.Repeat(); repeat != nil {
		newOrder.SetRepeat(*repeat)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if groupID := cmd.Details().GroupID; groupID != nil {
		if err = h.attachToGroup(ctx, uow, cmd, newOrder); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

func (h CreateOrderCommandHandler) attachToGroup(ctx context.Context, uow UoW, cmd CreateOrderCommand, newOrder *order.Order) error {
	groupRepo := uow.GroupRepository()

	group, err := groupRepo.Get(ctx, *cmd.Details().GroupID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		group, err = order.NewGroup(*cmd.Details().GroupID, cmd.SameInterpreter(), []kernel.UUID{newOrder.ID()})
		if err != nil {
			return err
		}
		return groupRepo.Add(ctx, group)
	}
	if err != nil {
		return err
	}

	if err = group.AddOrder(newOrder.ID()); err != nil {
		return err
	}
	return groupRepo.Update(ctx, group)
}
