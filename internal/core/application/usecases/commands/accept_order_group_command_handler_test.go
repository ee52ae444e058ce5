package commands_test

import (
	"testing"

	"interpreting/internal/core/application/usecases/commands"
	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
	"interpreting/internal/core/ports"
	"interpreting/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func groupWithMembers(t *testing.T, members ...*order.Order) *order.Group {
	t.Helper()

	ids := make([]kernel.UUID, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.ID())
	}
	g, err := order.NewGroup(kernel.NewUUID(), true, ids)
	require.NoError(t, err)
	return g
}

func TestAcceptOrderGroupCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	winner := kernel.NewUUID()
	first := orderWithCandidates(t, winner)
	second := orderWithCandidates(t, winner)
	group := groupWithMembers(t, first, second)

	ordersRepo := &MockOrderRepository{}
	ordersRepo.On("Get", ctx, first.ID()).Return(first, nil)
	ordersRepo.On("Get", ctx, second.ID()).Return(second, nil)
	ordersRepo.On("Update", ctx, mock.Anything).Return(nil)

	groupRepo := &MockGroupRepository{}
	groupRepo.On("Get", ctx, group.ID()).Return(group, nil)
	groupRepo.On("Update", ctx, group).Return(nil)

	uow := &MockUoW{}
	expectTx(uow, ordersRepo, groupRepo)
	uow.On("Commit", ctx).Return(nil)

	factory := &MockUoWFactory{}
	factory.On("Create").Return(uow)

	appointments := &MockAppointmentService{}
	appointments.On("MarkAssigned", ctx, first.AppointmentID(), winner).Return(nil)
	appointments.On("MarkAssigned", ctx, second.AppointmentID(), winner).Return(nil)

	handler := commands.NewAcceptOrderGroupCommandHandler(factory, appointments, &MockNotifier{})
	cmd, err := commands.NewAcceptOrderGroupCommand(group.ID(), winner)
	require.NoError(t, err)

	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Assigned, first.Status())
	assert.Equal(t, order.Assigned, second.Status())
	appointments.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAcceptOrderGroupCommandHandler_Handle_MemberConflictAbortsAll(t *testing.T) {
	ctx := t.Context()
	winner := kernel.NewUUID()
	first := orderWithCandidates(t, winner)
	second := orderWithCandidates(t, winner)
	group := groupWithMembers(t, first, second)

	conflict := errs.NewConflictError("order", second.ID().String())

	ordersRepo := &MockOrderRepository{}
	ordersRepo.On("Get", ctx, first.ID()).Return(first, nil)
	ordersRepo.On("Get", ctx, second.ID()).Return(second, nil)
	ordersRepo.On("Update", ctx, first).Return(nil)
	ordersRepo.On("Update", ctx, second).Return(conflict)

	groupRepo := &MockGroupRepository{}
	groupRepo.On("Get", ctx, group.ID()).Return(group, nil)

	uow := &MockUoW{}
	expectTx(uow, ordersRepo, groupRepo)

	factory := &MockUoWFactory{}
	factory.On("Create").Return(uow)

	appointments := &MockAppointmentService{}
	notifier := &MockNotifier{}

	handler := commands.NewAcceptOrderGroupCommandHandler(factory, appointments, notifier)
	cmd, err := commands.NewAcceptOrderGroupCommand(group.ID(), winner)
	require.NoError(t, err)

	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertCalled(t, "Rollback", mock.Anything)
	appointments.AssertNotCalled(t, "MarkAssigned", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestAcceptOrderGroupCommandHandler_Handle_MemberAlreadyAssigned(t *testing.T) {
	ctx := t.Context()
	winner, rival := kernel.NewUUID(), kernel.NewUUID()
	first := orderWithCandidates(t, winner)
	second := orderWithCandidates(t, winner, rival)
	require.NoError(t, second.Assign(rival))
	group := groupWithMembers(t, first, second)

	ordersRepo := &MockOrderRepository{}
	ordersRepo.On("Get", ctx, first.ID()).Return(first, nil)
	ordersRepo.On("Get", ctx, second.ID()).Return(second, nil)
	ordersRepo.On("Update", ctx, first).Return(nil)

	groupRepo := &MockGroupRepository{}
	groupRepo.On("Get", ctx, group.ID()).Return(group, nil)

	uow := &MockUoW{}
	expectTx(uow, ordersRepo, groupRepo)

	factory := &MockUoWFactory{}
	factory.On("Create").Return(uow)

	handler := commands.NewAcceptOrderGroupCommandHandler(factory, &MockAppointmentService{}, &MockNotifier{})
	cmd, err := commands.NewAcceptOrderGroupCommand(group.ID(), winner)
	require.NoError(t, err)

	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestAcceptOrderGroupCommandHandler_Handle_CancelsLosersOnce(t *testing.T) {
	ctx := t.Context()
	winner, loser := kernel.NewUUID(), kernel.NewUUID()
	first := orderWithCandidates(t, winner, loser)
	second := orderWithCandidates(t, winner, loser)
	group := groupWithMembers(t, first, second)

	ordersRepo := &MockOrderRepository{}
	ordersRepo.On("Get", ctx, first.ID()).Return(first, nil)
	ordersRepo.On("Get", ctx, second.ID()).Return(second, nil)
	ordersRepo.On("Update", ctx, mock.Anything).Return(nil)

	groupRepo := &MockGroupRepository{}
	groupRepo.On("Get", ctx, group.ID()).Return(group, nil)
	groupRepo.On("Update", ctx, group).Return(nil)

	uow := &MockUoW{}
	expectTx(uow, ordersRepo, groupRepo)
	uow.On("Commit", ctx).Return(nil)

	factory := &MockUoWFactory{}
	factory.On("Create").Return(uow)

	appointments := &MockAppointmentService{}
	appointments.On("MarkAssigned", ctx, mock.Anything, winner).Return(nil)

	notifier := &MockNotifier{}
	notifier.On("Dispatch", ctx, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Kind == ports.NotificationCancellation &&
			len(n.Targets) == 1 && n.Targets[0].IsEqual(loser)
	})).Return().Once()

	handler := commands.NewAcceptOrderGroupCommandHandler(factory, appointments, notifier)
	cmd, err := commands.NewAcceptOrderGroupCommand(group.ID(), winner)
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))
	notifier.AssertExpectations(t)
}
