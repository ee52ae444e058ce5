package commands_test

import (
	"context"
	"testing"
	"time"

	"interpreting/internal/core/application/usecases/commands"
	"interpreting/internal/core/domain/model/interpreter"
	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
	"interpreting/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetDueForSearch(ctx context.Context, now time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAwaitingRepeat(ctx context.Context, now time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockGroupRepository struct{ mock.Mock }

func (m *MockGroupRepository) Add(ctx context.Context, g *order.Group) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGroupRepository) Update(ctx context.Context, g *order.Group) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGroupRepository) Get(ctx context.Context, id kernel.UUID) (*order.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Group), args.Error(1)
}

func (m *MockGroupRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) GroupRepository() ports.GroupRepository {
	args := m.Called()
	return args.Get(0).(ports.GroupRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Dispatch(ctx context.Context, notification ports.Notification) {
	m.Called(ctx, notification)
}

type MockAppointmentService struct{ mock.Mock }

func (m *MockAppointmentService) MarkAssigned(ctx context.Context, appointmentID, interpreterID kernel.UUID) error {
	args := m.Called(ctx, appointmentID, interpreterID)
	return args.Error(0)
}

func (m *MockAppointmentService) MarkCancelled(ctx context.Context, appointmentID kernel.UUID) error {
	args := m.Called(ctx, appointmentID)
	return args.Error(0)
}

func (m *MockAppointmentService) ScheduleRepeat(ctx context.Context, appointmentID, orderID kernel.UUID) error {
	args := m.Called(ctx, appointmentID, orderID)
	return args.Error(0)
}

type MockInterpreterDirectory struct{ mock.Mock }

func (m *MockInterpreterDirectory) GetAvailable(ctx context.Context, query ports.AvailabilityQuery) ([]*interpreter.Profile, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*interpreter.Profile), args.Error(1)
}

func (m *MockInterpreterDirectory) GetProfile(ctx context.Context, id kernel.UUID) (*interpreter.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interpreter.Profile), args.Error(1)
}

// expectTx wires the usual Begin/Rollback expectations plus repository
// lookups onto a unit of work mock.
func expectTx(uow *MockUoW, orders *MockOrderRepository, groups *MockGroupRepository) {
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	if orders != nil {
		uow.On("OrderRepository").Return(orders)
	}
	if groups != nil {
		uow.On("GroupRepository").Return(groups)
	}
}

var testWindowStart = time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

func orderDetails(t *testing.T) order.Details {
	t.Helper()

	languages, err := kernel.NewLanguagePair("en", "de")
	require.NoError(t, err)
	window, err := kernel.NewTimeWindow(testWindowStart, testWindowStart.Add(time.Hour))
	require.NoError(t, err)

	return order.Details{
		PlatformID:      "ORD-2026-0099",
		Languages:       languages,
		Window:          window,
		Communication:   kernel.Video,
		Scheduling:      kernel.OnDemand,
		InterpreterType: interpreter.Professional,
	}
}

func orderWithCandidates(t *testing.T, candidates ...kernel.UUID) *order.Order {
	t.Helper()

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), orderDetails(t))
	require.NoError(t, err)
	if len(candidates) > 0 {
		_, err = o.SetCandidates(candidates)
		require.NoError(t, err)
	}
	return o
}
