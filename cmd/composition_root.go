// Package cmd assembles the service: configuration, explicit dependency
// construction in the composition root, and the application entry point
// under cmd/app.
package cmd

import (
	"log/slog"

	"interpreting/internal/adapters/out/platform"
	"interpreting/internal/adapters/out/postgres"
	adapterredis "interpreting/internal/adapters/out/redis"
	"interpreting/internal/core/application/usecases/commands"
	"interpreting/internal/core/application/usecases/queries"
	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/services"
	"interpreting/internal/inbound"
	"interpreting/internal/jobs"
	"interpreting/internal/notifications"
	"interpreting/internal/queue"
	"interpreting/internal/ws"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot builds every collaborator exactly once and hands out
// use case handlers wired to them. All construction is explicit; nothing
// is resolved lazily at call time.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	matcher      services.Matcher
	directory    *platform.Directory
	appointments *platform.QueuedAppointments
	dispatcher   *notifications.Dispatcher
	router       *inbound.Router

	queueManager *queue.Manager
	hub          *ws.Hub
	logger       *slog.Logger
	adminID      kernel.UUID
}

// NewCompositionRoot wires the object graph from the given connections.
// The queue manager is fully registered but not started; the caller
// starts it alongside the rest of the app lifecycle.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	queueManager, err := queue.NewManager(
		logger,
		queue.Lane{Name: notifications.LaneName, Concurrency: config.NotificationConcurrency},
		queue.Lane{Name: platform.AppointmentLaneName, Concurrency: 1},
		queue.Lane{Name: inbound.PaymentLaneName, Concurrency: config.PaymentConcurrency},
		queue.Lane{Name: inbound.WebhookLaneName, Concurrency: config.WebhookConcurrency},
	)
	if err != nil {
		return nil, err
	}

	presence, err := adapterredis.NewPresenceCache(redisClient, config.PresenceTTL)
	if err != nil {
		return nil, err
	}

	hub, err := ws.NewHub(presence, logger)
	if err != nil {
		return nil, err
	}

	deliveryHandler, err := notifications.NewDeliveryHandler(hub, logger)
	if err != nil {
		return nil, err
	}
	if err := deliveryHandler.Register(queueManager); err != nil {
		return nil, err
	}

	dispatcher, err := notifications.NewDispatcher(queueManager, logger)
	if err != nil {
		return nil, err
	}

	router, err := inbound.NewRouter(queueManager, logger)
	if err != nil {
		return nil, err
	}
	if err := router.Register(queueManager); err != nil {
		return nil, err
	}

	platformClient, err := platform.NewClient(config.PlatformBaseURL, config.PlatformToken)
	if err != nil {
		return nil, err
	}

	directory, err := platform.NewDirectory(platformClient)
	if err != nil {
		return nil, err
	}

	directAppointments, err := platform.NewAppointments(platformClient)
	if err != nil {
		return nil, err
	}
	callbackHandler, err := platform.NewCallbackHandler(directAppointments)
	if err != nil {
		return nil, err
	}
	if err := callbackHandler.Register(queueManager); err != nil {
		return nil, err
	}
	queuedAppointments, err := platform.NewQueuedAppointments(queueManager)
	if err != nil {
		return nil, err
	}

	matcher, err := services.NewMatcher(tierPolicy(config))
	if err != nil {
		return nil, err
	}

	adminID, err := kernel.UUIDFromString(config.AdminActorID)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		gormDB:       gormDB,
		uowFactory:   *postgres.NewGormUnitOfWorkFactory(gormDB),
		matcher:      matcher,
		directory:    directory,
		appointments: queuedAppointments,
		dispatcher:   dispatcher,
		router:       router,
		queueManager: queueManager,
		hub:          hub,
		logger:       logger,
		adminID:      adminID,
	}, nil
}

func tierPolicy(config Config) services.TierPolicy {
	policy := services.DefaultTierPolicy()
	if config.Tier1Duration > 0 {
		policy.Tier1Duration = config.Tier1Duration
	}
	if config.Tier2Duration > 0 {
		policy.Tier2Duration = config.Tier2Duration
	}
	if config.AdminNotifyDelay > 0 {
		policy.AdminNotifyDelay = config.AdminNotifyDelay
	}
	if config.RestartDelay > 0 {
		policy.RestartDelay = config.RestartDelay
	}
	return policy
}

// QueueManager exposes the queue for lifecycle management.
func (c *CompositionRoot) QueueManager() *queue.Manager {
	return c.queueManager
}

// Hub exposes the push hub for the HTTP layer and shutdown.
func (c *CompositionRoot) Hub() *ws.Hub {
	return c.hub
}

// InboundRouter exposes the webhook/payment event router so the HTTP
// layer can enqueue and deployments can register provider processors.
func (c *CompositionRoot) InboundRouter() *inbound.Router {
	return c.router
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.fullUoWFactory())
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.fullUoWFactory(), c.appointments, c.dispatcher)
}

func (c *CompositionRoot) CreateAcceptOrderGroupCommandHandler() commands.AcceptOrderGroupCommandHandler {
	return commands.NewAcceptOrderGroupCommandHandler(c.fullUoWFactory(), c.appointments, c.dispatcher)
}

func (c *CompositionRoot) CreateRejectOrderCommandHandler() commands.RejectOrderCommandHandler {
	return commands.NewRejectOrderCommandHandler(c.orderUoWFactory(), c.dispatcher)
}

func (c *CompositionRoot) CreateRejectOrderGroupCommandHandler() commands.RejectOrderGroupCommandHandler {
	return commands.NewRejectOrderGroupCommandHandler(c.fullUoWFactory(), c.dispatcher)
}

func (c *CompositionRoot) CreateRefuseOrderCommandHandler() commands.RefuseOrderCommandHandler {
	return commands.NewRefuseOrderCommandHandler(c.fullUoWFactory(), c.appointments, c.dispatcher)
}

func (c *CompositionRoot) CreateRefuseOrderGroupCommandHandler() commands.RefuseOrderGroupCommandHandler {
	return commands.NewRefuseOrderGroupCommandHandler(c.fullUoWFactory(), c.appointments, c.dispatcher)
}

func (c *CompositionRoot) CreateAddInterpreterToOrderCommandHandler() commands.AddInterpreterToOrderCommandHandler {
	return commands.NewAddInterpreterToOrderCommandHandler(c.orderUoWFactory(), c.dispatcher)
}

func (c *CompositionRoot) CreateSendRepeatNotificationCommandHandler() commands.SendRepeatNotificationCommandHandler {
	return commands.NewSendRepeatNotificationCommandHandler(c.orderUoWFactory(), c.dispatcher)
}

func (c *CompositionRoot) CreateRunSearchSweepCommandHandler() commands.RunSearchSweepCommandHandler {
	return commands.NewRunSearchSweepCommandHandler(
		c.fullUoWFactory(), c.matcher, c.directory, c.dispatcher, c.adminID)
}

func (c *CompositionRoot) CreateRunRepeatSweepCommandHandler() commands.RunRepeatSweepCommandHandler {
	return commands.NewRunRepeatSweepCommandHandler(c.orderUoWFactory(), c.appointments)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrdersAwaitingSearchQueryHandler() queries.GetOrdersAwaitingSearchQueryHandler {
	return queries.NewGetOrdersAwaitingSearchQueryHandler(c.gormDB)
}

// CreateJobManager builds the scheduled sweep jobs on top of the sweep
// handlers.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRunSearchSweepCommandHandler(),
		c.CreateRunRepeatSweepCommandHandler(),
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
